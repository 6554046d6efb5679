package providers

import (
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/systmms/vaultprovider-aws/internal/config"
	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

// ClientOption adjusts the aws.Config built by BuildClientConfig.
type ClientOption func(*clientOptions)

type clientOptions struct {
	baseEndpoint string
	httpClient   aws.HTTPClient
}

// WithBaseEndpoint sends every request to url instead of the regional AWS
// endpoint. Used for LocalStack and tests; signing still uses the configured
// region.
func WithBaseEndpoint(url string) ClientOption {
	return func(o *clientOptions) {
		o.baseEndpoint = url
	}
}

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(client aws.HTTPClient) ClientOption {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// BuildClientConfig turns a parsed configuration into an aws.Config whose
// region and credentials come only from cfg.
//
// The config is assembled directly rather than through the SDK's default
// loader, so environment variables, shared config and credentials files,
// instance metadata and AWS_ENDPOINT_URL are never consulted.
//
// cfg's credential buffers are wiped before BuildClientConfig returns, on
// success and on error.
func BuildClientConfig(cfg *config.AWSConfig, opts ...ClientOption) (aws.Config, error) {
	defer cfg.Wipe()

	if cfg == nil {
		return aws.Config{}, vaultprovider.NewInvalidConfigurationError("configuration is required", nil)
	}
	if cfg.Region == "" {
		return aws.Config{}, vaultprovider.NewInvalidConfigurationError("region is required", nil)
	}

	var credentials aws.CredentialsProvider
	switch cfg.Auth.Type {
	case config.AuthTypeAccessKey:
		if cfg.Auth.AccessKey == nil {
			return aws.Config{}, vaultprovider.NewInvalidConfigurationError("auth: AccessKey credentials are missing", nil)
		}
		credentials = newEnclaveCredentialsProvider(cfg.Auth.AccessKey)
	default:
		return aws.Config{}, vaultprovider.NewInvalidConfigurationError(
			"auth.type: unsupported authentication method "+strconv.Quote(string(cfg.Auth.Type)), nil)
	}

	var o clientOptions
	for _, opt := range opts {
		opt(&o)
	}

	awsCfg := aws.Config{
		Region:      cfg.Region,
		Credentials: credentials,
		HTTPClient:  o.httpClient,
	}
	if o.baseEndpoint != "" {
		awsCfg.BaseEndpoint = aws.String(o.baseEndpoint)
	}

	return awsCfg, nil
}
