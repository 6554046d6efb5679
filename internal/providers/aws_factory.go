package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/systmms/vaultprovider-aws/internal/config"
	"github.com/systmms/vaultprovider-aws/internal/logging"
	"github.com/systmms/vaultprovider-aws/internal/metrics"
	"github.com/systmms/vaultprovider-aws/internal/secure"
	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

// AWSSecretsManagerType is the provider type and default provider name.
const AWSSecretsManagerType = "aws.secretsmanager"

// STSClientAPI is the subset of the STS client used to check credentials.
type STSClientAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// AWSSecretsManagerFactory validates configurations and creates
// AWSSecretsManagerProvider instances.
type AWSSecretsManagerFactory struct {
	name          string
	logger        *logging.Logger
	metrics       *metrics.Metrics
	clientOptions []ClientOption

	newSTSClient            func(aws.Config) STSClientAPI
	newSecretsManagerClient func(aws.Config) SecretsManagerClientAPI
}

var _ vaultprovider.Factory = (*AWSSecretsManagerFactory)(nil)

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*AWSSecretsManagerFactory)

// WithName sets the name reported by created providers.
func WithName(name string) FactoryOption {
	return func(f *AWSSecretsManagerFactory) {
		f.name = name
	}
}

// WithLogger sets the logger. Providers inherit it.
func WithLogger(logger *logging.Logger) FactoryOption {
	return func(f *AWSSecretsManagerFactory) {
		f.logger = logger
	}
}

// WithMetrics records factory and provider operations on m.
func WithMetrics(m *metrics.Metrics) FactoryOption {
	return func(f *AWSSecretsManagerFactory) {
		f.metrics = m
	}
}

// WithClientOptions applies opts to every aws.Config the factory builds.
func WithClientOptions(opts ...ClientOption) FactoryOption {
	return func(f *AWSSecretsManagerFactory) {
		f.clientOptions = append(f.clientOptions, opts...)
	}
}

// WithSTSClientFunc replaces STS client construction (for testing)
func WithSTSClientFunc(fn func(aws.Config) STSClientAPI) FactoryOption {
	return func(f *AWSSecretsManagerFactory) {
		f.newSTSClient = fn
	}
}

// WithSecretsManagerClientFunc replaces Secrets Manager client construction (for testing)
func WithSecretsManagerClientFunc(fn func(aws.Config) SecretsManagerClientAPI) FactoryOption {
	return func(f *AWSSecretsManagerFactory) {
		f.newSecretsManagerClient = fn
	}
}

// NewAWSSecretsManagerFactory creates a factory backed by the AWS SDK clients.
func NewAWSSecretsManagerFactory(opts ...FactoryOption) *AWSSecretsManagerFactory {
	f := &AWSSecretsManagerFactory{
		name:   AWSSecretsManagerType,
		logger: logging.Nop(),
		newSTSClient: func(cfg aws.Config) STSClientAPI {
			return sts.NewFromConfig(cfg)
		},
		newSecretsManagerClient: func(cfg aws.Config) SecretsManagerClientAPI {
			return secretsmanager.NewFromConfig(cfg)
		},
	}

	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = logging.Nop()
	}

	return f
}

// Validate checks that raw parses and that its credentials are accepted by
// AWS, using one sts:GetCallerIdentity call. Every failure, including network
// errors, is reported as invalid configuration. raw is not modified.
func (f *AWSSecretsManagerFactory) Validate(ctx context.Context, raw []byte) (err error) {
	started := time.Now()
	defer func() {
		f.metrics.Observe(f.name, metrics.OperationValidate, started, err)
	}()

	awsCfg, err := f.load(raw)
	if err != nil {
		return err
	}

	identity, err := f.newSTSClient(awsCfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		f.logger.Warn("credential check failed in region %s: %s", awsCfg.Region, describeError(err))
		return vaultprovider.NewInvalidConfigurationError(fmt.Sprintf("credential check failed: %v", err), err)
	}

	f.logger.Info("credentials accepted for account %s in region %s", aws.ToString(identity.Account), awsCfg.Region)
	f.logger.Debug("caller identity %s", aws.ToString(identity.Arn))
	return nil
}

// Create parses raw and returns a provider without contacting AWS.
//
// Create takes ownership of raw and wipes it before returning, whatever the
// outcome.
func (f *AWSSecretsManagerFactory) Create(_ context.Context, raw []byte) (p vaultprovider.Provider, err error) {
	defer secure.Wipe(raw)

	started := time.Now()
	defer func() {
		f.metrics.Observe(f.name, metrics.OperationCreate, started, err)
	}()

	awsCfg, err := f.load(raw)
	if err != nil {
		return nil, err
	}

	provider := newAWSSecretsManagerProvider(f.name, awsCfg.Region, f.newSecretsManagerClient(awsCfg), f.logger, f.metrics)
	provider.logger.Debug("created provider for region %s", awsCfg.Region)
	return provider, nil
}

// load parses raw and builds the client config. Parsed credentials are
// wiped by BuildClientConfig.
func (f *AWSSecretsManagerFactory) load(raw []byte) (aws.Config, error) {
	cfg, err := config.ParseAWS(raw)
	if err != nil {
		f.logger.Debug("configuration rejected: %v", err)
		return aws.Config{}, err
	}
	return BuildClientConfig(cfg, f.clientOptions...)
}
