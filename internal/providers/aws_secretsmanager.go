package providers

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/google/uuid"
	dserrors "github.com/systmms/vaultprovider-aws/internal/errors"
	"github.com/systmms/vaultprovider-aws/internal/logging"
	"github.com/systmms/vaultprovider-aws/internal/metrics"
	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

// SecretsManagerClientAPI is the subset of the Secrets Manager client the
// provider calls. This allows for fakes in tests.
type SecretsManagerClientAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecretsManagerProvider reads string secrets from AWS Secrets Manager.
// It is immutable after creation and safe for concurrent use.
type AWSSecretsManagerProvider struct {
	name    string
	id      string
	region  string
	client  SecretsManagerClientAPI
	logger  *logging.Logger
	metrics *metrics.Metrics
}

var _ vaultprovider.Provider = (*AWSSecretsManagerProvider)(nil)

func newAWSSecretsManagerProvider(name, region string, client SecretsManagerClientAPI, logger *logging.Logger, m *metrics.Metrics) *AWSSecretsManagerProvider {
	id := uuid.NewString()
	return &AWSSecretsManagerProvider{
		name:    name,
		id:      id,
		region:  region,
		client:  client,
		logger:  logger.With("provider", name).With("instance", id),
		metrics: m,
	}
}

// Name returns the provider name
func (p *AWSSecretsManagerProvider) Name() string {
	return p.name
}

// ID returns the instance id attached to this provider's log entries.
func (p *AWSSecretsManagerProvider) ID() string {
	return p.id
}

// Region returns the region requests are signed for.
func (p *AWSSecretsManagerProvider) Region() string {
	return p.region
}

// GetSecret fetches the current string value of the named secret with a
// single GetSecretValue call.
func (p *AWSSecretsManagerProvider) GetSecret(ctx context.Context, name string) (secret vaultprovider.Secret, err error) {
	started := time.Now()
	defer func() {
		p.metrics.Observe(p.name, metrics.OperationGetSecret, started, err)
	}()

	if name == "" {
		return vaultprovider.Secret{}, vaultprovider.NewInvalidConfigurationError("secret name must not be empty", nil)
	}

	result, err := p.client.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(name),
	})
	if err != nil {
		err = classifyGetSecretError(name, err)
		p.logger.Debug("get secret %s failed: %s", name, describeError(err))
		return vaultprovider.Secret{}, err
	}

	if result.SecretString == nil {
		return vaultprovider.Secret{}, vaultprovider.NewInvalidConfigurationError("value is not a string", nil)
	}

	p.logger.Debug("fetched secret %s (version %s)", name, aws.ToString(result.VersionId))
	return vaultprovider.Secret{
		Value:   *result.SecretString,
		Version: result.VersionId,
	}, nil
}

// describeError names an error by its AWS code when it has one.
func describeError(err error) string {
	if code := dserrors.AWSErrorCode(err); code != "" {
		return code
	}
	return err.Error()
}
