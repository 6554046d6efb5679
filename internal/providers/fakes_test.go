package providers

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// fakeSecretsManagerClient serves GetSecretValue from in-memory maps.
type fakeSecretsManagerClient struct {
	mu      sync.Mutex
	Secrets map[string]*secretsmanager.GetSecretValueOutput
	Errors  map[string]error
	Calls   []string
}

func newFakeSecretsManagerClient() *fakeSecretsManagerClient {
	return &fakeSecretsManagerClient{
		Secrets: make(map[string]*secretsmanager.GetSecretValueOutput),
		Errors:  make(map[string]error),
	}
}

func (f *fakeSecretsManagerClient) AddSecret(name, value, version string) {
	out := &secretsmanager.GetSecretValueOutput{
		Name:         aws.String(name),
		SecretString: aws.String(value),
	}
	if version != "" {
		out.VersionId = aws.String(version)
	}
	f.Secrets[name] = out
}

func (f *fakeSecretsManagerClient) GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	name := aws.ToString(params.SecretId)

	f.mu.Lock()
	f.Calls = append(f.Calls, name)
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err, ok := f.Errors[name]; ok {
		return nil, err
	}
	if out, ok := f.Secrets[name]; ok {
		return out, nil
	}
	return nil, &types.ResourceNotFoundException{
		Message: aws.String("Secrets Manager can't find the specified secret."),
	}
}

func (f *fakeSecretsManagerClient) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// fakeSTSClient returns a fixed identity or error.
type fakeSTSClient struct {
	Account string
	Arn     string
	Err     error
	Calls   int
}

func (f *fakeSTSClient) GetCallerIdentity(ctx context.Context, _ *sts.GetCallerIdentityInput, _ ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	f.Calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Err != nil {
		return nil, f.Err
	}
	return &sts.GetCallerIdentityOutput{
		Account: aws.String(f.Account),
		Arn:     aws.String(f.Arn),
		UserId:  aws.String("AIDAEXAMPLE"),
	}, nil
}
