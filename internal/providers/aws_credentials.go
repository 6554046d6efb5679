package providers

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/systmms/vaultprovider-aws/internal/config"
	"github.com/systmms/vaultprovider-aws/internal/secure"
)

// credentialsSource is reported as aws.Credentials.Source.
const credentialsSource = "StaticConfig"

// enclaveCredentialsProvider serves a static key pair that stays encrypted in
// memguard enclaves between requests.
type enclaveCredentialsProvider struct {
	accessKeyID     *secure.SecureBuffer
	secretAccessKey *secure.SecureBuffer
	sessionToken    *secure.SecureBuffer
}

var _ aws.CredentialsProvider = (*enclaveCredentialsProvider)(nil)

// newEnclaveCredentialsProvider seals auth's buffers. They are wiped in the process.
func newEnclaveCredentialsProvider(auth *config.AccessKeyAuth) *enclaveCredentialsProvider {
	return &enclaveCredentialsProvider{
		accessKeyID:     secure.Seal(auth.AccessKeyID),
		secretAccessKey: secure.Seal(auth.SecretAccessKey),
		sessionToken:    secure.Seal(auth.SessionToken),
	}
}

// Retrieve implements aws.CredentialsProvider. The returned credentials never expire.
func (p *enclaveCredentialsProvider) Retrieve(ctx context.Context) (aws.Credentials, error) {
	accessKeyID, err := p.accessKeyID.Open()
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("open access key id: %w", err)
	}
	defer accessKeyID.Destroy()

	secretAccessKey, err := p.secretAccessKey.Open()
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("open secret access key: %w", err)
	}
	defer secretAccessKey.Destroy()

	sessionToken, err := p.sessionToken.Open()
	if err != nil {
		return aws.Credentials{}, fmt.Errorf("open session token: %w", err)
	}
	defer sessionToken.Destroy()

	// string(...) copies out of the locked buffers before they are destroyed.
	creds, err := credentials.NewStaticCredentialsProvider(
		string(accessKeyID.Bytes()),
		string(secretAccessKey.Bytes()),
		string(sessionToken.Bytes()),
	).Retrieve(ctx)
	if err != nil {
		return aws.Credentials{}, err
	}

	creds.Source = credentialsSource
	return creds, nil
}
