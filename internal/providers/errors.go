package providers

import (
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/secretsmanager/types"
	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

// classifyGetSecretError maps a GetSecretValue failure onto the provider
// error kinds. Only a missing secret is SecretNotFound; access denied and
// every transport failure are client errors.
func classifyGetSecretError(name string, err error) error {
	if isNotFoundError(err) {
		return &vaultprovider.SecretNotFoundError{Name: name}
	}
	return &vaultprovider.ClientError{Err: err}
}

func isNotFoundError(err error) bool {
	var notFound *types.ResourceNotFoundException
	return errors.As(err, &notFound)
}
