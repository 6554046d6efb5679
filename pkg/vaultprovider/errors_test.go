package vaultprovider_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	tests := []struct {
		name    string
		err     error
		is      error
		isNot   []error
		message string
	}{
		{
			name:    "invalid configuration",
			err:     vaultprovider.NewInvalidConfigurationError("missing field `auth`", cause),
			is:      vaultprovider.ErrInvalidConfiguration,
			isNot:   []error{vaultprovider.ErrSecretNotFound, vaultprovider.ErrClient},
			message: "invalid configuration: missing field `auth`",
		},
		{
			name:    "secret not found",
			err:     &vaultprovider.SecretNotFoundError{Name: "prod/db"},
			is:      vaultprovider.ErrSecretNotFound,
			isNot:   []error{vaultprovider.ErrInvalidConfiguration, vaultprovider.ErrClient},
			message: "secret not found: prod/db",
		},
		{
			name:    "client error",
			err:     &vaultprovider.ClientError{Err: cause},
			is:      vaultprovider.ErrClient,
			isNot:   []error{vaultprovider.ErrInvalidConfiguration, vaultprovider.ErrSecretNotFound},
			message: "client error: boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.ErrorIs(t, tt.err, tt.is)
			for _, other := range tt.isNot {
				assert.NotErrorIs(t, tt.err, other)
			}
			assert.Equal(t, tt.message, tt.err.Error())

			wrapped := fmt.Errorf("host: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.is)
		})
	}
}

func TestErrorsUnwrapToCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")

	assert.ErrorIs(t, &vaultprovider.ClientError{Err: cause}, cause)
	assert.ErrorIs(t, vaultprovider.NewInvalidConfigurationError("bad", cause), cause)

	var clientErr *vaultprovider.ClientError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", &vaultprovider.ClientError{Err: cause}), &clientErr)
	assert.Same(t, cause, clientErr.Err)
}

func TestErrorMessagesWithoutDetails(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "invalid configuration", (&vaultprovider.InvalidConfigurationError{}).Error())
	assert.Equal(t, "client error", (&vaultprovider.ClientError{}).Error())
}

func TestSecretStringRedactsValue(t *testing.T) {
	t.Parallel()

	version := "3"
	secret := vaultprovider.Secret{Value: "shhh", Version: &version}

	for _, verb := range []string{"%v", "%+v", "%s", "%#v"} {
		out := fmt.Sprintf(verb, secret)
		assert.NotContains(t, out, "shhh", "verb %s leaked the value", verb)
		assert.Contains(t, out, "[REDACTED]")
		assert.Contains(t, out, "Version:3")
	}

	assert.Equal(t, "Secret{Value:[REDACTED]}", vaultprovider.Secret{Value: "shhh"}.String())
}
