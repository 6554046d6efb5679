package vaultprovider

import "errors"

// Sentinel errors for matching with errors.Is.
var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrSecretNotFound       = errors.New("secret not found")
	ErrClient               = errors.New("client error")
)

// InvalidConfigurationError reports malformed configuration, credentials or a
// region the backend rejected, or a secret payload the host cannot represent.
type InvalidConfigurationError struct {
	// Message is the diagnostic shown to the host.
	Message string

	// Err is the underlying cause, if any.
	Err error
}

// NewInvalidConfigurationError returns an InvalidConfigurationError.
func NewInvalidConfigurationError(message string, cause error) *InvalidConfigurationError {
	return &InvalidConfigurationError{Message: message, Err: cause}
}

func (e *InvalidConfigurationError) Error() string {
	if e.Message == "" {
		return ErrInvalidConfiguration.Error()
	}
	return ErrInvalidConfiguration.Error() + ": " + e.Message
}

func (e *InvalidConfigurationError) Unwrap() error { return e.Err }

// Is reports whether target is ErrInvalidConfiguration.
func (e *InvalidConfigurationError) Is(target error) bool {
	return target == ErrInvalidConfiguration
}

// SecretNotFoundError indicates the backend reported that the named secret
// does not exist.
type SecretNotFoundError struct {
	// Name is the secret identifier exactly as the caller supplied it.
	Name string
}

func (e *SecretNotFoundError) Error() string {
	return ErrSecretNotFound.Error() + ": " + e.Name
}

// Is reports whether target is ErrSecretNotFound.
func (e *SecretNotFoundError) Is(target error) bool {
	return target == ErrSecretNotFound
}

// ClientError wraps any other transport or service failure. The cause is kept
// opaque but reachable through errors.As.
type ClientError struct {
	Err error
}

func (e *ClientError) Error() string {
	if e.Err == nil {
		return ErrClient.Error()
	}
	return ErrClient.Error() + ": " + e.Err.Error()
}

func (e *ClientError) Unwrap() error { return e.Err }

// Is reports whether target is ErrClient.
func (e *ClientError) Is(target error) bool {
	return target == ErrClient
}
