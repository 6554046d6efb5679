package vaultprovider

import "context"

// Factory validates backend configuration and constructs providers from it.
//
// The config argument is the raw document supplied by the host. Implementations
// document whether they take ownership of it; a factory that does may overwrite
// the buffer before returning.
type Factory interface {
	// Validate parses config and performs one cheap, read-only call against the
	// backend to prove the credentials and location are usable.
	//
	// Every failure, including network and authentication failures, is reported as
	// an invalid configuration.
	Validate(ctx context.Context, config []byte) error

	// Create parses config and returns a provider bound to it. Create performs no
	// network I/O, so a nil error does not mean the credentials work.
	Create(ctx context.Context, config []byte) (Provider, error)
}

// Provider fetches secrets from a single configured backend.
type Provider interface {
	// Name returns the provider's identifier, used in logs and metrics.
	Name() string

	// GetSecret fetches the current value of the named secret.
	//
	// Implementations return a *SecretNotFoundError when the backend reports the
	// secret is absent and a *ClientError for other backend failures.
	GetSecret(ctx context.Context, name string) (Secret, error)
}

// Secret is a fetched secret value. Ownership passes to the caller; providers
// keep no copy.
type Secret struct {
	// Value is the plaintext secret. Never log it.
	Value string

	// Version is the backend's version identifier, nil when the backend did not
	// report one.
	Version *string
}

// String implements fmt.Stringer without exposing the value.
func (s Secret) String() string {
	if s.Version != nil {
		return "Secret{Value:[REDACTED], Version:" + *s.Version + "}"
	}
	return "Secret{Value:[REDACTED]}"
}

// GoString implements fmt.GoStringer for %#v.
func (s Secret) GoString() string {
	return s.String()
}
