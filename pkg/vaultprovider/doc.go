// Package vaultprovider defines the plugin contract between a vault host and the
// secret backends it loads.
//
// A backend ships two capabilities:
//
//   - Factory validates a raw configuration document and constructs providers from it.
//   - Provider fetches named secrets from the backend it was built for.
//
// The host never interprets the configuration itself. It passes the raw bytes to the
// factory, keeps the returned Provider for as long as it needs it, and calls GetSecret
// whenever a value is required.
//
// # Implementing a Backend
//
//	type MyFactory struct{}
//
//	func (MyFactory) Validate(ctx context.Context, config []byte) error {
//	    cfg, err := parse(config)
//	    if err != nil {
//	        return vaultprovider.NewInvalidConfigurationError(err.Error(), err)
//	    }
//	    return cfg.ping(ctx)
//	}
//
//	func (MyFactory) Create(ctx context.Context, config []byte) (vaultprovider.Provider, error) {
//	    ...
//	}
//
// Use RunFactoryContractTests from a _test.go file to check a backend against the
// behaviour every host relies on.
//
// # Error Handling
//
// Backends report failures through three error kinds, matched with errors.Is:
//   - ErrInvalidConfiguration for bad input, bad credentials or unusable payloads
//   - ErrSecretNotFound when the backend reports the secret does not exist
//   - ErrClient for every other transport or service failure
//
// # Security Considerations
//
// Secret.String redacts the value so a Secret can be passed to a logger or %v verb
// without leaking it. Backends must not log secret values or credentials.
//
// # Threading and Concurrency
//
// Provider implementations must be safe for concurrent GetSecret calls.
package vaultprovider
