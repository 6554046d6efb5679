package providers

import (
	"fmt"
	"sort"

	"github.com/systmms/vaultprovider-aws/internal/logging"
	"github.com/systmms/vaultprovider-aws/internal/metrics"
	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

// Options are the host-level settings passed to every factory constructor.
type Options struct {
	Logger        *logging.Logger
	Metrics       *metrics.Metrics
	ClientOptions []ClientOption
}

// FactoryConstructor creates a vault provider factory for one provider type.
type FactoryConstructor func(opts Options) vaultprovider.Factory

// Registry maps provider types to factory constructors
type Registry struct {
	factories map[string]FactoryConstructor
}

// NewRegistry creates a new registry with built-in provider types
func NewRegistry() *Registry {
	registry := &Registry{
		factories: make(map[string]FactoryConstructor),
	}

	registry.RegisterFactory(AWSSecretsManagerType, NewAWSSecretsManagerFactoryFromOptions)

	return registry
}

// RegisterFactory registers a factory constructor for a given type
func (r *Registry) RegisterFactory(providerType string, constructor FactoryConstructor) {
	r.factories[providerType] = constructor
}

// CreateFactory returns a factory for providerType configured with opts
func (r *Registry) CreateFactory(providerType string, opts Options) (vaultprovider.Factory, error) {
	constructor, exists := r.factories[providerType]
	if !exists {
		return nil, fmt.Errorf("unknown provider type: %s", providerType)
	}

	return constructor(opts), nil
}

// GetSupportedTypes returns the registered provider types in sorted order
func (r *Registry) GetSupportedTypes() []string {
	types := make([]string, 0, len(r.factories))
	for providerType := range r.factories {
		types = append(types, providerType)
	}
	sort.Strings(types)
	return types
}

// IsSupported checks if a provider type is supported
func (r *Registry) IsSupported(providerType string) bool {
	_, exists := r.factories[providerType]
	return exists
}

// NewAWSSecretsManagerFactoryFromOptions creates an AWS Secrets Manager factory
func NewAWSSecretsManagerFactoryFromOptions(opts Options) vaultprovider.Factory {
	return NewAWSSecretsManagerFactory(
		WithLogger(opts.Logger),
		WithMetrics(opts.Metrics),
		WithClientOptions(opts.ClientOptions...),
	)
}
