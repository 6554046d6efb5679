package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	dserrors "github.com/systmms/vaultprovider-aws/internal/errors"
	"github.com/systmms/vaultprovider-aws/internal/logging"
	"github.com/systmms/vaultprovider-aws/internal/metrics"
	"github.com/systmms/vaultprovider-aws/internal/providers"
	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

// Options holds the global flag values and shared state for all commands.
type Options struct {
	ConfigPath  string
	Provider    string
	Endpoint    string
	Timeout     time.Duration
	LogLevel    string
	LogFormat   string
	NoColor     bool
	DumpMetrics bool

	// MetricsListen is the address of the metrics server, empty to disable.
	MetricsListen string

	Logger   *logging.Logger
	Recorder *metrics.Metrics
	Stdin    io.Reader
}

// factory builds the configured provider type's factory.
func (o *Options) factory() (vaultprovider.Factory, error) {
	var clientOpts []providers.ClientOption
	if o.Endpoint != "" {
		clientOpts = append(clientOpts, providers.WithBaseEndpoint(o.Endpoint))
	}

	providerType := o.Provider
	if providerType == "" {
		providerType = providers.AWSSecretsManagerType
	}

	registry := providers.NewRegistry()
	if !registry.IsSupported(providerType) {
		return nil, dserrors.UserError{
			Message:    fmt.Sprintf("Unknown provider type %q", providerType),
			Details:    "Supported types: " + strings.Join(registry.GetSupportedTypes(), ", "),
			Suggestion: "Run 'vaultprovider-aws providers' to list provider types",
		}
	}

	return registry.CreateFactory(providerType, providers.Options{
		Logger:        o.Logger,
		Metrics:       o.Recorder,
		ClientOptions: clientOpts,
	})
}

// context returns a context bounded by --timeout.
func (o *Options) context(parent context.Context) (context.Context, context.CancelFunc) {
	if o.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, o.Timeout)
}

func (o *Options) providerName() string {
	if o.Provider == "" {
		return providers.AWSSecretsManagerType
	}
	return o.Provider
}
