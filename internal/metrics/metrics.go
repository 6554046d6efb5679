// Package metrics records Prometheus metrics for factory and provider operations.
package metrics

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
	"github.com/systmms/vaultprovider-aws/pkg/vaultprovider"
)

// Operation names used as the operation label.
const (
	OperationValidate  = "validate"
	OperationCreate    = "create"
	OperationGetSecret = "get_secret"
)

// Outcome label values.
const (
	OutcomeOK                   = "ok"
	OutcomeInvalidConfiguration = "invalid_configuration"
	OutcomeNotFound             = "not_found"
	OutcomeClientError          = "client_error"
)

// Metrics holds the operation metrics on a private registry. A nil *Metrics
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New creates a Metrics instance with its own registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vaultprovider_operations_total",
				Help: "Total number of vault provider operations by outcome",
			},
			[]string{"provider", "operation", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vaultprovider_operation_duration_seconds",
				Help:    "Duration of vault provider operations in seconds",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10},
			},
			[]string{"provider", "operation"},
		),
	}

	registry.MustRegister(m.operations, m.duration)
	return m
}

// Observe records one operation that started at started and finished with err.
func (m *Metrics) Observe(provider, operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(provider, operation, Outcome(err)).Inc()
	m.duration.WithLabelValues(provider, operation).Observe(time.Since(started).Seconds())
}

// Outcome maps an operation error to its outcome label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, vaultprovider.ErrInvalidConfiguration):
		return OutcomeInvalidConfiguration
	case errors.Is(err, vaultprovider.ErrSecretNotFound):
		return OutcomeNotFound
	default:
		return OutcomeClientError
	}
}

// Registry returns the underlying Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler for a /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Serve exposes Handler at /metrics on ln until ctx is cancelled, then shuts
// the server down gracefully.
func (m *Metrics) Serve(ctx context.Context, ln net.Listener) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	server := &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// WriteText writes every gathered metric family in the Prometheus text format.
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}

	families, err := m.registry.Gather()
	if err != nil {
		return err
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
