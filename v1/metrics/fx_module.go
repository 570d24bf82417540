package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/logger"
)

// FXModule provides *Metrics, exposes it as connection.Observer and
// MetricsCollector, and runs the dedicated metrics server when configured.
//
// Dependencies required by this module:
//   - a metrics.Config
//   - a logger.Logger
var FXModule = fx.Module("metrics",
	fx.Provide(
		NewMetrics,
		fx.Annotate(ProvideObserver, fx.As(new(connection.Observer))),
		fx.Annotate(ProvideCollector, fx.As(new(MetricsCollector))),
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// ProvideObserver returns m for the connection.Observer binding.
func ProvideObserver(m *Metrics) *Metrics { return m }

// ProvideCollector returns m for the MetricsCollector binding.
func ProvideCollector(m *Metrics) *Metrics { return m }

// RegisterMetricsLifecycle starts and stops the dedicated metrics server.
// It does nothing when no Address is configured.
func RegisterMetricsLifecycle(lc fx.Lifecycle, m *Metrics, log logger.Logger) {
	if m.Server == nil {
		return
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("Starting Prometheus metrics server", nil, map[string]interface{}{
					"address": m.Server.Addr,
				})

				if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("Error starting Prometheus metrics server", err, nil)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down Prometheus metrics server", nil)
			return m.Server.Shutdown(ctx)
		},
	})
}
