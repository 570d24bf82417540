package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storefront/v1/logger"
)

// FXModule provides *Tracer and flushes it on shutdown.
//
//	app := fx.New(
//	    tracer.FXModule,
//	    // other modules...
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(NewClientWithDI),
	fx.Invoke(RegisterTracerLifecycle),
)

// TracerParams groups the dependencies of NewClientWithDI.
type TracerParams struct {
	fx.In

	Config Config
	Logger logger.Logger
}

// NewClientWithDI builds the tracer from injected dependencies.
func NewClientWithDI(p TracerParams) (*Tracer, error) {
	return NewClient(p.Config, p.Logger)
}

// RegisterTracerLifecycle shuts the provider down on stop so buffered spans
// reach the exporter.
func RegisterTracerLifecycle(lc fx.Lifecycle, t *Tracer) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			t.logger.Info("shutting down tracer", nil)
			return t.Shutdown(ctx)
		},
	})
}
