package server

import (
	"context"
	"net/http"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/execmode"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/metrics"
	"github.com/Aleph-Alpha/storefront/v1/qdrant"
	"github.com/Aleph-Alpha/storefront/v1/recommend"
	"github.com/Aleph-Alpha/storefront/v1/startup"
	"github.com/Aleph-Alpha/storefront/v1/tracer"
)

// FXModule provides the router, the *Server and the LambdaHandler, and ties
// the strategy's Prepare to application start.
//
// Dependencies required by this module:
//   - startup.Strategy, *connection.Manager, *recommend.Searcher
//   - execmode.Mode, server.Config, logger.Logger
//   - optionally *metrics.Metrics, *tracer.Tracer, *qdrant.QdrantClient and
//     http.Handler values named "checkout", "orders" and "auth"
var FXModule = fx.Module("server",
	fx.Provide(
		NewRouterWithDI,
		NewServerWithDI,
		NewLambdaHandler,
	),
	fx.Invoke(RegisterServerLifecycle),
)

// RouterParams groups the dependencies of NewRouterWithDI.
type RouterParams struct {
	fx.In

	Strategy startup.Strategy
	Manager  *connection.Manager
	Searcher *recommend.Searcher
	Mode     execmode.Mode
	Config   Config
	Logger   logger.Logger
	Metrics  *metrics.Metrics     `optional:"true"`
	Tracer   *tracer.Tracer       `optional:"true"`
	Index    *qdrant.QdrantClient `optional:"true"`

	Checkout http.Handler `name:"checkout" optional:"true"`
	Orders   http.Handler `name:"orders" optional:"true"`
	Auth     http.Handler `name:"auth" optional:"true"`
}

// NewRouterWithDI builds the router. /metrics is mounted on it unless the
// metrics package runs its own listener.
func NewRouterWithDI(p RouterParams) http.Handler {
	cfg := p.Config
	cfg.applyDefaults()

	d := RouterDeps{
		Gate:           p.Strategy.Middleware,
		Source:         p.Manager,
		Searcher:       p.Searcher,
		Mode:           p.Mode,
		Logger:         p.Logger,
		Tracer:         p.Tracer,
		RequestTimeout: cfg.RequestTimeout,
		Checkout:       p.Checkout,
		Orders:         p.Orders,
		Auth:           p.Auth,
	}
	if p.Index != nil {
		d.Index = p.Index
	}
	if p.Metrics != nil {
		d.Metrics = p.Metrics
		if p.Metrics.Server == nil {
			d.MetricsHandler = p.Metrics.Handler()
		}
	}
	return NewRouter(d)
}

// NewServerWithDI wraps the router in a *Server.
func NewServerWithDI(cfg Config, handler http.Handler, log logger.Logger) *Server {
	return NewServer(cfg, handler, log)
}

// LifecycleParams groups the dependencies of RegisterServerLifecycle.
type LifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Strategy   startup.Strategy
	Server     *Server
	Logger     logger.Logger
}

// RegisterServerLifecycle runs Strategy.Prepare on start and opens the
// listener only if it succeeds, so a traditional process whose database is
// unreachable never accepts a connection. Inside the Lambda runtime no
// listener is opened.
func RegisterServerLifecycle(p LifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := p.Strategy.Prepare(ctx); err != nil {
				p.Logger.Error("startup failed, not accepting traffic", err, map[string]interface{}{
					"mode": p.Strategy.Mode().String(),
				})
				return err
			}

			if p.Server.Config().LambdaRuntime {
				return nil
			}
			if err := p.Server.Listen(); err != nil {
				return err
			}
			go func() {
				if err := p.Server.Serve(); err != nil {
					p.Logger.Error("server stopped unexpectedly", err, nil)
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return p.Server.Stop(ctx)
		},
	})
}
