package app

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/config"
	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/embedding"
	"github.com/Aleph-Alpha/storefront/v1/gate"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/metrics"
	"github.com/Aleph-Alpha/storefront/v1/mongo"
	"github.com/Aleph-Alpha/storefront/v1/postgres"
	"github.com/Aleph-Alpha/storefront/v1/qdrant"
	"github.com/Aleph-Alpha/storefront/v1/recommend"
	"github.com/Aleph-Alpha/storefront/v1/server"
	"github.com/Aleph-Alpha/storefront/v1/startup"
	"github.com/Aleph-Alpha/storefront/v1/tracer"
)

// startMargin is added to the startup pass timeout so fx does not abort a
// pass that is still inside its own deadline.
const startMargin = 30 * time.Second

// StopTimeout bounds graceful shutdown of the whole application.
const StopTimeout = 30 * time.Second

// Core wires everything except the HTTP surface: configuration, logging,
// telemetry, the database dialers and manager, the seeder, the recommendation
// components and the orchestrator.
//
// The vector index and the startup sync stage are wired only when Qdrant is
// configured.
func Core(cfg *config.Config) fx.Option {
	opts := []fx.Option{
		fx.Supply(cfg),
		config.FXModule,
		logger.FXModule,
		fx.WithLogger(func(l *logger.LoggerClient) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Zap}
		}),
		metrics.FXModule,
		tracer.FXModule,
		mongo.FXModule,
		postgres.FXModule,
		fx.Provide(
			NewDialer,
			catalog.NewSeeder,
			ProvideStageObserver,
			ProvideRejectionCounter,
		),
		connection.FXModule,
		embedding.FXModule,
		recommend.FXModule,
		startup.FXModule,
	}

	if cfg.Qdrant.Enabled() {
		opts = append(opts,
			qdrant.FXModule,
			fx.Provide(ProvideStartupSyncer),
		)
	}
	return fx.Options(opts...)
}

// New assembles the full application. extra is appended last, so callers can
// add handlers (named "checkout", "orders", "auth"), fx.Populate targets or
// decorators.
func New(cfg *config.Config, extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		Core(cfg),
		server.FXModule,
		fx.StartTimeout(StartTimeout(cfg)),
	}
	return fx.New(append(opts, extra...)...)
}

// StartTimeout bounds fx start: the startup pass plus a margin.
func StartTimeout(cfg *config.Config) time.Duration {
	return cfg.Startup.PassTimeout() + startMargin
}

// NewDialer routes each URI scheme to its backend.
func NewDialer(m *mongo.Dialer, p *postgres.Dialer) connection.Dialer {
	router := connection.SchemeRouter{}
	for _, s := range mongo.Schemes {
		router[s] = m
	}
	for _, s := range postgres.Schemes {
		router[s] = p
	}
	return router
}

func ProvideStageObserver(m *metrics.Metrics) startup.StageObserver { return m }

func ProvideRejectionCounter(m *metrics.Metrics) gate.RejectionCounter { return m }

// ProvideStartupSyncer enables the sync stage of the startup pass.
func ProvideStartupSyncer(s *recommend.Syncer) startup.Syncer { return s }

// Interfaces the providers above rely on.
var (
	_ startup.StageObserver = (*metrics.Metrics)(nil)
	_ gate.RejectionCounter = (*metrics.Metrics)(nil)
	_ startup.Syncer        = (*recommend.Syncer)(nil)
	_ startup.Seeder        = (*catalog.Seeder)(nil)
	_ embedding.Embedder    = (*embedding.Client)(nil)
)
