package startup

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/execmode"
	"github.com/Aleph-Alpha/storefront/v1/gate"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/tracer"
)

// FXModule provides the *Orchestrator and the Strategy of the detected mode.
//
// Dependencies required by this module:
//   - *connection.Manager, *catalog.Seeder, execmode.Mode, startup.Options, logger.Logger
//   - optionally startup.Syncer, startup.StageObserver, gate.RejectionCounter
//     and *tracer.Tracer
var FXModule = fx.Module("startup",
	fx.Provide(
		NewOrchestratorWithDI,
		NewStrategyWithDI,
	),
)

// OrchestratorParams groups the dependencies of NewOrchestratorWithDI.
type OrchestratorParams struct {
	fx.In

	Manager  *connection.Manager
	Seeder   *catalog.Seeder
	Syncer   Syncer `optional:"true"`
	Options  Options
	Logger   logger.Logger
	Observer StageObserver  `optional:"true"`
	Tracer   *tracer.Tracer `optional:"true"`
}

// NewOrchestratorWithDI builds the process-wide Orchestrator.
func NewOrchestratorWithDI(p OrchestratorParams) *Orchestrator {
	return NewOrchestrator(p.Manager, p.Seeder, p.Syncer, p.Options, p.Logger).
		WithObserver(p.Observer).
		WithTracer(p.Tracer)
}

// StrategyParams groups the dependencies of NewStrategyWithDI.
type StrategyParams struct {
	fx.In

	Mode         execmode.Mode
	Orchestrator *Orchestrator
	Manager      *connection.Manager
	Logger       logger.Logger
	Rejections   gate.RejectionCounter `optional:"true"`
}

// NewStrategyWithDI selects the Strategy once for the process.
func NewStrategyWithDI(p StrategyParams) Strategy {
	var opts []gate.Option
	if p.Rejections != nil {
		opts = append(opts, gate.WithRejectionCounter(p.Rejections))
	}

	s := StrategyFor(p.Mode, p.Orchestrator, p.Manager, p.Logger, opts...)
	p.Logger.Info("lifecycle strategy selected", nil, map[string]interface{}{
		"mode": p.Mode.String(),
	})
	return s
}
