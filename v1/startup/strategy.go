package startup

import (
	"context"
	"net/http"

	"github.com/Aleph-Alpha/storefront/v1/execmode"
	"github.com/Aleph-Alpha/storefront/v1/gate"
	"github.com/Aleph-Alpha/storefront/v1/logger"
)

// Strategy is the lifecycle policy for one execution mode. It is chosen once
// by StrategyFor and injected where the server is assembled.
type Strategy interface {
	// Mode is the execution mode the strategy serves.
	Mode() execmode.Mode

	// Prepare runs before the server accepts requests.
	Prepare(ctx context.Context) error

	// Middleware wraps the business routes.
	Middleware(next http.Handler) http.Handler
}

// Eager connects, seeds and syncs before the listener opens. A connect
// failure from Prepare is fatal to the process.
type Eager struct {
	orchestrator *Orchestrator
}

// NewEager returns the traditional-server strategy.
func NewEager(o *Orchestrator) *Eager {
	return &Eager{orchestrator: o}
}

func (e *Eager) Mode() execmode.Mode { return execmode.Traditional }

func (e *Eager) Prepare(ctx context.Context) error {
	_, err := e.orchestrator.RunOnce(ctx)
	return err
}

func (e *Eager) Middleware(next http.Handler) http.Handler { return next }

// Lazy defers everything to the first request. Its middleware is the request
// gate, which starts the orchestration pass in the background after the first
// successful connect.
type Lazy struct {
	gate *gate.Gate
}

// NewLazy returns the serverless strategy. gateOpts are applied after the
// hook that triggers o.
func NewLazy(o *Orchestrator, connector gate.Connector, log logger.Logger, gateOpts ...gate.Option) *Lazy {
	opts := append([]gate.Option{gate.WithOnConnected(o.Trigger)}, gateOpts...)
	return &Lazy{gate: gate.New(connector, log, opts...)}
}

func (l *Lazy) Mode() execmode.Mode { return execmode.Serverless }

func (l *Lazy) Prepare(context.Context) error { return nil }

func (l *Lazy) Middleware(next http.Handler) http.Handler {
	return l.gate.Middleware(next)
}

// StrategyFor selects the strategy of mode.
func StrategyFor(mode execmode.Mode, o *Orchestrator, connector gate.Connector, log logger.Logger, gateOpts ...gate.Option) Strategy {
	if mode.IsServerless() {
		return NewLazy(o, connector, log, gateOpts...)
	}
	return NewEager(o)
}

var (
	_ Strategy = (*Eager)(nil)
	_ Strategy = (*Lazy)(nil)
)
