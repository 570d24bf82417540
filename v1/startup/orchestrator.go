package startup

import (
	"context"
	"sync"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/tracer"
)

// Stage names used in logs, metrics and spans.
const (
	StageConnect = "connect"
	StageSeed    = "seed"
	StageSync    = "sync"
)

// Outcome is the result of one orchestration pass.
type Outcome struct {
	Seeded         bool
	SeedSkipped    bool
	SeedError      error
	IndexSynced    bool
	IndexSyncError error
	Duration       time.Duration
}

// run is a pass in progress. done is closed once outcome/err are final.
type run struct {
	done    chan struct{}
	outcome Outcome
	err     error
}

// Orchestrator runs connect, seed and sync in order, at most once per process.
//
// Concurrent callers share the pass in progress. A pass that fails to connect
// does not spend the once-token, so the next call starts a new pass.
type Orchestrator struct {
	connector Connector
	seeder    Seeder
	syncer    Syncer
	opts      Options
	logger    logger.Logger
	observer  StageObserver
	tracer    *tracer.Tracer

	mu       sync.Mutex
	finished bool
	outcome  Outcome
	inflight *run
}

// NewOrchestrator returns an Orchestrator. A nil syncer skips the sync stage.
func NewOrchestrator(connector Connector, seeder Seeder, syncer Syncer, opts Options, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		connector: connector,
		seeder:    seeder,
		syncer:    syncer,
		opts:      opts,
		logger:    log,
		observer:  nopStageObserver{},
	}
}

// WithObserver installs a stage observer.
func (o *Orchestrator) WithObserver(obs StageObserver) *Orchestrator {
	if obs != nil {
		o.observer = obs
	}
	return o
}

// WithTracer records a span per stage.
func (o *Orchestrator) WithTracer(t *tracer.Tracer) *Orchestrator {
	o.tracer = t
	return o
}

// RunOnce performs the startup pass, or returns the recorded Outcome if it
// already completed. Only a connect failure is returned as an error; it is a
// *connection.ConnectionError. If ctx ends while waiting, ctx.Err() is
// returned and the pass continues in the background.
func (o *Orchestrator) RunOnce(ctx context.Context) (Outcome, error) {
	o.mu.Lock()
	if o.finished {
		out := o.outcome
		o.mu.Unlock()
		return out, nil
	}
	r := o.inflight
	if r == nil {
		r = o.start(ctx)
	}
	o.mu.Unlock()

	select {
	case <-r.done:
		return r.outcome, r.err
	case <-ctx.Done():
		select {
		case <-r.done:
			return r.outcome, r.err
		default:
			return Outcome{}, ctx.Err()
		}
	}
}

// Done reports whether a pass has completed.
func (o *Orchestrator) Done() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.finished
}

// Trigger starts a pass in the background unless one is in flight or has
// completed. Callers never wait for it, and repeated calls while a pass runs
// cost only a lock.
func (o *Orchestrator) Trigger() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.finished || o.inflight != nil {
		return
	}
	o.start(context.Background())
}

// start launches a pass detached from ctx's cancellation. o.mu must be held.
func (o *Orchestrator) start(ctx context.Context) *run {
	r := &run{done: make(chan struct{})}
	o.inflight = r
	go o.execute(context.WithoutCancel(ctx), r)
	return r
}

func (o *Orchestrator) execute(ctx context.Context, r *run) {
	ctx, cancel := context.WithTimeout(ctx, o.opts.PassTimeout())
	defer cancel()

	start := time.Now()
	out, err := o.pass(ctx)
	out.Duration = time.Since(start)

	o.mu.Lock()
	r.outcome, r.err = out, err
	o.inflight = nil
	if err == nil {
		o.finished = true
		o.outcome = out
	}
	close(r.done)
	o.mu.Unlock()

	if err != nil {
		o.logger.Error("startup aborted: database connection failed", err, nil)
		return
	}
	o.logger.Info("startup complete", nil, map[string]interface{}{
		"seeded":       out.Seeded,
		"seed_skipped": out.SeedSkipped,
		"index_synced": out.IndexSynced,
		"duration_ms":  out.Duration.Milliseconds(),
	})
}

func (o *Orchestrator) pass(ctx context.Context) (Outcome, error) {
	var out Outcome

	var h connection.Handle
	err := o.stage(ctx, StageConnect, func(ctx context.Context) error {
		var err error
		h, err = o.connector.EnsureConnected(ctx)
		return err
	})
	if err != nil {
		return Outcome{}, err
	}

	if o.opts.SkipSeed || o.seeder == nil {
		out.SeedSkipped = true
		o.logger.Info("seed stage skipped by configuration", nil)
	} else {
		seedOpts := catalog.SeedOptions{Force: o.opts.ForceSeed, SkipIfExists: !o.opts.ForceSeed}
		err := o.stage(ctx, StageSeed, func(ctx context.Context) error {
			res, err := o.seeder.SeedConnection(ctx, h, seedOpts)
			out.Seeded, out.SeedSkipped = res.Seeded, res.Skipped
			return err
		})
		if err != nil {
			out.SeedError = &SeedError{Err: err}
			o.logger.Error("seeding failed, continuing without baseline data", out.SeedError, nil)
		}
	}

	if o.syncer == nil {
		o.logger.Info("index sync disabled, search uses catalog fallback", nil)
		return out, nil
	}
	err = o.stage(ctx, StageSync, func(ctx context.Context) error {
		return o.syncer.Sync(ctx, h)
	})
	if err != nil {
		out.IndexSyncError = &SyncError{Err: err}
		o.logger.Error("index sync failed, search uses catalog fallback", out.IndexSyncError, nil)
	} else {
		out.IndexSynced = true
	}
	return out, nil
}

// stage times, traces and logs fn.
func (o *Orchestrator) stage(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if o.tracer != nil {
		var span oteltrace.Span
		ctx, span = o.tracer.StartSpan(ctx, "startup."+name)
		defer span.End()
	}

	o.logger.Debug("startup stage begin", nil, map[string]interface{}{"stage": name})
	start := time.Now()
	err := fn(ctx)
	elapsed := time.Since(start)
	o.observer.ObserveStage(name, elapsed, err)

	if err != nil && o.tracer != nil {
		o.tracer.RecordErrorOnSpan(oteltrace.SpanFromContext(ctx), err)
	}
	return err
}
