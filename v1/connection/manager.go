package connection

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Aleph-Alpha/storefront/v1/logger"
)

// Manager owns the single process-wide database connection.
//
// Concurrency: all state lives behind mu. A connect attempt is represented by an
// attempt value whose done channel is closed exactly once; every caller that
// arrives while the attempt is in flight waits on that channel and reads the
// same result. There is never more than one dial in flight.
type Manager struct {
	dialer   Dialer
	uri      string
	opts     Options
	logger   logger.Logger
	observer Observer

	mu       sync.Mutex
	state    State
	handle   Handle
	inflight *attempt
	attempts int
}

type attempt struct {
	seq    int
	done   chan struct{}
	handle Handle
	err    error
}

// wait blocks until the attempt resolves or ctx ends. A resolved attempt wins
// over a cancelled ctx.
func (a *attempt) wait(ctx context.Context) (Handle, error) {
	select {
	case <-a.done:
		return a.handle, a.err
	default:
	}

	select {
	case <-a.done:
		return a.handle, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// NewManager creates a Manager in the Disconnected state. No I/O happens until
// the first EnsureConnected call.
func NewManager(dialer Dialer, uri string, opts Options, log logger.Logger) *Manager {
	return &Manager{
		dialer:   dialer,
		uri:      uri,
		opts:     opts,
		logger:   log,
		observer: nopObserver{},
		state:    Disconnected,
	}
}

// WithObserver installs an observer for state transitions and dial outcomes.
// It returns the same Manager for chaining and must be called before use.
func (m *Manager) WithObserver(o Observer) *Manager {
	if o == nil {
		o = nopObserver{}
	}
	m.observer = o
	return m
}

// EnsureConnected returns the live handle, connecting first if needed.
//
//   - Connected: returns the existing handle without I/O.
//   - Connecting: waits for the in-flight attempt and returns its result.
//   - Disconnected or Failed: starts a new attempt and waits for it.
//
// Failures are returned as *ConnectionError. If ctx ends first, ctx.Err() is
// returned and the attempt keeps running for the other waiters. The dial itself
// runs detached from ctx so one abandoned request cannot fail everyone else.
func (m *Manager) EnsureConnected(ctx context.Context) (Handle, error) {
	m.mu.Lock()
	switch m.state {
	case Connected:
		h := m.handle
		m.mu.Unlock()
		return h, nil
	case Connecting:
		a := m.inflight
		m.mu.Unlock()
		return a.wait(ctx)
	}

	m.attempts++
	a := &attempt{seq: m.attempts, done: make(chan struct{})}
	m.inflight = a
	from := m.transition(Connecting)
	m.mu.Unlock()

	m.observer.ObserveTransition(from, Connecting)
	m.logger.Info("Connecting to database", nil, map[string]interface{}{
		"attempt":                  a.seq,
		"scheme":                   Scheme(m.uri),
		"max_pool_size":            m.opts.MaxPoolSize,
		"server_selection_timeout": m.opts.ServerSelectionTimeout.String(),
	})

	go m.dial(context.WithoutCancel(ctx), a)

	return a.wait(ctx)
}

func (m *Manager) dial(ctx context.Context, a *attempt) {
	start := time.Now()

	var (
		h   Handle
		err error
	)
	if m.uri == "" {
		err = ErrEmptyURI
	} else {
		h, err = m.dialer.Dial(ctx, m.uri, m.opts)
		if err == nil && h == nil {
			err = errors.New("dialer returned a nil handle")
		}
	}
	elapsed := time.Since(start)

	m.mu.Lock()
	var to State
	if err != nil {
		a.err = &ConnectionError{Attempt: a.seq, Err: err}
		to = Failed
	} else {
		a.handle = h
		m.handle = h
		to = Connected
	}
	from := m.transition(to)
	m.inflight = nil
	close(a.done)
	m.mu.Unlock()

	m.observer.ObserveDial(elapsed, err)
	m.observer.ObserveTransition(from, to)

	fields := map[string]interface{}{
		"attempt":     a.seq,
		"duration_ms": elapsed.Milliseconds(),
	}
	if err != nil {
		m.logger.Error("Database connection failed", err, fields)
		return
	}
	m.logger.Info("Database connected", nil, fields)
}

// transition must be called with mu held. It returns the previous state.
func (m *Manager) transition(to State) State {
	from := m.state
	if !canTransition(from, to) {
		panic(fmt.Sprintf("connection: invalid transition %s -> %s", from, to))
	}
	m.state = to
	return from
}

// State returns the current connection state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Handle returns the live handle and true when Connected.
func (m *Manager) Handle() (Handle, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Connected {
		return nil, false
	}
	return m.handle, true
}

// Attempts returns how many dials this manager has started.
func (m *Manager) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// Options returns the tuning this manager dials with.
func (m *Manager) Options() Options {
	return m.opts
}
