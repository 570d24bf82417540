package connection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/Aleph-Alpha/storefront/v1/execmode"
	"github.com/Aleph-Alpha/storefront/v1/logger"
)

const testURI = "mongodb://localhost:27017/storefront"

type stubHandle struct{ id int }

func (stubHandle) Ping(context.Context) error { return nil }

type dialResult struct {
	handle Handle
	err    error
}

// fakeDialer counts dials and optionally blocks each dial until release is closed.
type fakeDialer struct {
	mu      sync.Mutex
	calls   int
	results []dialResult
	release chan struct{}
	ctxErrs []error
}

func (d *fakeDialer) Dial(ctx context.Context, _ string, _ Options) (Handle, error) {
	d.mu.Lock()
	idx := d.calls
	d.calls++
	release := d.release
	d.mu.Unlock()

	if release != nil {
		<-release
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.ctxErrs = append(d.ctxErrs, ctx.Err())
	r := d.results[min(idx, len(d.results)-1)]
	return r.handle, r.err
}

func (d *fakeDialer) Calls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type recordingObserver struct {
	mu          sync.Mutex
	transitions [][2]State
	dials       []error
}

func (o *recordingObserver) ObserveTransition(from, to State) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.transitions = append(o.transitions, [2]State{from, to})
}

func (o *recordingObserver) ObserveDial(_ time.Duration, err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.dials = append(o.dials, err)
}

func (o *recordingObserver) Transitions() [][2]State {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([][2]State, len(o.transitions))
	copy(out, o.transitions)
	return out
}

func newTestManager(d Dialer) *Manager {
	return NewManager(d, testURI, TuningFor(execmode.Serverless), logger.NewNopLogger())
}

func TestConcurrentCallersShareOneDial(t *testing.T) {
	const callers = 64
	want := stubHandle{id: 7}
	d := &fakeDialer{
		results: []dialResult{{handle: want}},
		release: make(chan struct{}),
	}
	m := newTestManager(d)

	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		handles = make([]Handle, callers)
		errs    = make([]error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			handles[i], errs[i] = m.EnsureConnected(context.Background())
		}(i)
	}

	close(start)
	require.Eventually(t, func() bool { return d.Calls() == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, Connecting, m.State())
	close(d.release)
	wg.Wait()

	assert.Equal(t, 1, d.Calls())
	assert.Equal(t, 1, m.Attempts())
	assert.Equal(t, Connected, m.State())
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, want, handles[i])
	}
}

func TestConcurrentCallersShareOneFailure(t *testing.T) {
	const callers = 16
	d := &fakeDialer{
		results: []dialResult{{err: errors.New("server selection timeout")}},
		release: make(chan struct{}),
	}
	m := newTestManager(d)

	var (
		wg   sync.WaitGroup
		errs = make([]error, callers)
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.EnsureConnected(context.Background())
		}(i)
	}

	require.Eventually(t, func() bool { return d.Calls() == 1 }, time.Second, time.Millisecond)
	close(d.release)
	wg.Wait()

	assert.Equal(t, 1, d.Calls())
	assert.Equal(t, Failed, m.State())

	var first *ConnectionError
	require.ErrorAs(t, errs[0], &first)
	for i := 1; i < callers; i++ {
		var got *ConnectionError
		require.ErrorAs(t, errs[i], &got)
		assert.Same(t, first, got, "all waiters must observe the same attempt")
	}
	assert.ErrorIs(t, errs[0], ErrConnectionFailed)
	assert.EqualError(t, first.Unwrap(), "server selection timeout")
}

func TestEnsureConnectedIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := NewMockDialer(ctrl)
	h := NewMockHandle(ctrl)
	opts := TuningFor(execmode.Traditional)

	d.EXPECT().Dial(gomock.Any(), testURI, opts).Return(h, nil).Times(1)

	m := NewManager(d, testURI, opts, logger.NewNopLogger())
	for i := 0; i < 5; i++ {
		got, err := m.EnsureConnected(context.Background())
		require.NoError(t, err)
		assert.Same(t, h, got)
	}
	assert.Equal(t, 1, m.Attempts())

	got, ok := m.Handle()
	assert.True(t, ok)
	assert.Same(t, h, got)
}

func TestFailedIsNotSticky(t *testing.T) {
	want := stubHandle{id: 2}
	d := &fakeDialer{results: []dialResult{
		{err: errors.New("connection refused")},
		{handle: want},
	}}
	m := newTestManager(d)

	_, err := m.EnsureConnected(context.Background())
	require.Error(t, err)
	assert.True(t, IsConnectionError(err))
	assert.Equal(t, Failed, m.State())
	_, ok := m.Handle()
	assert.False(t, ok)

	got, err := m.EnsureConnected(context.Background())
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, Connected, m.State())
	assert.Equal(t, 2, d.Calls())
}

func TestWaiterCancellationDoesNotAbortAttempt(t *testing.T) {
	want := stubHandle{id: 3}
	d := &fakeDialer{
		results: []dialResult{{handle: want}},
		release: make(chan struct{}),
	}
	m := newTestManager(d)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := m.EnsureConnected(ctx)
		errCh <- err
	}()

	require.Eventually(t, func() bool { return d.Calls() == 1 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)
	assert.Equal(t, Connecting, m.State())

	done := make(chan Handle, 1)
	go func() {
		h, err := m.EnsureConnected(context.Background())
		assert.NoError(t, err)
		done <- h
	}()

	close(d.release)
	assert.Equal(t, want, <-done)
	assert.Equal(t, 1, d.Calls())

	d.mu.Lock()
	defer d.mu.Unlock()
	require.Len(t, d.ctxErrs, 1)
	assert.NoError(t, d.ctxErrs[0], "dial must not inherit the caller's cancellation")
}

func TestEmptyURIFailsWithoutDialing(t *testing.T) {
	ctrl := gomock.NewController(t)
	d := NewMockDialer(ctrl)

	m := NewManager(d, "", TuningFor(execmode.Traditional), logger.NewNopLogger())
	_, err := m.EnsureConnected(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyURI)
	assert.ErrorIs(t, err, ErrConnectionFailed)
	assert.Equal(t, Failed, m.State())
}

func TestNilHandleIsAFailure(t *testing.T) {
	d := &fakeDialer{results: []dialResult{{}}}
	m := newTestManager(d)

	_, err := m.EnsureConnected(context.Background())
	require.Error(t, err)
	assert.Equal(t, Failed, m.State())
}

func TestObserverSeesTransitions(t *testing.T) {
	d := &fakeDialer{results: []dialResult{
		{err: errors.New("boom")},
		{handle: stubHandle{}},
	}}
	obs := &recordingObserver{}
	m := newTestManager(d).WithObserver(obs)

	_, _ = m.EnsureConnected(context.Background())
	_, _ = m.EnsureConnected(context.Background())
	_, _ = m.EnsureConnected(context.Background())

	assert.Equal(t, [][2]State{
		{Disconnected, Connecting},
		{Connecting, Failed},
		{Failed, Connecting},
		{Connecting, Connected},
	}, obs.Transitions())
	require.Len(t, obs.dials, 2)
	assert.Error(t, obs.dials[0])
	assert.NoError(t, obs.dials[1])
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]State]bool{
		{Disconnected, Connecting}: true,
		{Failed, Connecting}:       true,
		{Connecting, Connected}:    true,
		{Connecting, Failed}:       true,
	}
	states := []State{Disconnected, Connecting, Connected, Failed}
	for _, from := range states {
		for _, to := range states {
			assert.Equal(t, allowed[[2]State{from, to}], canTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "disconnected", Disconnected.String())
	assert.Equal(t, "connecting", Connecting.String())
	assert.Equal(t, "connected", Connected.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "unknown", State(42).String())
}
