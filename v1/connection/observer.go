package connection

import "time"

// Observer receives connection lifecycle events. Implementations must be fast
// and safe for concurrent use.
type Observer interface {
	// ObserveTransition is called after every state change.
	ObserveTransition(from, to State)

	// ObserveDial is called once per dial attempt with its duration and outcome.
	ObserveDial(duration time.Duration, err error)
}

type nopObserver struct{}

func (nopObserver) ObserveTransition(State, State)    {}
func (nopObserver) ObserveDial(time.Duration, error) {}
