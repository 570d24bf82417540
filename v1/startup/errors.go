package startup

import "fmt"

// SeedError wraps a failure of the seed stage. It is logged and recorded in
// the Outcome, never returned from RunOnce.
type SeedError struct {
	Err error
}

func (e *SeedError) Error() string {
	return fmt.Sprintf("seed stage failed: %v", e.Err)
}

func (e *SeedError) Unwrap() error { return e.Err }

// SyncError wraps a failure of the index sync stage. Like SeedError it never
// stops startup.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("index sync stage failed: %v", e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }
