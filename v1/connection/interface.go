package connection

import "context"

// Handle is an opaque, live database session.
//
// The Manager owns the handle once connected. Callers hold it by reference and
// must not close it; there is no teardown path for the process-wide connection.
//
//go:generate mockgen -source=interface.go -destination=mock_interface.go -package=connection
type Handle interface {
	// Ping verifies the session is usable.
	Ping(ctx context.Context) error
}

// Dialer opens a new session to the store identified by uri.
//
// Implementations must honor opts.ServerSelectionTimeout as the upper bound for
// establishing the session; the Manager adds no timeout of its own.
type Dialer interface {
	Dial(ctx context.Context, uri string, opts Options) (Handle, error)
}
