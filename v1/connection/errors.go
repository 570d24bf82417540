package connection

import (
	"errors"
	"fmt"
)

var (
	// ErrConnectionFailed matches every *ConnectionError via errors.Is.
	ErrConnectionFailed = errors.New("database connection failed")

	// ErrUnsupportedScheme is returned when no dialer is registered for a URI scheme.
	ErrUnsupportedScheme = errors.New("unsupported database uri scheme")

	// ErrEmptyURI is returned when the manager has no URI to dial.
	ErrEmptyURI = errors.New("database uri is empty")
)

// ConnectionError reports a failed connect attempt. Every caller that waited on
// the same attempt receives the same *ConnectionError value.
type ConnectionError struct {
	// Attempt is the 1-based sequence number of the dial within this process.
	Attempt int
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("%s (attempt %d): %v", ErrConnectionFailed, e.Attempt, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnectionFailed
}

// IsConnectionError reports whether err is or wraps a *ConnectionError.
func IsConnectionError(err error) bool {
	var connErr *ConnectionError
	return errors.As(err, &connErr)
}
