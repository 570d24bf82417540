package gate

import (
	"context"
	"net/http"

	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/logger"
)

// Connector is satisfied by *connection.Manager.
type Connector interface {
	EnsureConnected(ctx context.Context) (connection.Handle, error)
}

// RejectionCounter is notified of every 503. *metrics.Metrics implements it.
type RejectionCounter interface {
	IncrementGateRejections()
}

// unavailableBody is the fixed 503 payload.
const unavailableBody = `{"error":"Database connection failed"}` + "\n"

// Gate makes every request wait for the database connection. A request that
// cannot be served gets 503 and the next request tries again.
type Gate struct {
	connector   Connector
	logger      logger.Logger
	onConnected func()
	rejections  RejectionCounter
}

// Option customises a Gate.
type Option func(*Gate)

// WithOnConnected registers fn to run after every successful connect check,
// before the downstream handler. fn must not block.
func WithOnConnected(fn func()) Option {
	return func(g *Gate) { g.onConnected = fn }
}

// WithRejectionCounter counts 503 responses.
func WithRejectionCounter(c RejectionCounter) Option {
	return func(g *Gate) { g.rejections = c }
}

// New returns a Gate over connector.
func New(connector Connector, log logger.Logger, opts ...Option) *Gate {
	g := &Gate{connector: connector, logger: log}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Middleware wraps next. Once the connection is up EnsureConnected returns
// without I/O, so warm requests pay only a mutex round-trip.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := g.connector.EnsureConnected(r.Context()); err != nil {
			g.logger.Error("database unavailable, rejecting request", err, map[string]interface{}{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			if g.rejections != nil {
				g.rejections.IncrementGateRejections()
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(unavailableBody))
			return
		}

		if g.onConnected != nil {
			g.onConnected()
		}
		next.ServeHTTP(w, r)
	})
}
