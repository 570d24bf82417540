package server

import (
	"context"
	"time"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/qdrant"
	"github.com/Aleph-Alpha/storefront/v1/recommend"
)

// HandleSource exposes the process connection to route handlers.
// *connection.Manager implements it.
type HandleSource interface {
	Handle() (connection.Handle, bool)
	State() connection.State
	EnsureConnected(ctx context.Context) (connection.Handle, error)
}

// IndexHealth probes the vector index. *qdrant.QdrantClient implements it.
type IndexHealth interface {
	HealthCheck(ctx context.Context) error
}

// Searcher answers /api/search. *recommend.Searcher implements it.
type Searcher interface {
	Search(ctx context.Context, store catalog.Store, q recommend.Query) (recommend.Result, error)
}

// RequestRecorder receives one call per finished request.
// *metrics.Metrics implements it.
type RequestRecorder interface {
	RecordRequest(method, route string, status int, start time.Time)
}

var (
	_ HandleSource = (*connection.Manager)(nil)
	_ Searcher     = (*recommend.Searcher)(nil)
	_ IndexHealth  = (*qdrant.QdrantClient)(nil)
)
