package recommend

import (
	"context"

	"github.com/Aleph-Alpha/storefront/v1/qdrant"
)

// Index is the vector store the catalog is synced into. *qdrant.QdrantClient
// implements it.
type Index interface {
	EnsureCollection(ctx context.Context, vectorSize int) error
	Upsert(ctx context.Context, points []qdrant.Point) error
	Search(ctx context.Context, vector []float32, topK int, filters *qdrant.FilterSet) ([]qdrant.SearchResult, error)
	PointIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, ids []string) error
}

var _ Index = (*qdrant.QdrantClient)(nil)
