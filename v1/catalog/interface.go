package catalog

import (
	"context"
	"fmt"

	"github.com/Aleph-Alpha/storefront/v1/connection"
)

// Store is the catalog persistence contract. Both the MongoDB and the PostgreSQL
// backends implement it.
type Store interface {
	// Count returns the number of products.
	Count(ctx context.Context) (int64, error)

	// List returns every product ordered by ID.
	List(ctx context.Context) ([]Product, error)

	// Get returns one product or ErrNotFound.
	Get(ctx context.Context, id string) (Product, error)

	// ReplaceAll atomically (where the backend allows) swaps the catalog for products.
	ReplaceAll(ctx context.Context, products []Product) error
}

// Provider is implemented by connection handles that can serve a catalog Store.
type Provider interface {
	Products() Store
}

// StoreFrom returns the catalog Store behind a live connection handle.
func StoreFrom(h connection.Handle) (Store, error) {
	p, ok := h.(Provider)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedHandle, h)
	}
	return p.Products(), nil
}
