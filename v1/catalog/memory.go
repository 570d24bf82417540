package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store. It backs tests and local tooling that
// run without a database.
type MemoryStore struct {
	mu       sync.RWMutex
	products map[string]Product
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns a MemoryStore holding products.
func NewMemoryStore(products ...Product) *MemoryStore {
	s := &MemoryStore{products: make(map[string]Product, len(products))}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *MemoryStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.products)), nil
}

func (s *MemoryStore) List(_ context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b Product) int { return strings.Compare(a.ID, b.ID) })
	return out, nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (s *MemoryStore) ReplaceAll(_ context.Context, products []Product) error {
	next := make(map[string]Product, len(products))
	for _, p := range products {
		next[p.ID] = p
	}

	s.mu.Lock()
	s.products = next
	s.mu.Unlock()
	return nil
}

// MemoryHandle is a connection.Handle serving a MemoryStore.
type MemoryHandle struct {
	Store *MemoryStore
}

func (h MemoryHandle) Ping(context.Context) error { return nil }

func (h MemoryHandle) Products() Store { return h.Store }
