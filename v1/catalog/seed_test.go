package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/storefront/v1/logger"
)

var existing = Product{ID: "legacy-1", Name: "Legacy Lamp", Category: "home", Price: 10}

func newTestSeeder(t *testing.T) *Seeder {
	t.Helper()
	s, err := NewSeeder(logger.NewNopLogger())
	require.NoError(t, err)
	return s
}

func TestDefaultProductsLoad(t *testing.T) {
	products, err := DefaultProducts()
	require.NoError(t, err)
	assert.NotEmpty(t, products)
	for _, p := range products {
		assert.NotEmpty(t, p.ID)
		assert.NotEmpty(t, p.Name)
		assert.Positive(t, p.Price)
	}
}

func TestSeedEmptyCatalog(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := newTestSeeder(t)

	res, err := s.Seed(ctx, store, SeedOptions{SkipIfExists: true})
	require.NoError(t, err)
	assert.True(t, res.Seeded)
	assert.False(t, res.Skipped)

	count, _ := store.Count(ctx)
	assert.Equal(t, res.Count, count)
}

func TestSeedSkipsPopulatedCatalog(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(existing)
	s := newTestSeeder(t)

	before, _ := store.List(ctx)
	res, err := s.Seed(ctx, store, SeedOptions{SkipIfExists: true})
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.False(t, res.Seeded)
	assert.Equal(t, int64(1), res.Count)

	after, _ := store.List(ctx)
	assert.Equal(t, before, after)
}

func TestSeedForceAlwaysSeeds(t *testing.T) {
	ctx := context.Background()
	s := newTestSeeder(t)

	for _, store := range []*MemoryStore{NewMemoryStore(), NewMemoryStore(existing)} {
		res, err := s.Seed(ctx, store, SeedOptions{Force: true, SkipIfExists: true})
		require.NoError(t, err)
		assert.True(t, res.Seeded)
		assert.False(t, res.Skipped)

		_, err = store.Get(ctx, existing.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	}
}

func TestSeedWithoutSkipReplaces(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(existing)
	s := newTestSeeder(t)

	res, err := s.Seed(ctx, store, SeedOptions{})
	require.NoError(t, err)
	assert.True(t, res.Seeded)
}

type failingStore struct{ MemoryStore }

func (f *failingStore) Count(context.Context) (int64, error) {
	return 0, errors.New("count failed")
}

func TestSeedPropagatesStoreErrors(t *testing.T) {
	s := newTestSeeder(t)

	_, err := s.Seed(context.Background(), &failingStore{}, SeedOptions{SkipIfExists: true})
	assert.ErrorContains(t, err, "count failed")
}

func TestSeedConnection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	s := newTestSeeder(t)

	res, err := s.SeedConnection(ctx, MemoryHandle{Store: store}, SeedOptions{SkipIfExists: true})
	require.NoError(t, err)
	assert.True(t, res.Seeded)

	_, err = s.SeedConnection(ctx, plainHandle{}, SeedOptions{})
	assert.ErrorIs(t, err, ErrUnsupportedHandle)
}

type plainHandle struct{}

func (plainHandle) Ping(context.Context) error { return nil }

func TestLoadSeedValidation(t *testing.T) {
	_, err := LoadSeed([]byte("products: []\n"))
	assert.ErrorIs(t, err, ErrEmptySeed)

	_, err = LoadSeed([]byte("products:\n  - name: no id\n"))
	assert.ErrorContains(t, err, "has no id")

	_, err = LoadSeed([]byte("products:\n  - id: a\n  - id: a\n"))
	assert.ErrorContains(t, err, "duplicated")

	_, err = LoadSeed([]byte("products:\n  - id: a\n    colour: red\n"))
	assert.Error(t, err)
}

func TestProductDocument(t *testing.T) {
	p := Product{Name: "Shoe", Category: "footwear", Description: "Light", Tags: []string{"run", "trail"}}
	assert.Equal(t, "Shoe\nfootwear\nLight\nrun trail", p.Document())
}
