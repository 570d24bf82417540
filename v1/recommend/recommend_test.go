package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/embedding"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/qdrant"
)

type fakeIndex struct {
	mu         sync.Mutex
	size       int
	points     map[string]qdrant.Point
	upserts    int
	searchErr  error
	lastFilter *qdrant.FilterSet
	deleted    []string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{points: map[string]qdrant.Point{}}
}

func (f *fakeIndex) EnsureCollection(_ context.Context, size int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.size = size
	return nil
}

func (f *fakeIndex) Upsert(_ context.Context, points []qdrant.Point) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	for _, p := range points {
		f.points[p.ID] = p
	}
	return nil
}

func (f *fakeIndex) PointIDs(context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0, len(f.points))
	for id := range f.points {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeIndex) Delete(_ context.Context, ids []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		delete(f.points, id)
	}
	f.deleted = append(f.deleted, ids...)
	return nil
}

// Search scores every stored point by dot product. Filters are recorded,
// not applied.
func (f *fakeIndex) Search(_ context.Context, vector []float32, topK int, filters *qdrant.FilterSet) ([]qdrant.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastFilter = filters
	if f.searchErr != nil {
		return nil, f.searchErr
	}

	var out []qdrant.SearchResult
	for _, p := range f.points {
		var s float32
		for i := range vector {
			s += vector[i] * p.Vector[i]
		}
		out = append(out, qdrant.SearchResult{ID: p.ID, Score: s, Payload: p.Payload})
	}
	sortResults(out)
	if len(out) > topK {
		out = out[:topK]
	}
	return out, nil
}

func sortResults(rs []qdrant.SearchResult) {
	for i := 1; i < len(rs); i++ {
		for j := i; j > 0 && rs[j].Score > rs[j-1].Score; j-- {
			rs[j], rs[j-1] = rs[j-1], rs[j]
		}
	}
}

type failingEmbedder struct{ err error }

func (f failingEmbedder) Embed(context.Context, []string) ([][]float32, error) {
	return nil, f.err
}

func testProducts() []catalog.Product {
	return []catalog.Product{
		{ID: "p1", Name: "Leather Boots", Category: "shoes", Description: "Warm winter boots", Tags: []string{"leather"}},
		{ID: "p2", Name: "Running Shoes", Category: "shoes", Description: "Light trainers"},
		{ID: "p3", Name: "Wool Hat", Category: "hats", Description: "Keeps you warm in winter"},
	}
}

func TestSyncIndexesEveryProduct(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore(testProducts()...)
	index := newFakeIndex()

	s := NewSyncer(embedding.NewHashingEmbedder(64), index, Config{BatchSize: 2, Concurrency: 2}, logger.NewNopLogger())
	require.NoError(t, s.Sync(ctx, &catalog.MemoryHandle{Store: store}))

	assert.Equal(t, 64, index.size)
	assert.Len(t, index.points, 3)
	assert.Equal(t, 1, index.upserts)

	p, ok := index.points[PointID("p1")]
	require.True(t, ok)
	assert.Equal(t, "p1", p.Payload["product_id"])
	assert.Equal(t, []any{"leather"}, p.Payload["tags"])

	// Re-sync overwrites the same points.
	require.NoError(t, s.Sync(ctx, &catalog.MemoryHandle{Store: store}))
	assert.Len(t, index.points, 3)
}

func TestSyncRemovesStalePoints(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore(testProducts()...)
	index := newFakeIndex()
	s := NewSyncer(embedding.NewHashingEmbedder(32), index, Config{}, logger.NewNopLogger())

	require.NoError(t, s.Sync(ctx, &catalog.MemoryHandle{Store: store}))
	require.Len(t, index.points, 3)
	assert.Empty(t, index.deleted)

	// A forced reseed drops p3 and renames p2.
	renamed := testProducts()[1]
	renamed.ID = "p2-v2"
	require.NoError(t, store.ReplaceAll(ctx, []catalog.Product{testProducts()[0], renamed}))

	require.NoError(t, s.Sync(ctx, &catalog.MemoryHandle{Store: store}))
	assert.ElementsMatch(t, []string{PointID("p2"), PointID("p3")}, index.deleted)
	assert.Len(t, index.points, 2)
	assert.Contains(t, index.points, PointID("p1"))
	assert.Contains(t, index.points, PointID("p2-v2"))

	res, err := NewSearcher(embedding.NewHashingEmbedder(32), index, Config{}, logger.NewNopLogger()).
		Search(ctx, store, Query{Text: "shoes", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, SourceVector, res.Source)
	assert.Len(t, res.Hits, 2)

	// Emptying the catalog empties the index.
	require.NoError(t, store.ReplaceAll(ctx, nil))
	require.NoError(t, s.Sync(ctx, &catalog.MemoryHandle{Store: store}))
	assert.Empty(t, index.points)
}

func TestSyncErrors(t *testing.T) {
	ctx := context.Background()
	h := &catalog.MemoryHandle{Store: catalog.NewMemoryStore(testProducts()...)}

	s := NewSyncer(embedding.NewHashingEmbedder(8), nil, Config{}, logger.NewNopLogger())
	assert.ErrorIs(t, s.Sync(ctx, h), ErrIndexDisabled)

	boom := errors.New("inference down")
	s = NewSyncer(failingEmbedder{err: boom}, newFakeIndex(), Config{}, logger.NewNopLogger())
	assert.ErrorIs(t, s.Sync(ctx, h), boom)

	s = NewSyncer(embedding.NewHashingEmbedder(8), newFakeIndex(), Config{}, logger.NewNopLogger())
	assert.ErrorIs(t, s.Sync(ctx, plainHandle{}), catalog.ErrUnsupportedHandle)
}

func TestSyncEmptyCatalog(t *testing.T) {
	index := newFakeIndex()
	s := NewSyncer(embedding.NewHashingEmbedder(8), index, Config{}, logger.NewNopLogger())

	require.NoError(t, s.Sync(context.Background(), &catalog.MemoryHandle{Store: catalog.NewMemoryStore()}))
	assert.Zero(t, index.upserts)
}

func TestPointIDIsStable(t *testing.T) {
	assert.Equal(t, PointID("p1"), PointID("p1"))
	assert.NotEqual(t, PointID("p1"), PointID("p2"))
	assert.Len(t, PointID("p1"), 36)
}

func TestSearchUsesVectorIndex(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore(testProducts()...)
	index := newFakeIndex()
	emb := embedding.NewHashingEmbedder(256)

	require.NoError(t, NewSyncer(emb, index, Config{}, logger.NewNopLogger()).Sync(ctx, &catalog.MemoryHandle{Store: store}))

	s := NewSearcher(emb, index, Config{}, logger.NewNopLogger())
	res, err := s.Search(ctx, store, Query{Text: "leather boots", Limit: 1, Category: "shoes"})
	require.NoError(t, err)

	assert.Equal(t, SourceVector, res.Source)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "p1", res.Hits[0].Product.ID)
	require.NotNil(t, index.lastFilter)
	assert.Len(t, index.lastFilter.Must, 1)
}

func TestSearchSkipsStaleHits(t *testing.T) {
	ctx := context.Background()
	index := newFakeIndex()
	emb := embedding.NewHashingEmbedder(32)

	full := catalog.NewMemoryStore(testProducts()...)
	require.NoError(t, NewSyncer(emb, index, Config{}, logger.NewNopLogger()).Sync(ctx, &catalog.MemoryHandle{Store: full}))

	shrunk := catalog.NewMemoryStore(testProducts()[0])
	res, err := NewSearcher(emb, index, Config{}, logger.NewNopLogger()).Search(ctx, shrunk, Query{Text: "warm"})
	require.NoError(t, err)
	require.Len(t, res.Hits, 1)
	assert.Equal(t, "p1", res.Hits[0].Product.ID)
}

func TestSearchFallsBackToKeywords(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore(testProducts()...)

	index := newFakeIndex()
	index.searchErr = errors.New("qdrant unavailable")

	s := NewSearcher(embedding.NewHashingEmbedder(8), index, Config{}, logger.NewNopLogger())
	res, err := s.Search(ctx, store, Query{Text: "WARM winter"})
	require.NoError(t, err)

	assert.Equal(t, SourceKeyword, res.Source)
	require.Len(t, res.Hits, 2)
	assert.Equal(t, "p1", res.Hits[0].Product.ID)
	assert.Equal(t, "p3", res.Hits[1].Product.ID)
}

func TestKeywordSearch(t *testing.T) {
	ctx := context.Background()
	store := catalog.NewMemoryStore(testProducts()...)
	s := NewSearcher(nil, nil, Config{DefaultLimit: 2}, logger.NewNopLogger())

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{name: "name match ranks first", query: Query{Text: "boots"}, want: []string{"p1"}},
		{name: "tag match", query: Query{Text: "leather"}, want: []string{"p1"}},
		{name: "category filter", query: Query{Text: "warm", Category: "HATS"}, want: []string{"p3"}},
		{name: "empty query lists with default limit", query: Query{}, want: []string{"p1", "p2"}},
		{name: "limit", query: Query{Text: "", Limit: 1}, want: []string{"p1"}},
		{name: "no match", query: Query{Text: "kettle"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := s.Search(ctx, store, tt.query)
			require.NoError(t, err)
			assert.Equal(t, SourceKeyword, res.Source)

			var ids []string
			for _, h := range res.Hits {
				ids = append(ids, h.Product.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestSearchLimitIsCapped(t *testing.T) {
	s := NewSearcher(nil, nil, Config{MaxLimit: 5}, logger.NewNopLogger())
	assert.Equal(t, 5, s.limit(100))
	assert.Equal(t, 5, s.limit(0))
	assert.Equal(t, 3, s.limit(3))
}

type plainHandle struct{}

func (plainHandle) Ping(context.Context) error { return nil }
