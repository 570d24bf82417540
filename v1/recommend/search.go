package recommend

import (
	"context"
	"errors"
	"strings"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/embedding"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/qdrant"
)

// Source tells how a search result was produced.
type Source string

const (
	SourceVector  Source = "vector"
	SourceKeyword Source = "keyword"
)

// Query is a catalog search request.
type Query struct {
	Text     string
	Category string
	Limit    int
}

// Hit is one search result.
type Hit struct {
	Product catalog.Product `json:"product"`
	Score   float32         `json:"score"`
}

// Result is the outcome of a search.
type Result struct {
	Hits   []Hit  `json:"hits"`
	Source Source `json:"source"`
}

// Searcher answers catalog queries from the vector index and falls back to
// keyword matching against the store when the index is unavailable.
type Searcher struct {
	embedder embedding.Embedder
	index    Index
	cfg      Config
	logger   logger.Logger
}

// NewSearcher returns a Searcher. A nil index always uses keyword matching.
func NewSearcher(embedder embedding.Embedder, index Index, cfg Config, log logger.Logger) *Searcher {
	return &Searcher{embedder: embedder, index: index, cfg: cfg.withDefaults(), logger: log}
}

// Search runs q against the catalog in store.
func (s *Searcher) Search(ctx context.Context, store catalog.Store, q Query) (Result, error) {
	q.Text = strings.TrimSpace(q.Text)
	q.Limit = s.limit(q.Limit)

	if s.index != nil && s.embedder != nil && q.Text != "" {
		hits, err := s.vectorSearch(ctx, store, q)
		if err == nil {
			return Result{Hits: hits, Source: SourceVector}, nil
		}
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		s.logger.Warn("vector search failed, using keyword fallback", err, map[string]interface{}{
			"query": q.Text,
		})
	}

	hits, err := keywordSearch(ctx, store, q)
	if err != nil {
		return Result{}, err
	}
	return Result{Hits: hits, Source: SourceKeyword}, nil
}

func (s *Searcher) limit(n int) int {
	if n <= 0 {
		n = s.cfg.DefaultLimit
	}
	return min(n, s.cfg.MaxLimit)
}

func (s *Searcher) vectorSearch(ctx context.Context, store catalog.Store, q Query) ([]Hit, error) {
	vectors, err := s.embedder.Embed(ctx, []string{q.Text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, errors.New("embedder returned no vector for query")
	}

	var filters *qdrant.FilterSet
	if q.Category != "" {
		filters = &qdrant.FilterSet{
			Must: []qdrant.FilterCondition{qdrant.TextCondition{Key: "category", Value: q.Category}},
		}
	}

	results, err := s.index.Search(ctx, vectors[0], q.Limit, filters)
	if err != nil {
		return nil, err
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		id, _ := r.Payload["product_id"].(string)
		if id == "" {
			continue
		}
		p, err := store.Get(ctx, id)
		if errors.Is(err, catalog.ErrNotFound) {
			// Index is ahead of or behind the catalog until the next sync.
			continue
		}
		if err != nil {
			return nil, err
		}
		hits = append(hits, Hit{Product: p, Score: r.Score})
	}
	return hits, nil
}

// keywordSearch matches every query word case-insensitively against a
// product's name, description, category and tags. Score is the fraction of
// query words found in the name.
func keywordSearch(ctx context.Context, store catalog.Store, q Query) ([]Hit, error) {
	products, err := store.List(ctx)
	if err != nil {
		return nil, err
	}

	words := strings.Fields(strings.ToLower(q.Text))
	hits := make([]Hit, 0)
	for _, p := range products {
		if q.Category != "" && !strings.EqualFold(p.Category, q.Category) {
			continue
		}

		doc := strings.ToLower(p.Document())
		name := strings.ToLower(p.Name)
		matched, inName := true, 0
		for _, w := range words {
			if !strings.Contains(doc, w) {
				matched = false
				break
			}
			if strings.Contains(name, w) {
				inName++
			}
		}
		if !matched {
			continue
		}

		score := float32(1)
		if len(words) > 0 {
			score = float32(inName) / float32(len(words))
		}
		hits = append(hits, Hit{Product: p, Score: score})
	}

	// Stable order: score desc, then the store's ID order.
	sortHits(hits)
	if len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}
	return hits, nil
}
