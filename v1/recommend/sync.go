package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/embedding"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/qdrant"
)

// ErrIndexDisabled is returned by Sync when no vector index is configured.
var ErrIndexDisabled = errors.New("recommend: vector index disabled")

// pointNamespace derives stable point IDs from product IDs.
var pointNamespace = uuid.MustParse("9b0f7c8e-4a61-5d2b-9d0e-7f3c2a1b6e54")

// PointID returns the vector point ID of a product.
func PointID(productID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(productID)).String()
}

// Syncer embeds every catalog product and upserts it into the index.
type Syncer struct {
	embedder embedding.Embedder
	index    Index
	cfg      Config
	logger   logger.Logger
}

// NewSyncer returns a Syncer. A nil index makes Sync return ErrIndexDisabled.
func NewSyncer(embedder embedding.Embedder, index Index, cfg Config, log logger.Logger) *Syncer {
	return &Syncer{embedder: embedder, index: index, cfg: cfg.withDefaults(), logger: log}
}

// Sync reads the catalog behind h and makes the vector index match it.
// Batches are embedded in parallel; upserts happen once all vectors exist.
// Points whose product is no longer in the catalog are deleted afterwards.
func (s *Syncer) Sync(ctx context.Context, h connection.Handle) error {
	if s.index == nil {
		return ErrIndexDisabled
	}

	store, err := catalog.StoreFrom(h)
	if err != nil {
		return err
	}
	products, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}
	if len(products) == 0 {
		s.logger.Info("catalog empty, nothing to index", nil)
		_, err := s.prune(ctx, nil)
		return err
	}

	vectors, err := s.embedAll(ctx, products)
	if err != nil {
		return err
	}

	if err := s.index.EnsureCollection(ctx, len(vectors[0])); err != nil {
		return err
	}

	points := make([]qdrant.Point, len(products))
	for i, p := range products {
		points[i] = qdrant.Point{
			ID:      PointID(p.ID),
			Vector:  vectors[i],
			Payload: payloadFor(p),
		}
	}
	if err := s.index.Upsert(ctx, points); err != nil {
		return err
	}

	removed, err := s.prune(ctx, points)
	if err != nil {
		return err
	}

	s.logger.Info("catalog indexed", nil, map[string]interface{}{
		"products":    len(points),
		"removed":     removed,
		"vector_size": len(vectors[0]),
	})
	return nil
}

// prune deletes every indexed point that is not in keep and returns how many
// were removed.
func (s *Syncer) prune(ctx context.Context, keep []qdrant.Point) (int, error) {
	indexed, err := s.index.PointIDs(ctx)
	if err != nil {
		return 0, fmt.Errorf("list indexed points: %w", err)
	}

	current := make(map[string]struct{}, len(keep))
	for _, p := range keep {
		current[p.ID] = struct{}{}
	}
	var stale []string
	for _, id := range indexed {
		if _, ok := current[id]; !ok {
			stale = append(stale, id)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}

	if err := s.index.Delete(ctx, stale); err != nil {
		return 0, fmt.Errorf("delete stale points: %w", err)
	}
	s.logger.Debug("stale points removed from index", nil, map[string]interface{}{"count": len(stale)})
	return len(stale), nil
}

func (s *Syncer) embedAll(ctx context.Context, products []catalog.Product) ([][]float32, error) {
	vectors := make([][]float32, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for start := 0; start < len(products); start += s.cfg.BatchSize {
		end := min(start+s.cfg.BatchSize, len(products))

		g.Go(func() error {
			texts := make([]string, 0, end-start)
			for _, p := range products[start:end] {
				texts = append(texts, p.Document())
			}

			out, err := s.embedder.Embed(gctx, texts)
			if err != nil {
				return fmt.Errorf("embed products [%d:%d]: %w", start, end, err)
			}
			if len(out) != len(texts) {
				return fmt.Errorf("embed products [%d:%d]: got %d vectors", start, end, len(out))
			}
			copy(vectors[start:end], out)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	size := len(vectors[0])
	for i, v := range vectors {
		if len(v) == 0 || len(v) != size {
			return nil, fmt.Errorf("embedding for product %q has size %d, want %d", products[i].ID, len(v), size)
		}
	}
	return vectors, nil
}

func payloadFor(p catalog.Product) map[string]any {
	tags := make([]any, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = t
	}
	return map[string]any{
		"product_id": p.ID,
		"name":       p.Name,
		"category":   p.Category,
		"price":      p.Price,
		"tags":       tags,
	}
}
