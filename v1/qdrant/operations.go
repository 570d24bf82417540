package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"
)

// EnsureCollection creates the configured collection with cosine distance if
// it is missing. An existing collection with a different vector size is
// dropped and recreated, since its vectors cannot be queried with the
// current embedder.
func (c *QdrantClient) EnsureCollection(ctx context.Context, vectorSize int) error {
	if vectorSize <= 0 {
		return fmt.Errorf("[Qdrant] vector size must be positive, got %d", vectorSize)
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	name := c.cfg.Collection
	exists, err := c.api.CollectionExists(ctx, name)
	if err != nil {
		return fmt.Errorf("[Qdrant] failed to check collection '%s': %w", name, err)
	}

	if exists {
		info, err := c.api.GetCollectionInfo(ctx, name)
		if err != nil {
			return fmt.Errorf("[Qdrant] failed to get collection '%s': %w", name, err)
		}
		size, _ := extractVectorDetails(info)
		if size == vectorSize {
			return nil
		}

		c.logger.Warn("[Qdrant] vector size changed, recreating collection", nil, map[string]interface{}{
			"collection": name,
			"old_size":   size,
			"new_size":   vectorSize,
		})
		if err := c.api.DeleteCollection(ctx, name); err != nil {
			return fmt.Errorf("[Qdrant] failed to drop collection '%s': %w", name, err)
		}
	}

	err = c.api.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(vectorSize),
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("[Qdrant] failed to create collection '%s': %w", name, err)
	}

	c.logger.Info("[Qdrant] created collection", nil, map[string]interface{}{
		"collection":  name,
		"vector_size": vectorSize,
	})
	return nil
}

// Upsert writes points in chunks of defaultBatchSize, waiting for each chunk
// to be persisted.
func (c *QdrantClient) Upsert(ctx context.Context, points []Point) error {
	for start := 0; start < len(points); start += defaultBatchSize {
		end := min(start+defaultBatchSize, len(points))
		if err := c.upsertBatch(ctx, points[start:end]); err != nil {
			return fmt.Errorf("[Qdrant] batch upsert failed at [%d:%d]: %w", start, end, err)
		}
		c.logger.Debug("[Qdrant] upserted batch", nil, map[string]interface{}{
			"collection": c.cfg.Collection,
			"start":      start,
			"end":        end,
		})
	}
	return nil
}

func (c *QdrantClient) upsertBatch(ctx context.Context, batch []Point) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	wait := true
	_, err := c.api.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: c.cfg.Collection,
		Points:         toPointStructs(batch),
		Wait:           &wait,
	})
	return err
}

// Search returns the topK points nearest to vector that satisfy filters.
func (c *QdrantClient) Search(ctx context.Context, vector []float32, topK int, filters *FilterSet) ([]SearchResult, error) {
	if len(vector) == 0 {
		return nil, fmt.Errorf("vector cannot be empty")
	}
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be greater than 0")
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	limit := uint64(topK)
	resp, err := c.api.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.cfg.Collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
		Filter:         buildFilter(filters),
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] search failed: %w", err)
	}
	return parseSearchResults(resp)
}

// PointIDs returns the IDs of every point in the collection, paging through
// it with scroll requests. A missing collection has no points.
func (c *QdrantClient) PointIDs(ctx context.Context) ([]string, error) {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	name := c.cfg.Collection
	exists, err := c.api.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to check collection '%s': %w", name, err)
	}
	if !exists {
		return nil, nil
	}

	var (
		ids    []string
		offset *qdrant.PointId
		limit  = uint32(defaultBatchSize)
	)
	for {
		resp, err := c.api.GetPointsClient().Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: name,
			Offset:         offset,
			Limit:          &limit,
			WithPayload:    qdrant.NewWithPayload(false),
			WithVectors:    qdrant.NewWithVectors(false),
		})
		if err != nil {
			return nil, fmt.Errorf("[Qdrant] scroll failed: %w", err)
		}
		for _, p := range resp.GetResult() {
			id, err := extractPointID(p.GetId())
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
		offset = resp.GetNextPageOffset()
		if offset == nil {
			return ids, nil
		}
	}
}

// Delete removes points by ID, waiting until the deletion is applied.
func (c *QdrantClient) Delete(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	ctx, cancel := c.bound(ctx)
	defer cancel()

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewID(id)
	}

	wait := true
	_, err := c.api.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: c.cfg.Collection,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("[Qdrant] delete failed: %w", err)
	}
	return nil
}
