// Package qdrant manages the product vector collection in Qdrant.
//
// The package wraps the official Qdrant Go client (gRPC) and exposes the
// operations the catalog index needs: collection setup, point upsert,
// filtered similarity search, point listing and deletion, and a health
// probe for readiness.
//
// Core Features:
//   - Idempotent collection creation with cosine distance
//   - Automatic recreation when the embedding size changes
//   - Chunked upserts that wait for persistence
//   - Keyword payload filters with Must, Should and MustNot clauses
//   - Paged listing of point IDs for index reconciliation
//   - Per-request timeouts on top of the caller's context
//   - Integration with go.uber.org/fx for lifecycle management
//
// # Direct Usage (Without FX)
//
//	import "github.com/Aleph-Alpha/storefront/v1/qdrant"
//
//	cfg := qdrant.DefaultConfig()
//	cfg.Endpoint = "qdrant.internal"
//
//	client, err := qdrant.NewQdrantClient(cfg, log)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	if err := client.HealthCheck(ctx); err != nil {
//		return err
//	}
//
// # Collections
//
// EnsureCollection creates the configured collection with cosine distance.
// If the collection exists with a different vector size it is recreated, so
// switching embedding models never leaves incompatible vectors behind.
//
//	if err := client.EnsureCollection(ctx, 256); err != nil {
//		return err
//	}
//
// # Writing Points
//
// Point IDs must be UUIDs or unsigned integers in decimal form. The
// recommend package derives name-based UUIDs from product IDs.
//
//	err := client.Upsert(ctx, []qdrant.Point{{
//		ID:      "0b0d8a3c-7c1e-5f6a-9d2b-2a1b3c4d5e6f",
//		Vector:  vector,
//		Payload: map[string]any{"product_id": "p1", "category": "shoes"},
//	}})
//
// Upsert splits large inputs into chunks of 200 points and waits for each
// chunk to be applied before sending the next.
//
// # Searching
//
//	hits, err := client.Search(ctx, vector, 10, &qdrant.FilterSet{
//		Must: []qdrant.FilterCondition{
//			qdrant.TextCondition{Key: "category", Value: "shoes"},
//		},
//	})
//	for _, h := range hits {
//		fmt.Println(h.ID, h.Score, h.Payload["product_id"])
//	}
//
// A TextCondition with an empty Value contributes nothing, and a FilterSet
// without conditions searches the whole collection.
//
// # Reconciliation
//
// PointIDs scrolls through the collection without payloads or vectors and
// returns every point ID; a missing collection yields none. Together with
// Delete this lets a sync remove points whose products left the catalog:
//
//	ids, err := client.PointIDs(ctx)
//	...
//	err = client.Delete(ctx, stale)
//
// # FX Module Integration
//
//	app := fx.New(
//		logger.FXModule,
//		qdrant.FXModule, // Provides *QdrantClient, closes it on stop
//		fx.Supply(qdrant.Config{Endpoint: "qdrant.internal"}),
//	)
//
// The application includes this module only when an endpoint is
// configured; without it search falls back to catalog matching.
//
// # Configuration
//
//	QDRANT_ENDPOINT=qdrant.internal  # empty disables the vector index
//	QDRANT_PORT=6334                 # gRPC port
//	QDRANT_API_KEY=...               # optional
//	QDRANT_COLLECTION=products
//	QDRANT_USE_TLS=false
//	QDRANT_TIMEOUT=5s                # per request
//
// # Logging
//
// Messages are prefixed with "[Qdrant]" and emitted through logger.Logger.
//
// # Thread Safety
//
// QdrantClient is safe for concurrent use; the underlying gRPC connection
// is shared.
package qdrant
