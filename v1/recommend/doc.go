// Package recommend keeps the product vector index in sync with the catalog
// and serves similarity search over it.
//
// Sync embeds each product's Document() text in parallel batches (bounded by
// Config.Concurrency), ensures the collection matches the embedding size and
// upserts one point per product. Point IDs are name-based UUIDs of the
// product ID, so re-syncing overwrites rather than duplicates.
//
// Search embeds the query and asks the index for the nearest products. When
// the index is not configured or fails, it falls back to keyword matching
// against the catalog store so the route keeps answering.
package recommend
