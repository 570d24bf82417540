package embedding

import "context"

// Embedder turns texts into dense vectors, one per text and in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

var (
	_ Embedder = (*Client)(nil)
	_ Embedder = (*InferenceProvider)(nil)
	_ Embedder = (*HashingEmbedder)(nil)
)
