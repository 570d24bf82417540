package embedding

import (
	"context"
	"fmt"
)

// Client is the public entrypoint for computing embeddings.
//
// It hides the provider choice (remote inference or local hashing) from the
// application layer.
type Client struct {
	provider Embedder
}

// NewClient validates cfg and constructs the matching provider.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("embedding: invalid config: %w", err)
	}

	if !cfg.Remote() {
		return &Client{provider: NewHashingEmbedder(cfg.dimensions())}, nil
	}

	p, err := newInferenceProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("embedding: failed to create provider: %w", err)
	}
	return &Client{provider: p}, nil
}

// Embed executes a single embedding request.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	return c.provider.Embed(ctx, texts)
}

// Close releases provider resources, if the provider holds any.
func (c *Client) Close() error {
	if closer, ok := c.provider.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}
