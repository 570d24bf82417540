package embedding

import (
	"context"

	"go.uber.org/fx"
)

// FXModule wires the embedding client into Fx.
//
// It provides:
//   - *Client                (NewClient, requires Config)
//   - Embedder               (the *Client)
//   - Lifecycle hook         (RegisterEmbeddingLifecycle)
var FXModule = fx.Module(
	"embedding",

	fx.Provide(
		NewClient,
		ProvideEmbedder,
	),

	fx.Invoke(RegisterEmbeddingLifecycle),
)

// ProvideEmbedder exposes the *Client as Embedder so consumers depend on the
// interface.
func ProvideEmbedder(c *Client) Embedder {
	return c
}

// RegisterEmbeddingLifecycle closes the Client on application shutdown.
func RegisterEmbeddingLifecycle(lc fx.Lifecycle, client *Client) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
