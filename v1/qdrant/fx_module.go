package qdrant

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storefront/v1/logger"
)

// FXModule provides *QdrantClient and closes it on shutdown.
var FXModule = fx.Module("qdrant",
	fx.Provide(NewQdrantClientWithDI),
	fx.Invoke(RegisterQdrantLifecycle),
)

// QdrantParams groups the dependencies of NewQdrantClientWithDI.
type QdrantParams struct {
	fx.In

	Config Config
	Logger logger.Logger
}

// NewQdrantClientWithDI builds the client from injected dependencies.
func NewQdrantClientWithDI(p QdrantParams) (*QdrantClient, error) {
	return NewQdrantClient(p.Config, p.Logger)
}

// RegisterQdrantLifecycle closes the gRPC connection on stop.
func RegisterQdrantLifecycle(lc fx.Lifecycle, client *QdrantClient) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
}
