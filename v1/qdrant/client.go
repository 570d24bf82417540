package qdrant

import (
	"context"
	"fmt"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/Aleph-Alpha/storefront/v1/logger"
)

// QdrantClient wraps the official Qdrant Go client and manages the product
// vector collection.
type QdrantClient struct {
	api    *qdrant.Client
	cfg    Config
	logger logger.Logger
}

const defaultBatchSize = 200 // chunk size for upserts

// NewQdrantClient constructs a client. The SDK dials gRPC lazily, so no
// request is made here; use HealthCheck to probe the server.
func NewQdrantClient(cfg Config, log logger.Logger) (*QdrantClient, error) {
	cfg = cfg.withDefaults()

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:                   cfg.Endpoint,
		Port:                   cfg.Port,
		APIKey:                 cfg.ApiKey,
		UseTLS:                 cfg.UseTLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("[Qdrant] failed to initialize client: %w", err)
	}

	log.Info("[Qdrant] client configured", nil, map[string]interface{}{
		"endpoint":   cfg.Endpoint,
		"port":       cfg.Port,
		"collection": cfg.Collection,
	})

	return &QdrantClient{api: client, cfg: cfg, logger: log}, nil
}

// HealthCheck verifies the availability of the Qdrant service.
func (c *QdrantClient) HealthCheck(ctx context.Context) error {
	ctx, cancel := c.bound(ctx)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("[Qdrant] health check failed: %w", err)
	}

	c.logger.Debug("[Qdrant] health check passed", nil, map[string]interface{}{
		"title":   resp.GetTitle(),
		"version": resp.GetVersion(),
	})
	return nil
}

// Close closes the gRPC connection.
func (c *QdrantClient) Close() error {
	c.logger.Info("[Qdrant] closing client", nil)
	return c.api.Close()
}

func (c *QdrantClient) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.cfg.Timeout)
}
