package config

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/embedding"
	"github.com/Aleph-Alpha/storefront/v1/execmode"
	"github.com/Aleph-Alpha/storefront/v1/logger"
	"github.com/Aleph-Alpha/storefront/v1/metrics"
	"github.com/Aleph-Alpha/storefront/v1/mongo"
	"github.com/Aleph-Alpha/storefront/v1/postgres"
	"github.com/Aleph-Alpha/storefront/v1/qdrant"
	"github.com/Aleph-Alpha/storefront/v1/recommend"
	"github.com/Aleph-Alpha/storefront/v1/server"
	"github.com/Aleph-Alpha/storefront/v1/startup"
	"github.com/Aleph-Alpha/storefront/v1/tracer"
)

// FXModule splits a supplied *Config into the per-package sections the
// other modules depend on.
var FXModule = fx.Module("config",
	fx.Provide(ProvideSections),
)

// Sections is the fx.Out view of a Config.
type Sections struct {
	fx.Out

	Mode       execmode.Mode
	Logger     logger.Config
	Connection connection.Config
	Mongo      mongo.Config
	Postgres   postgres.Config
	Startup    startup.Options
	Server     server.Config
	Qdrant     qdrant.Config
	Embedding  embedding.Config
	Recommend  recommend.Config
	Metrics    metrics.Config
	Tracer     tracer.Config
}

func ProvideSections(c *Config) Sections {
	return Sections{
		Mode:       c.Mode,
		Logger:     c.Logger,
		Connection: c.Connection,
		Mongo:      c.Mongo,
		Postgres:   c.Postgres,
		Startup:    c.Startup,
		Server:     c.Server,
		Qdrant:     c.Qdrant,
		Embedding:  c.Embedding,
		Recommend:  c.Recommend,
		Metrics:    c.Metrics,
		Tracer:     c.Tracer,
	}
}
