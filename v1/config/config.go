package config

import (
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

// Config is the complete process configuration.
//
// Sources, highest precedence first:
//  1. Environment variables
//  2. The optional .env file
//  3. Defaults
type Config struct {
	// Mode is resolved once by execmode.Detect and never changes.
	Mode execmode.Mode `validate:"oneof=traditional serverless"`

	// Production is true when NODE_ENV or APP_ENV is "production".
	Production bool

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

// Environment variables read by Load.
const (
	EnvPort        = "PORT"
	EnvHost        = "HOST"
	EnvNodeEnv     = "NODE_ENV"
	EnvAppEnv      = "APP_ENV"
	EnvServiceName = "SERVICE_NAME"
	EnvLogLevel    = "LOG_LEVEL"

	EnvSkipSeed       = "SKIP_SEED_ON_START"
	EnvForceSeed      = "FORCE_SEED_ON_START"
	EnvStartupTimeout = "STARTUP_TIMEOUT"

	EnvMongoURI                 = "MONGO_URI"
	EnvDatabaseURI              = "DATABASE_URI"
	EnvDBName                   = "DB_NAME"
	EnvDBMaxPoolSize            = "DB_MAX_POOL_SIZE"
	EnvDBMinPoolSize            = "DB_MIN_POOL_SIZE"
	EnvDBServerSelectionTimeout = "DB_SERVER_SELECTION_TIMEOUT"
	EnvDBSocketTimeout          = "DB_SOCKET_TIMEOUT"
	EnvDBConnMaxLifetime        = "DB_CONN_MAX_LIFETIME"
	EnvDBSkipMigration          = "DB_SKIP_MIGRATION"

	EnvQdrantEndpoint   = "QDRANT_ENDPOINT"
	EnvQdrantPort       = "QDRANT_PORT"
	EnvQdrantAPIKey     = "QDRANT_API_KEY"
	EnvQdrantCollection = "QDRANT_COLLECTION"
	EnvQdrantUseTLS     = "QDRANT_USE_TLS"
	EnvQdrantTimeout    = "QDRANT_TIMEOUT"

	EnvEmbeddingEndpoint   = "EMBEDDING_ENDPOINT"
	EnvEmbeddingToken      = "EMBEDDING_SERVICE_TOKEN"
	EnvEmbeddingModel      = "EMBEDDING_MODEL"
	EnvEmbeddingTimeout    = "EMBEDDING_HTTP_TIMEOUT_SECONDS"
	EnvEmbeddingDimensions = "EMBEDDING_DIMENSIONS"

	EnvIndexBatchSize     = "INDEX_BATCH_SIZE"
	EnvIndexConcurrency   = "INDEX_CONCURRENCY"
	EnvSearchDefaultLimit = "SEARCH_DEFAULT_LIMIT"
	EnvSearchMaxLimit     = "SEARCH_MAX_LIMIT"

	EnvMetricsAddress           = "METRICS_ADDRESS"
	EnvMetricsDefaultCollectors = "METRICS_DEFAULT_COLLECTORS"

	EnvOTelExportEnabled = "OTEL_EXPORT_ENABLED"
	EnvOTelEndpoint      = "OTEL_EXPORTER_OTLP_ENDPOINT"
)

const (
	defaultServiceName = "storefront"
	defaultEnvFile     = ".env"
)
