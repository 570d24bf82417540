package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Aleph-Alpha/storefront/v1/execmode"
	"github.com/Aleph-Alpha/storefront/v1/server"
)

// Load reads the configuration from the environment and the optional env
// file at envFile. An empty envFile means ".env" in the working directory.
// A missing file is not an error.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	if err := readEnvFile(v, envFile); err != nil {
		return nil, err
	}
	v.AutomaticEnv()
	setDefaults(v)

	cfg, err := build(v)
	if err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks struct tags and the section-level rules.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	return cfg.Embedding.Validate()
}

func readEnvFile(v *viper.Viper, path string) error {
	if path == "" {
		path = defaultEnvFile
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	v.SetConfigFile(path)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(key(EnvPort), 8000)
	v.SetDefault(key(EnvHost), "0.0.0.0")
	v.SetDefault(key(EnvServiceName), defaultServiceName)
	v.SetDefault(key(EnvLogLevel), "info")
	v.SetDefault(key(EnvStartupTimeout), "2m")
	v.SetDefault(key(EnvQdrantCollection), "products")
}

// key is the viper key of an environment variable.
func key(env string) string {
	return strings.ToLower(env)
}

// lookup adapts v to execmode.LookupFunc.
func lookup(v *viper.Viper) execmode.LookupFunc {
	return func(env string) (string, bool) {
		if !v.IsSet(key(env)) {
			return "", false
		}
		return v.GetString(key(env)), true
	}
}

// first returns the value of the first set variable among envs.
func first(v *viper.Viper, envs ...string) string {
	for _, env := range envs {
		if v.IsSet(key(env)) {
			return v.GetString(key(env))
		}
	}
	return ""
}

func build(v *viper.Viper) (*Config, error) {
	var errs []error
	dur := func(env string) time.Duration {
		d, err := parseDuration(v.GetString(key(env)))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", env, err))
		}
		return d
	}

	mode := execmode.Detect(lookup(v))
	production := strings.EqualFold(first(v, EnvNodeEnv, EnvAppEnv), "production")
	appEnv := first(v, EnvNodeEnv, EnvAppEnv)
	if appEnv == "" {
		appEnv = "development"
	}
	service := v.GetString(key(EnvServiceName))

	cfg := &Config{Mode: mode, Production: production}

	cfg.Logger.Level = strings.ToLower(v.GetString(key(EnvLogLevel)))
	cfg.Logger.ServiceName = service
	cfg.Logger.Development = !production

	cfg.Connection.URI = first(v, EnvMongoURI, EnvDatabaseURI)
	cfg.Connection.MaxPoolSize = v.GetUint64(key(EnvDBMaxPoolSize))
	cfg.Connection.MinPoolSize = v.GetUint64(key(EnvDBMinPoolSize))
	cfg.Connection.ServerSelectionTimeout = dur(EnvDBServerSelectionTimeout)
	cfg.Connection.SocketTimeout = dur(EnvDBSocketTimeout)

	cfg.Mongo.Database = v.GetString(key(EnvDBName))
	cfg.Mongo.AppName = service

	cfg.Postgres.ConnMaxLifetime = dur(EnvDBConnMaxLifetime)
	cfg.Postgres.SkipMigration = v.GetBool(key(EnvDBSkipMigration))

	cfg.Startup.SkipSeed = v.GetBool(key(EnvSkipSeed))
	cfg.Startup.ForceSeed = v.GetBool(key(EnvForceSeed))
	cfg.Startup.Timeout = dur(EnvStartupTimeout)

	cfg.Server = server.Config{
		Host:          v.GetString(key(EnvHost)),
		Port:          v.GetInt(key(EnvPort)),
		LambdaRuntime: v.IsSet(key(execmode.EnvLambdaRuntimeAPI)),
	}

	cfg.Qdrant.Endpoint = v.GetString(key(EnvQdrantEndpoint))
	cfg.Qdrant.Port = v.GetInt(key(EnvQdrantPort))
	cfg.Qdrant.ApiKey = v.GetString(key(EnvQdrantAPIKey))
	cfg.Qdrant.Collection = v.GetString(key(EnvQdrantCollection))
	cfg.Qdrant.UseTLS = v.GetBool(key(EnvQdrantUseTLS))
	cfg.Qdrant.Timeout = dur(EnvQdrantTimeout)

	cfg.Embedding.Endpoint = v.GetString(key(EnvEmbeddingEndpoint))
	cfg.Embedding.ServiceToken = v.GetString(key(EnvEmbeddingToken))
	cfg.Embedding.Model = v.GetString(key(EnvEmbeddingModel))
	cfg.Embedding.HTTPTimeoutS = v.GetInt(key(EnvEmbeddingTimeout))
	cfg.Embedding.Dimensions = v.GetInt(key(EnvEmbeddingDimensions))

	cfg.Recommend.BatchSize = v.GetInt(key(EnvIndexBatchSize))
	cfg.Recommend.Concurrency = v.GetInt(key(EnvIndexConcurrency))
	cfg.Recommend.DefaultLimit = v.GetInt(key(EnvSearchDefaultLimit))
	cfg.Recommend.MaxLimit = v.GetInt(key(EnvSearchMaxLimit))

	cfg.Metrics.Address = v.GetString(key(EnvMetricsAddress))
	cfg.Metrics.EnableDefaultCollectors = v.GetBool(key(EnvMetricsDefaultCollectors))
	cfg.Metrics.Namespace = strings.ReplaceAll(service, "-", "_")
	cfg.Metrics.ServiceName = service

	cfg.Tracer.ServiceName = service
	cfg.Tracer.AppEnv = appEnv
	cfg.Tracer.EnableExport = v.GetBool(key(EnvOTelExportEnabled))
	cfg.Tracer.EndpointURL = v.GetString(key(EnvOTelEndpoint))

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

// parseDuration accepts Go durations ("30s") and bare integers, which are
// milliseconds ("30000"). Empty is zero.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		if ms < 0 {
			return 0, fmt.Errorf("negative duration %q", s)
		}
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %q", s)
	}
	return d, nil
}
