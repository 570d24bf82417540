package embedding

import (
	"fmt"
	"time"
)

// Config selects and configures the embedding provider.
//
// EMBEDDING_ENDPOINT must point to the root of an OpenAI-compatible inference
// service (no /embeddings appended). When it is empty the local hashing
// embedder is used, which needs no network and keeps search usable in
// development.
type Config struct {
	Endpoint     string `mapstructure:"endpoint"`
	ServiceToken string `mapstructure:"service_token"`
	Model        string `mapstructure:"model"`

	// HTTPTimeoutS is the per-request timeout in seconds (default 30).
	HTTPTimeoutS int `mapstructure:"http_timeout_seconds"`

	// Dimensions of the hashing embedder (default 256). Ignored by the
	// inference provider, whose vectors have the model's size.
	Dimensions int `mapstructure:"dimensions"`
}

const (
	defaultHTTPTimeoutS = 30
	defaultDimensions   = 256
)

// Remote reports whether the inference provider is configured.
func (c Config) Remote() bool {
	return c.Endpoint != ""
}

// Validate ensures the remote provider has everything it needs.
func (c Config) Validate() error {
	if !c.Remote() {
		if c.Dimensions < 0 {
			return fmt.Errorf("embedding: dimensions must be positive")
		}
		return nil
	}
	if c.ServiceToken == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_SERVICE_TOKEN")
	}
	if c.Model == "" {
		return fmt.Errorf("embedding: missing EMBEDDING_MODEL")
	}
	return nil
}

func (c Config) httpTimeout() time.Duration {
	if c.HTTPTimeoutS <= 0 {
		return defaultHTTPTimeoutS * time.Second
	}
	return time.Duration(c.HTTPTimeoutS) * time.Second
}

func (c Config) dimensions() int {
	if c.Dimensions == 0 {
		return defaultDimensions
	}
	return c.Dimensions
}
