package qdrant

import "time"

// Config holds connection and behavior settings for the Qdrant client.
//
// Example (programmatic):
//
//	cfg := qdrant.DefaultConfig()
//	cfg.Endpoint = "localhost"
//	cfg.ApiKey = os.Getenv("QDRANT_API_KEY")
type Config struct {
	// Hostname of the Qdrant server, e.g. "localhost". Empty disables the
	// vector index; search then falls back to catalog matching.
	Endpoint string `mapstructure:"endpoint"`

	// gRPC port of the Qdrant server. Defaults to 6334.
	Port int `mapstructure:"port"`

	// Optional authentication token for secured deployments.
	ApiKey string `mapstructure:"api_key"`

	// Collection holding product vectors. Defaults to "products".
	Collection string `mapstructure:"collection"`

	// UseTLS enables TLS on the gRPC channel.
	UseTLS bool `mapstructure:"use_tls"`

	// Timeout bounds each request. Defaults to 5s.
	Timeout time.Duration `mapstructure:"timeout"`

	// Whether to perform version compatibility checks between client and server.
	CheckCompatibility bool `mapstructure:"check_compatibility"`
}

const (
	defaultPort       = 6334
	defaultCollection = "products"
	defaultTimeout    = 5 * time.Second
)

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Endpoint:   "localhost",
		Port:       defaultPort,
		Collection: defaultCollection,
		Timeout:    defaultTimeout,
	}
}

// Enabled reports whether a Qdrant endpoint is configured.
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}

func (c Config) withDefaults() Config {
	if c.Port == 0 {
		c.Port = defaultPort
	}
	if c.Collection == "" {
		c.Collection = defaultCollection
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
	return c
}
