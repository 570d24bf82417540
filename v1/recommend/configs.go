package recommend

// Config tunes index sync and search.
type Config struct {
	// BatchSize is the number of products embedded per request (default 32).
	BatchSize int `mapstructure:"batch_size"`

	// Concurrency bounds parallel embedding requests (default 4).
	Concurrency int `mapstructure:"concurrency"`

	// DefaultLimit is used when a search asks for no limit (default 10).
	DefaultLimit int `mapstructure:"default_limit"`

	// MaxLimit caps search limits (default 50).
	MaxLimit int `mapstructure:"max_limit"`
}

func (c Config) withDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = 32
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.DefaultLimit <= 0 {
		c.DefaultLimit = 10
	}
	if c.MaxLimit <= 0 {
		c.MaxLimit = 50
	}
	return c
}
