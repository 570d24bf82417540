package connection

import (
	"time"

	"github.com/Aleph-Alpha/storefront/v1/execmode"
)

// Options are the per-dial tuning knobs handed to a Dialer.
type Options struct {
	ServerSelectionTimeout time.Duration
	SocketTimeout          time.Duration
	MaxPoolSize            uint64
	MinPoolSize            uint64
}

// Config is the database section of the process configuration.
//
// Zero-valued tuning fields keep the mode defaults from TuningFor.
type Config struct {
	// URI selects both the store and the dialer, e.g. mongodb://host/db or postgres://...
	URI string `mapstructure:"uri" validate:"required"`

	MaxPoolSize            uint64        `mapstructure:"max_pool_size"`
	MinPoolSize            uint64        `mapstructure:"min_pool_size"`
	ServerSelectionTimeout time.Duration `mapstructure:"server_selection_timeout"`
	SocketTimeout          time.Duration `mapstructure:"socket_timeout"`
}

// TuningFor returns the default dial options for a mode.
//
// Serverless platforms cap concurrent connections per instance, so a warm
// instance holds a single pooled session and fails fast on selection.
func TuningFor(mode execmode.Mode) Options {
	if mode.IsServerless() {
		return Options{
			ServerSelectionTimeout: 5 * time.Second,
			SocketTimeout:          45 * time.Second,
			MaxPoolSize:            1,
			MinPoolSize:            1,
		}
	}
	return Options{
		ServerSelectionTimeout: 30 * time.Second,
		SocketTimeout:          30 * time.Second,
		MaxPoolSize:            20,
		MinPoolSize:            2,
	}
}

// OptionsFor applies the non-zero overrides of c on top of TuningFor(mode).
// Under Serverless the pool is never allowed above one session.
func (c Config) OptionsFor(mode execmode.Mode) Options {
	opts := TuningFor(mode)

	if c.ServerSelectionTimeout > 0 {
		opts.ServerSelectionTimeout = c.ServerSelectionTimeout
	}
	if c.SocketTimeout > 0 {
		opts.SocketTimeout = c.SocketTimeout
	}
	if c.MaxPoolSize > 0 {
		opts.MaxPoolSize = c.MaxPoolSize
	}
	if c.MinPoolSize > 0 {
		opts.MinPoolSize = c.MinPoolSize
	}

	if mode.IsServerless() {
		opts.MaxPoolSize = 1
		opts.MinPoolSize = min(opts.MinPoolSize, 1)
	}
	if opts.MinPoolSize > opts.MaxPoolSize {
		opts.MinPoolSize = opts.MaxPoolSize
	}
	return opts
}
