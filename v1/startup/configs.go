package startup

import "time"

// Options are the startup switches read from the environment.
type Options struct {
	// SkipSeed disables the seed stage (SKIP_SEED_ON_START).
	SkipSeed bool `mapstructure:"skip_seed_on_start"`

	// ForceSeed replaces the catalog even when it is populated (FORCE_SEED_ON_START).
	ForceSeed bool `mapstructure:"force_seed_on_start"`

	// Timeout bounds one orchestration pass (STARTUP_TIMEOUT, default 2m).
	Timeout time.Duration `mapstructure:"startup_timeout"`
}

const defaultTimeout = 2 * time.Minute

// PassTimeout is Timeout, or the default when unset.
func (o Options) PassTimeout() time.Duration {
	if o.Timeout <= 0 {
		return defaultTimeout
	}
	return o.Timeout
}
