package postgres

import "time"

// Config holds PostgreSQL settings that are not carried by the URI or by
// connection.Options.
type Config struct {
	// ConnMaxLifetime recycles pooled connections. Defaults to one minute.
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`

	// SkipMigration disables the catalog schema migration on connect.
	SkipMigration bool `mapstructure:"skip_migration"`
}

const defaultConnMaxLifetime = time.Minute

func (c Config) connMaxLifetime() time.Duration {
	if c.ConnMaxLifetime == 0 {
		return defaultConnMaxLifetime
	}
	return c.ConnMaxLifetime
}
