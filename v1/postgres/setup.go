package postgres

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/connection"
)

// Dialer opens GORM sessions for postgres:// and postgresql:// URIs.
type Dialer struct {
	cfg Config
}

var _ connection.Dialer = (*Dialer)(nil)

// NewDialer returns a PostgreSQL Dialer.
func NewDialer(cfg Config) *Dialer {
	return &Dialer{cfg: cfg}
}

// Dial opens the pool, sizes it from opts and pings the server within
// opts.ServerSelectionTimeout.
func (d *Dialer) Dial(ctx context.Context, uri string, opts connection.Options) (connection.Handle, error) {
	db, err := gorm.Open(postgres.Open(uri), &gorm.Config{
		TranslateError:       true,
		DisableAutomaticPing: true,
		Logger:               gormlogger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgresSQL database: %w", err)
	}

	sess, err := openSession(ctx, db, d.cfg, opts)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}
	return sess, nil
}

// openSession configures the pool of an opened *gorm.DB, pings it and migrates
// the catalog schema.
func openSession(ctx context.Context, db *gorm.DB, cfg Config, opts connection.Options) (*Session, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get PostgresSQL database instance: %w", err)
	}

	if opts.MaxPoolSize > 0 {
		sqlDB.SetMaxOpenConns(int(opts.MaxPoolSize))
	}
	sqlDB.SetMaxIdleConns(max(int(opts.MinPoolSize), 1))
	sqlDB.SetConnMaxLifetime(cfg.connMaxLifetime())

	pingCtx := ctx
	if opts.ServerSelectionTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, opts.ServerSelectionTimeout)
		defer cancel()
	}
	if err := sqlDB.PingContext(pingCtx); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	sess := NewSession(db, opts)
	if !cfg.SkipMigration {
		if err := sess.Migrate(ctx); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// Session is the live PostgreSQL connection handle.
type Session struct {
	db       *gorm.DB
	products *CatalogStore
}

var (
	_ connection.Handle = (*Session)(nil)
	_ catalog.Provider  = (*Session)(nil)
)

// NewSession wraps an already opened *gorm.DB. Statements issued through the
// catalog store are bounded by opts.SocketTimeout.
func NewSession(db *gorm.DB, opts connection.Options) *Session {
	return &Session{
		db:       db,
		products: &CatalogStore{db: db, timeout: opts.SocketTimeout},
	}
}

// Ping checks the server is reachable.
func (s *Session) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Products returns the catalog store.
func (s *Session) Products() catalog.Store {
	return s.products
}

// DB returns the underlying *gorm.DB.
func (s *Session) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates the products table.
func (s *Session) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&productRecord{}); err != nil {
		return fmt.Errorf("failed to migrate catalog schema: %w", err)
	}
	return nil
}

// Transaction runs fn against a catalog store bound to a single transaction.
// The transaction is rolled back if fn returns an error.
func (s *Session) Transaction(ctx context.Context, fn func(store *CatalogStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(s.products.withTx(tx))
	})
}
