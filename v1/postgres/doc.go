// Package postgres is the PostgreSQL catalog backend built on GORM.
//
// The package offers a connection.Dialer for postgres:// and postgresql://
// URIs and a catalog.Store over the products table. It is an alternative to
// the MongoDB backend; the connection manager picks one by URI scheme.
//
// Core Features:
//   - Pool sizing from connection.Options (max open, idle floor, lifetime)
//   - Bounded initial ping so an unreachable server fails the attempt quickly
//   - Catalog schema migration on connect
//   - Transactional catalog replacement for seeding
//   - Statement timeouts derived from the socket timeout
//
// # Architecture
//
//   - Dialer: implements connection.Dialer, returns a *Session
//   - Session: the connection.Handle; owns the *gorm.DB
//   - CatalogStore: implements catalog.Store over the products table
//
// # Basic Usage
//
//	import (
//		"github.com/Aleph-Alpha/storefront/v1/connection"
//		"github.com/Aleph-Alpha/storefront/v1/postgres"
//	)
//
//	router := connection.SchemeRouter{}
//	for _, s := range postgres.Schemes {
//		router[s] = postgres.NewDialer(postgres.Config{})
//	}
//	manager := connection.NewManager(router, "postgres://user:pw@db:5432/shop", opts, log)
//
//	h, err := manager.EnsureConnected(ctx)
//	if err != nil {
//		return err
//	}
//	store, _ := catalog.StoreFrom(h)
//	products, err := store.List(ctx)
//
// # Pool Tuning
//
// Dial maps connection.Options onto database/sql pool settings:
//
//	MaxPoolSize            -> SetMaxOpenConns
//	MinPoolSize            -> SetMaxIdleConns (at least 1)
//	ServerSelectionTimeout -> bound of the initial ping
//	SocketTimeout          -> per-statement context timeout in CatalogStore
//
// In serverless mode the manager caps MaxPoolSize at 1, so each instance
// holds a single connection.
//
// # Transactions
//
// Session.Transaction runs a function against a store bound to one
// transaction and rolls back if it returns an error:
//
//	err := session.Transaction(ctx, func(store *postgres.CatalogStore) error {
//		return store.ReplaceAll(ctx, products)
//	})
//
// ReplaceAll itself already runs in a transaction, so a failed seed never
// leaves a half-written catalog.
//
// # Schema
//
// The products table has one row per product. Tags are stored as a JSON
// array in a text column through GORM's json serializer, so tag values may
// contain any characters.
//
// Tests run the same store against an in-memory SQLite database:
//
//	db, _ := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
//	session := postgres.NewSession(db, connection.Options{})
//	_ = session.Migrate(ctx)
//
// # Configuration
//
//	DATABASE_URI=postgres://user:pw@db:5432/shop
//	DB_CONN_MAX_LIFETIME=1m     # recycle pooled connections
//	DB_SKIP_MIGRATION=false     # skip AutoMigrate on connect
//
// # Thread Safety
//
// Session and CatalogStore are safe for concurrent use.
package postgres
