package mongo

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
	"github.com/Aleph-Alpha/storefront/v1/connection"
)

// Dialer opens MongoDB sessions for mongodb:// and mongodb+srv:// URIs.
type Dialer struct {
	cfg Config
}

var _ connection.Dialer = (*Dialer)(nil)

// NewDialer returns a Dialer using cfg for settings the URI does not carry.
func NewDialer(cfg Config) *Dialer {
	return &Dialer{cfg: cfg}
}

// Dial connects and pings the primary. The ping is bounded by
// opts.ServerSelectionTimeout through the driver's server selection.
func (d *Dialer) Dial(ctx context.Context, uri string, opts connection.Options) (connection.Handle, error) {
	clientOpts := options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(opts.ServerSelectionTimeout).
		SetConnectTimeout(opts.ServerSelectionTimeout).
		SetSocketTimeout(opts.SocketTimeout).
		SetMaxPoolSize(opts.MaxPoolSize).
		SetMinPoolSize(opts.MinPoolSize)
	if d.cfg.AppName != "" {
		clientOpts.SetAppName(d.cfg.AppName)
	}

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to create MongoDB client: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to reach MongoDB primary: %w", err)
	}

	dbName := databaseFromURI(uri)
	if dbName == "" {
		dbName = d.cfg.database()
	}
	return newSession(client, dbName), nil
}

// Session is the live MongoDB connection handle.
type Session struct {
	client   *mongo.Client
	db       *mongo.Database
	products *CatalogStore
}

var (
	_ connection.Handle = (*Session)(nil)
	_ catalog.Provider  = (*Session)(nil)
)

func newSession(client *mongo.Client, dbName string) *Session {
	db := client.Database(dbName)
	return &Session{
		client:   client,
		db:       db,
		products: &CatalogStore{coll: db.Collection(productCollection)},
	}
}

// Ping checks the primary is reachable.
func (s *Session) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Products returns the catalog store of this session's database.
func (s *Session) Products() catalog.Store {
	return s.products
}

// Database returns the database this session is bound to.
func (s *Session) Database() *mongo.Database {
	return s.db
}

// databaseFromURI extracts the database path segment of a MongoDB URI.
// mongodb://user:pw@a:27017,b:27017/shop?replicaSet=rs0 -> "shop"
func databaseFromURI(uri string) string {
	_, rest, found := strings.Cut(uri, "://")
	if !found {
		return ""
	}
	rest, _, _ = strings.Cut(rest, "?")
	_, path, found := strings.Cut(rest, "/")
	if !found {
		return ""
	}
	return strings.Trim(path, "/")
}
