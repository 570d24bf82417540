package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
)

// CatalogStore keeps products in the "products" collection, keyed by _id.
type CatalogStore struct {
	coll *mongo.Collection
}

var _ catalog.Store = (*CatalogStore)(nil)

func (s *CatalogStore) Count(ctx context.Context) (int64, error) {
	return s.coll.CountDocuments(ctx, bson.D{})
}

func (s *CatalogStore) List(ctx context.Context) ([]catalog.Product, error) {
	cur, err := s.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}

	products := make([]catalog.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return products, nil
}

func (s *CatalogStore) Get(ctx context.Context, id string) (catalog.Product, error) {
	var p catalog.Product
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return catalog.Product{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("find product %q: %w", id, err)
	}
	return p, nil
}

// ReplaceAll clears the collection and inserts products. It is not atomic:
// standalone servers have no multi-document transactions.
func (s *CatalogStore) ReplaceAll(ctx context.Context, products []catalog.Product) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	if len(products) == 0 {
		return nil
	}

	docs := make([]interface{}, len(products))
	for i, p := range products {
		docs[i] = p
	}
	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert products: %w", err)
	}
	return nil
}
