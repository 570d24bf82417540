package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/Aleph-Alpha/storefront/v1/catalog"
)

// productRecord is the row layout of the products table. Tags are stored as
// a JSON array so any tag text survives, matching the document backend.
type productRecord struct {
	ID          string `gorm:"primaryKey;size:64"`
	Name        string `gorm:"not null"`
	Description string
	Category    string `gorm:"index"`
	Price       float64
	Image       string
	Stock       int
	Tags        []string `gorm:"serializer:json"`
}

func (productRecord) TableName() string { return "products" }

func toRecord(p catalog.Product) productRecord {
	return productRecord{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       p.Price,
		Image:       p.Image,
		Stock:       p.Stock,
		Tags:        p.Tags,
	}
}

func (r productRecord) product() catalog.Product {
	return catalog.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Price:       r.Price,
		Image:       r.Image,
		Stock:       r.Stock,
		Tags:        r.Tags,
	}
}

// CatalogStore keeps products in the products table.
type CatalogStore struct {
	db      *gorm.DB
	timeout time.Duration
}

var _ catalog.Store = (*CatalogStore)(nil)

func (s *CatalogStore) withTx(tx *gorm.DB) *CatalogStore {
	return &CatalogStore{db: tx, timeout: s.timeout}
}

func (s *CatalogStore) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *CatalogStore) Count(ctx context.Context) (int64, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var n int64
	if err := s.db.WithContext(ctx).Model(&productRecord{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return n, nil
}

func (s *CatalogStore) List(ctx context.Context) ([]catalog.Product, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var records []productRecord
	if err := s.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	products := make([]catalog.Product, len(records))
	for i, r := range records {
		products[i] = r.product()
	}
	return products, nil
}

func (s *CatalogStore) Get(ctx context.Context, id string) (catalog.Product, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var r productRecord
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return catalog.Product{}, catalog.ErrNotFound
	}
	if err != nil {
		return catalog.Product{}, fmt.Errorf("get product %q: %w", id, err)
	}
	return r.product(), nil
}

// ReplaceAll swaps the catalog inside one transaction.
func (s *CatalogStore) ReplaceAll(ctx context.Context, products []catalog.Product) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	records := make([]productRecord, len(products))
	for i, p := range products {
		records[i] = toRecord(p)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&productRecord{}).Error; err != nil {
			return fmt.Errorf("clear products: %w", err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, 100).Error; err != nil {
			return fmt.Errorf("insert products: %w", err)
		}
		return nil
	})
}
