package catalog

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/Aleph-Alpha/storefront/v1/connection"
	"github.com/Aleph-Alpha/storefront/v1/logger"
)

//go:embed seed/products.yaml
var defaultSeed []byte

type seedFile struct {
	Products []Product `yaml:"products"`
}

// LoadSeed decodes a YAML seed document and checks product IDs are present and unique.
func LoadSeed(data []byte) ([]Product, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f seedFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode seed data: %w", err)
	}
	if len(f.Products) == 0 {
		return nil, ErrEmptySeed
	}

	seen := make(map[string]struct{}, len(f.Products))
	for i, p := range f.Products {
		if p.ID == "" {
			return nil, fmt.Errorf("seed product %d has no id", i)
		}
		if _, dup := seen[p.ID]; dup {
			return nil, fmt.Errorf("seed product id %q is duplicated", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return f.Products, nil
}

// DefaultProducts returns the embedded baseline catalog.
func DefaultProducts() ([]Product, error) {
	return LoadSeed(defaultSeed)
}

// Seeder populates the baseline catalog.
type Seeder struct {
	products []Product
	logger   logger.Logger
}

// NewSeeder returns a Seeder for the embedded baseline catalog.
func NewSeeder(log logger.Logger) (*Seeder, error) {
	products, err := DefaultProducts()
	if err != nil {
		return nil, err
	}
	return NewSeederWithProducts(products, log), nil
}

// NewSeederWithProducts returns a Seeder for an explicit product list.
func NewSeederWithProducts(products []Product, log logger.Logger) *Seeder {
	return &Seeder{products: products, logger: log}
}

// Seed writes the baseline catalog into store.
//
//   - Force: always replaces the catalog and reports Seeded.
//   - SkipIfExists: leaves a non-empty catalog untouched and reports Skipped.
//   - Neither: replaces the catalog.
//
// An empty catalog is always seeded.
func (s *Seeder) Seed(ctx context.Context, store Store, opts SeedOptions) (SeedResult, error) {
	if len(s.products) == 0 {
		return SeedResult{}, ErrEmptySeed
	}

	if !opts.Force && opts.SkipIfExists {
		count, err := store.Count(ctx)
		if err != nil {
			return SeedResult{}, fmt.Errorf("count products: %w", err)
		}
		if count > 0 {
			s.logger.Debug("Catalog already populated, seed skipped", nil, map[string]interface{}{
				"existing": count,
			})
			return SeedResult{Skipped: true, Count: count}, nil
		}
	}

	if err := store.ReplaceAll(ctx, s.products); err != nil {
		return SeedResult{}, fmt.Errorf("write seed products: %w", err)
	}

	s.logger.Debug("Catalog seeded", nil, map[string]interface{}{
		"products": len(s.products),
		"force":    opts.Force,
	})
	return SeedResult{Seeded: true, Count: int64(len(s.products))}, nil
}

// SeedConnection resolves the catalog behind h and seeds it.
func (s *Seeder) SeedConnection(ctx context.Context, h connection.Handle, opts SeedOptions) (SeedResult, error) {
	store, err := StoreFrom(h)
	if err != nil {
		return SeedResult{}, err
	}
	return s.Seed(ctx, store, opts)
}
