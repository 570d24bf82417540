package catalog

import "strings"

// Product is a catalog entry as stored in the database and returned by the
// products routes.
type Product struct {
	ID          string   `json:"id" bson:"_id" yaml:"id"`
	Name        string   `json:"name" bson:"name" yaml:"name"`
	Description string   `json:"description" bson:"description" yaml:"description"`
	Category    string   `json:"category" bson:"category" yaml:"category"`
	Price       float64  `json:"price" bson:"price" yaml:"price"`
	Image       string   `json:"image,omitempty" bson:"image,omitempty" yaml:"image"`
	Stock       int      `json:"stock" bson:"stock" yaml:"stock"`
	Tags        []string `json:"tags,omitempty" bson:"tags,omitempty" yaml:"tags"`
}

// Document is the text used to embed a product for similarity search.
func (p Product) Document() string {
	parts := []string{p.Name, p.Category, p.Description}
	if len(p.Tags) > 0 {
		parts = append(parts, strings.Join(p.Tags, " "))
	}
	return strings.Join(parts, "\n")
}

// SeedOptions controls how Seeder.Seed treats an existing catalog.
type SeedOptions struct {
	// Force replaces the catalog even if it already has products.
	Force bool

	// SkipIfExists leaves a populated catalog untouched.
	SkipIfExists bool
}

// SeedResult reports what a seed run did.
type SeedResult struct {
	Seeded  bool
	Skipped bool
	// Count is the number of products written, or found when skipped.
	Count int64
}
