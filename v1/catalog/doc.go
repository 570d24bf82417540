// Package catalog defines the product model, the Store contract the database
// backends implement, and the Seeder that installs the baseline catalog.
//
// Seeding is idempotent when SkipIfExists is set: a populated catalog is left
// untouched. Force always rewrites it.
//
//	seeder, _ := catalog.NewSeeder(log)
//	res, err := seeder.Seed(ctx, store, catalog.SeedOptions{SkipIfExists: true})
package catalog
