package catalog

import "errors"

var (
	// ErrNotFound is returned when a product does not exist.
	ErrNotFound = errors.New("product not found")

	// ErrUnsupportedHandle is returned when a connection handle cannot serve a catalog.
	ErrUnsupportedHandle = errors.New("connection handle does not provide a catalog store")

	// ErrEmptySeed is returned when the seed source has no products.
	ErrEmptySeed = errors.New("seed data is empty")
)
