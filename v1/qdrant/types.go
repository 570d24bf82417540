package qdrant

// Point is a vector with its payload. ID must be a UUID or an unsigned
// integer in decimal form.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// SearchResult is one scored hit.
type SearchResult struct {
	ID      string
	Score   float32
	Payload map[string]any
}
