package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// HashingEmbedder maps tokens into a fixed number of buckets (feature hashing)
// and L2-normalises the counts. Texts sharing words get a positive cosine
// similarity, which is enough for catalog search without a model.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder returns an embedder producing vectors of size dims.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = defaultDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// Dimensions returns the vector size.
func (h *HashingEmbedder) Dimensions() int {
	return h.dims
}

func (h *HashingEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = h.vector(text)
	}
	return out, nil
}

func (h *HashingEmbedder) vector(text string) []float32 {
	vec := make([]float32, h.dims)
	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	for _, tok := range tokens {
		f := fnv.New32a()
		_, _ = f.Write([]byte(tok))
		sum := f.Sum32()

		// The top bit picks the sign so collisions tend to cancel out.
		sign := float32(1)
		if sum&(1<<31) != 0 {
			sign = -1
		}
		vec[int(sum%uint32(h.dims))] += sign
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec
}
