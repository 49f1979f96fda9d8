package hash

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
	"math/rand"
)

// Embedder produces deterministic pseudo-random unit vectors seeded from a
// SHA-256 of the input text. It lets the engine run offline (and tests run
// hermetically) while preserving the property that identical texts map to
// identical vectors.
type Embedder struct {
	dimension int
}

// NewEmbedder creates a deterministic local embedder of the given
// dimension. Non-positive dimensions fall back to 1024.
func NewEmbedder(dimension int) *Embedder {
	if dimension <= 0 {
		dimension = 1024
	}
	return &Embedder{dimension: dimension}
}

// Dimension returns the configured vector dimension.
func (e *Embedder) Dimension() int { return e.dimension }

// EmbedBatch embeds each text independently; it never fails.
func (e *Embedder) EmbedBatch(_ context.Context, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *Embedder) embed(text string) []float64 {
	sum := sha256.Sum256([]byte(text))
	seed := int64(binary.BigEndian.Uint64(sum[:8]))
	rng := rand.New(rand.NewSource(seed))

	vec := make([]float64, e.dimension)
	norm := 0.0
	for i := range vec {
		vec[i] = rng.Float64()*2 - 1
		norm += vec[i] * vec[i]
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		norm = 1
	}
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}
