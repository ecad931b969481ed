// Package static provides a deterministic offline embedder. Vectors are
// derived from a content hash, so identical text always maps to the same
// vector while distinct texts map to unrelated ones. Useful for tests and for
// running comparisons without network access, where grouping effectively
// reduces to exact-duplicate matching plus the lexical fallback.
package static

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

const defaultDimensions = 16

// Embedder implements the normalizer's embedding port without external calls.
type Embedder struct {
	dimensions int
}

// NewEmbedder constructs a static embedder. dimensions <= 0 uses the default.
func NewEmbedder(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = defaultDimensions
	}
	return &Embedder{dimensions: dimensions}
}

// Embed returns a unit vector derived from the sha256 of text.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vector := make([]float32, e.dimensions)
	seed := sha256.Sum256([]byte(text))

	// Stretch the hash over the requested dimensionality by re-hashing.
	block := seed
	for i := 0; i < e.dimensions; i++ {
		word := i * 8 % len(block)
		if i > 0 && word == 0 {
			block = sha256.Sum256(block[:])
		}
		bits := binary.BigEndian.Uint64(block[word : word+8])
		// Map to [-1, 1].
		vector[i] = float32(float64(int64(bits)) / math.MaxInt64)
	}

	normalize(vector)
	return vector, nil
}

func normalize(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
}
