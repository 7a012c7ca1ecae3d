// Package mock provides a deterministic embedder for tests. It hashes
// each word into a fixed dimension, so texts sharing words produce
// similar vectors and retrieval tests rank realistically without a
// model file.
package mock

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// Embedder generates deterministic bag-of-hashed-words embeddings.
type Embedder struct {
	dimensions int
}

// New creates a mock embedder with 384 dimensions, matching
// all-MiniLM-L6-v2.
func New() *Embedder {
	return &Embedder{dimensions: 384}
}

// Embed hashes each lowercase alphanumeric token of text into a
// vector dimension and returns the normalized sum. Identical texts
// always produce identical vectors; texts with overlapping tokens
// produce vectors with positive cosine similarity.
func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embedding := make([]float32, m.dimensions)

	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		h := fnv.New64a()
		h.Write([]byte(word))
		hash := h.Sum64()

		idx := int(hash % uint64(m.dimensions))
		if hash&(1<<63) != 0 {
			embedding[idx]--
		} else {
			embedding[idx]++
		}
	}

	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (m *Embedder) Dimensions() int {
	return m.dimensions
}

// normalize converts the vector to unit length.
func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	for i, v := range vec {
		vec[i] = v / norm
	}
	return vec
}
