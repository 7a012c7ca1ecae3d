// Package embedder defines the text-to-vector capability the vector
// store depends on. The similarity model itself is an external
// capability; implementations here only adapt it.
package embedder

import (
	"context"
	"fmt"

	"github.com/dgraph-io/ristretto"
)

// Embedder converts text to vector embeddings.
// Implementations: mock.Embedder (testing), onnx.Embedder (local
// all-MiniLM-L6-v2 model, build tag "onnx").
type Embedder interface {
	// Embed converts a single text to an embedding vector.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int
}

// Cached wraps an Embedder with a ristretto cache keyed by the exact
// input text. Ingestion re-embeds identical chunk text often enough
// (re-ingested files, repeated queries) that the cache pays for itself.
type Cached struct {
	inner Embedder
	cache *ristretto.Cache
}

// NewCached creates a caching wrapper around inner.
func NewCached(inner Embedder) (*Cached, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     64 << 20, // 64 MiB of vectors
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}
	return &Cached{inner: inner, cache: cache}, nil
}

// Embed returns the cached vector for text, embedding on miss.
func (c *Cached) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := c.cache.Get(text); ok {
		if vec, ok := v.([]float32); ok {
			return vec, nil
		}
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	c.cache.Set(text, vec, int64(len(vec)*4))
	return vec, nil
}

// Dimensions returns the wrapped embedder's vector size.
func (c *Cached) Dimensions() int {
	return c.inner.Dimensions()
}
