package embedder_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meneportal/ltm-bridge/embedder"
	"github.com/meneportal/ltm-bridge/embedder/mock"
)

// countingEmbedder records how often the inner embedder runs.
type countingEmbedder struct {
	inner *mock.Embedder
	calls int
}

func (c *countingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	c.calls++
	return c.inner.Embed(ctx, text)
}

func (c *countingEmbedder) Dimensions() int {
	return c.inner.Dimensions()
}

func TestCached_AvoidsReembedding(t *testing.T) {
	ctx := context.Background()
	counting := &countingEmbedder{inner: mock.New()}

	cached, err := embedder.NewCached(counting)
	require.NoError(t, err)
	assert.Equal(t, 384, cached.Dimensions())

	first, err := cached.Embed(ctx, "the same text")
	require.NoError(t, err)
	require.Len(t, first, 384)

	// ristretto admits asynchronously; give the set buffer a moment,
	// then repeated calls must stop reaching the inner embedder and
	// always return the same vector.
	time.Sleep(50 * time.Millisecond)
	for i := 0; i < 50; i++ {
		vec, err := cached.Embed(ctx, "the same text")
		require.NoError(t, err)
		assert.Equal(t, first, vec)
	}
	assert.Less(t, counting.calls, 51)
}

func TestMockEmbedder_DeterministicAndSimilar(t *testing.T) {
	ctx := context.Background()
	m := mock.New()

	a1, err := m.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	a2, err := m.Embed(ctx, "the quick brown fox")
	require.NoError(t, err)
	assert.Equal(t, a1, a2)

	related, err := m.Embed(ctx, "a quick brown dog")
	require.NoError(t, err)
	unrelated, err := m.Embed(ctx, "submarine volcano eruption")
	require.NoError(t, err)

	assert.Greater(t, dot(a1, related), dot(a1, unrelated))
}

func dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
