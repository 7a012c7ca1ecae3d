package chromem_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meneportal/ltm-bridge/embedder/mock"
	"github.com/meneportal/ltm-bridge/processor"
	"github.com/meneportal/ltm-bridge/store"
	"github.com/meneportal/ltm-bridge/store/chromem"
)

func newTestStore(t *testing.T, path string) *chromem.Store {
	t.Helper()
	proc, err := processor.NewWithConfig(processor.Config{ChunkSize: 20, ChunkOverlap: 5})
	require.NoError(t, err)

	s, err := chromem.New(chromem.Config{
		Path:      path,
		Embedder:  mock.New(),
		Processor: proc,
	})
	require.NoError(t, err)
	return s
}

func writeDoc(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAddDocumentAndSearch_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	filler := strings.Repeat("filler words about nothing in particular ", 10)
	path := writeDoc(t, "doc.txt", filler+" the zebra quantum reactor overheated yesterday "+filler)

	added, err := s.AddDocument(ctx, path, "documents")
	require.NoError(t, err)
	assert.Greater(t, added, 0)

	results, err := s.Search(ctx, "documents", "zebra quantum reactor", 3, nil)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Contains(t, results[0].Text, "zebra")
	assert.Equal(t, path, results[0].Source)
}

func TestSearch_EmptyCollectionIsNotAnError(t *testing.T) {
	s := newTestStore(t, "")

	results, err := s.Search(context.Background(), "documents", "anything", 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_LimitAndOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	entries := []string{
		"apples and oranges at the market",
		"the stock market crashed on tuesday",
		"market analysis of fruit prices",
		"a treatise on medieval castles",
		"gardening tips for dry climates",
	}
	for i, text := range entries {
		require.NoError(t, s.Add(ctx, "documents", "e"+string(rune('0'+i)), text, map[string]string{"source": "inline"}))
	}

	results, err := s.Search(ctx, "documents", "market prices", 3, nil)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), 3)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Relevance, results[i].Relevance)
	}
}

func TestSearch_InvalidLimit(t *testing.T) {
	s := newTestStore(t, "")

	_, err := s.Search(context.Background(), "documents", "q", 0, nil)
	assert.ErrorIs(t, err, store.ErrInvalidLimit)

	_, err = s.Search(context.Background(), "documents", "q", -2, nil)
	assert.ErrorIs(t, err, store.ErrInvalidLimit)
}

func TestUnknownCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	_, err := s.Search(ctx, "no-such-collection", "q", 3, nil)
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)

	_, err = s.AddDocument(ctx, "/tmp/whatever.txt", "no-such-collection")
	assert.ErrorIs(t, err, store.ErrCollectionNotFound)
}

func TestAddDocument_EmptyContent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	path := writeDoc(t, "empty.txt", "")
	_, err := s.AddDocument(ctx, path, "documents")
	assert.ErrorIs(t, err, store.ErrEmptyContent)

	_, err = s.AddDocument(ctx, "/does/not/exist.md", "documents")
	assert.ErrorIs(t, err, store.ErrEmptyContent)
}

func TestAddDocument_ReingestIsStable(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	path := writeDoc(t, "doc.md", strings.Repeat("repeatable deterministic chunk text ", 30))

	first, err := s.AddDocument(ctx, path, "documents")
	require.NoError(t, err)
	count1, err := s.Count("documents")
	require.NoError(t, err)

	// Re-ingesting a byte-identical file regenerates the same entry
	// IDs, so entries are overwritten in place, never duplicated.
	second, err := s.AddDocument(ctx, path, "documents")
	require.NoError(t, err)
	count2, err := s.Count("documents")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, count1, count2)
}

func TestSearch_WhereFilter(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, "")

	require.NoError(t, s.Add(ctx, "conversations", "c1", "talk about gardens", map[string]string{"agent": "mene"}))
	require.NoError(t, s.Add(ctx, "conversations", "c2", "talk about gardens too", map[string]string{"agent": "bonny"}))

	results, err := s.Search(ctx, "conversations", "gardens", 5, map[string]string{"agent": "mene"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "mene", results[0].Metadata["agent"])
}

func TestPersistenceAcrossReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s := newTestStore(t, filepath.Join(dir, "db"))
	require.NoError(t, s.Add(ctx, "knowledge", "k1", "the capital of botany is the greenhouse", map[string]string{"source": "inline"}))
	require.NoError(t, s.Close())

	reopened := newTestStore(t, filepath.Join(dir, "db"))
	count, err := reopened.Count("knowledge")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := reopened.Search(ctx, "knowledge", "greenhouse botany", 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Contains(t, results[0].Text, "greenhouse")
}

func TestNew_RequiresEmbedder(t *testing.T) {
	_, err := chromem.New(chromem.Config{})
	assert.True(t, errors.Is(err, store.ErrStoreUnavailable))
}
