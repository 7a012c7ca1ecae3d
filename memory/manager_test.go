package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meneportal/ltm-bridge/embedder/mock"
	"github.com/meneportal/ltm-bridge/memory"
	"github.com/meneportal/ltm-bridge/store"
	"github.com/meneportal/ltm-bridge/store/chromem"
)

func newManager(t *testing.T) *memory.Manager {
	t.Helper()
	s, err := chromem.New(chromem.Config{Embedder: mock.New()})
	require.NoError(t, err)
	return memory.NewManager(s)
}

func TestSaveConversation_FreshIDs(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	id1, err := m.SaveConversation(ctx, "mene", "hello there", "hi!", nil)
	require.NoError(t, err)

	// Identical turns never collide or overwrite.
	id2, err := m.SaveConversation(ctx, "mene", "hello there", "hi!", nil)
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Contains(t, id1, "conv_")

	entries, err := m.GetConversationContext(ctx, "hello", "mene", 5)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestGetConversationContext_AgentScoped(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	_, err := m.SaveConversation(ctx, "mene", "planning the garden project", "noted", nil)
	require.NoError(t, err)
	_, err = m.SaveConversation(ctx, "bonny", "garden project botanical research", "on it", nil)
	require.NoError(t, err)

	entries, err := m.GetConversationContext(ctx, "garden project", "mene", 5)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		assert.Equal(t, "mene", e.Conversation.Agent)
	}
}

func TestGetConversationContext_RoundTripsFields(t *testing.T) {
	ctx := context.Background()
	m := newManager(t)

	convContext := map[string]string{"channel": "portal"}
	_, err := m.SaveConversation(ctx, "bonny", "what soil suits ferns best", "loamy and moist", convContext)
	require.NoError(t, err)

	entries, err := m.GetConversationContext(ctx, "soil ferns", "bonny", 3)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	e := entries[0]
	assert.Equal(t, "what soil suits ferns best", e.Conversation.UserMessage)
	assert.Equal(t, "loamy and moist", e.Conversation.AgentResponse)
	assert.Equal(t, convContext, e.Conversation.Context)
	assert.False(t, e.Conversation.Timestamp.IsZero())
	assert.Contains(t, e.Summary, "bonny conversation about")
	assert.NotEmpty(t, e.Timestamp)
	assert.Greater(t, e.Relevance, float32(0))
}

// failingStore simulates an unreachable backend.
type failingStore struct{}

func (failingStore) AddDocument(ctx context.Context, path, collection string) (int, error) {
	return 0, store.ErrStoreUnavailable
}
func (failingStore) Add(ctx context.Context, collection, id, text string, metadata map[string]string) error {
	return store.ErrStoreUnavailable
}
func (failingStore) Search(ctx context.Context, collection, query string, limit int, where map[string]string) ([]store.SearchResult, error) {
	return nil, store.ErrStoreUnavailable
}
func (failingStore) Count(collection string) (int, error) { return 0, store.ErrStoreUnavailable }
func (failingStore) Close() error                         { return nil }

func TestStoreFailuresAreTagged(t *testing.T) {
	ctx := context.Background()
	m := memory.NewManager(failingStore{})

	_, err := m.SaveConversation(ctx, "mene", "hi", "hello", nil)
	assert.True(t, errors.Is(err, memory.ErrMemoryUnavailable))
	assert.True(t, errors.Is(err, store.ErrStoreUnavailable))

	_, err = m.GetConversationContext(ctx, "hi", "mene", 3)
	assert.True(t, errors.Is(err, memory.ErrMemoryUnavailable))
}
