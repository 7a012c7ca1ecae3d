package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/meneportal/ltm-bridge/store"
)

// conversationCollection is the only collection this layer touches.
const conversationCollection = "conversations"

// Manager orchestrates conversation memory operations.
type Manager struct {
	store store.Store
}

// NewManager creates a manager over the given store.
func NewManager(s store.Store) *Manager {
	return &Manager{store: s}
}

// SaveConversation persists one exchange. It derives a truncated
// summary and a keyword-classified intent for retrieval, and assigns
// a fresh unique identifier so identical turns never collide.
func (m *Manager) SaveConversation(ctx context.Context, agent, userMessage, agentResponse string, convContext map[string]string) (string, error) {
	conv := Conversation{
		Agent:         agent,
		UserMessage:   userMessage,
		AgentResponse: agentResponse,
		Timestamp:     time.Now(),
		Context:       convContext,
	}

	doc, err := json.Marshal(conv)
	if err != nil {
		return "", fmt.Errorf("%w: marshal conversation: %w", ErrMemoryUnavailable, err)
	}

	summary := fmt.Sprintf("%s conversation about %s...", agent, truncate(userMessage, 100))
	id := "conv_" + uuid.New().String()

	metadata := map[string]string{
		"type":        "conversation",
		"agent":       agent,
		"timestamp":   conv.Timestamp.Format(time.RFC3339),
		"summary":     summary,
		"user_intent": ClassifyIntent(userMessage),
	}

	if err := m.store.Add(ctx, conversationCollection, id, string(doc), metadata); err != nil {
		return "", fmt.Errorf("%w: %w", ErrMemoryUnavailable, err)
	}

	log.Printf("[MEMORY] Saved conversation %s for agent %q", id, agent)
	return id, nil
}

// GetConversationContext retrieves conversations relevant to query.
// When agent is non-empty the search string is prefixed with the agent
// name and results are filtered to entries whose stored agent metadata
// matches exactly, so one agent's memory never leaks into another's.
func (m *Manager) GetConversationContext(ctx context.Context, query, agent string, limit int) ([]ContextEntry, error) {
	searchQuery := query
	var where map[string]string
	if agent != "" {
		searchQuery = agent + " " + query
		where = map[string]string{"agent": agent}
	}

	results, err := m.store.Search(ctx, conversationCollection, searchQuery, limit, where)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMemoryUnavailable, err)
	}

	entries := make([]ContextEntry, 0, len(results))
	for _, r := range results {
		var conv Conversation
		if err := json.Unmarshal([]byte(r.Text), &conv); err != nil {
			log.Printf("[MEMORY] Skipping malformed conversation entry: %v", err)
			continue
		}
		entries = append(entries, ContextEntry{
			Conversation: conv,
			Summary:      r.Metadata["summary"],
			Timestamp:    r.Metadata["timestamp"],
			Relevance:    r.Relevance,
		})
	}
	return entries, nil
}

// truncate shortens s to at most maxLen bytes.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
