// Package memory persists conversation turns and retrieves agent-scoped
// conversational context on top of the vector store's "conversations"
// collection.
package memory

import (
	"errors"
	"time"
)

// ErrMemoryUnavailable tags every store failure crossing this layer.
// Callers always receive a structured error, never a raw store fault.
var ErrMemoryUnavailable = errors.New("memory unavailable")

// Conversation is one stored exchange between a user and an agent.
// Timestamp is set at save time and never changes.
type Conversation struct {
	Agent         string            `json:"agent"`
	UserMessage   string            `json:"user_message"`
	AgentResponse string            `json:"agent_response"`
	Timestamp     time.Time         `json:"timestamp"`
	Context       map[string]string `json:"context,omitempty"`
}

// ContextEntry is one retrieved conversation with its derived summary
// and relevance ranking.
type ContextEntry struct {
	Conversation Conversation
	Summary      string
	Timestamp    string
	Relevance    float32
}
