// Package bridge is the retrieval orchestrator: it fuses document
// search, conversation memory and the agent profile into one enhanced
// context, assembles the response, and writes the new turn back into
// memory.
package bridge

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/meneportal/ltm-bridge/agents"
	"github.com/meneportal/ltm-bridge/memory"
	"github.com/meneportal/ltm-bridge/store"
)

// QueryResult is the outcome of one enhanced agent query. It is always
// well-formed: faults set Error and substitute an explanation for the
// response. A failed persistence step is reported separately and does
// not invalidate the response.
type QueryResult struct {
	Agent         string    `json:"agent"`
	Response      string    `json:"response"`
	Timestamp     time.Time `json:"timestamp"`
	RAGSources    int       `json:"rag_sources"`
	MemoryContext int       `json:"memory_context"`
	Error         bool      `json:"error,omitempty"`
	Persisted     bool      `json:"persisted"`
	PersistError  string    `json:"persist_error,omitempty"`
}

// EnhancedContext is the request-scoped fusion of retrieval results
// and the agent profile. It is never persisted.
type EnhancedContext struct {
	Documents []store.SearchResult
	Memories  []memory.ContextEntry
	Profile   agents.Profile
	HasProfile bool
}

// Bridge wires the store, the memory manager and the agent roster.
type Bridge struct {
	store     store.Store
	memory    *memory.Manager
	roster    *agents.Roster
	responder Responder
	docLimit  int
	memLimit  int
}

// Option configures the bridge.
type Option func(*Bridge)

// WithResponder replaces the deterministic response assembler, e.g.
// with a model-backed one.
func WithResponder(r Responder) Option {
	return func(b *Bridge) {
		b.responder = r
	}
}

// WithLimits sets the retrieval limits for document and memory search.
func WithLimits(docs, memories int) Option {
	return func(b *Bridge) {
		b.docLimit = docs
		b.memLimit = memories
	}
}

// New creates a bridge. Retrieval limits default to 3 results each.
func New(s store.Store, m *memory.Manager, roster *agents.Roster, opts ...Option) *Bridge {
	b := &Bridge{
		store:     s,
		memory:    m,
		roster:    roster,
		responder: TemplateResponder{},
		docLimit:  3,
		memLimit:  3,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// ProcessAgentQuery answers a query with retrieval-grounded context
// and records the exchange. Retrieval failures degrade to zero results
// instead of aborting; no fault escapes this boundary.
func (b *Bridge) ProcessAgentQuery(ctx context.Context, agent, query string, convContext map[string]string) (result *QueryResult) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[BRIDGE] Panic processing query for %q: %v", agent, r)
			result = &QueryResult{
				Agent:     agent,
				Response:  fmt.Sprintf("Error processing query: %v", r),
				Timestamp: time.Now(),
				Error:     true,
			}
		}
	}()

	docs, err := b.store.Search(ctx, "documents", query, b.docLimit, nil)
	if err != nil {
		log.Printf("[BRIDGE] Document search degraded to zero results: %v", err)
		docs = nil
	}

	memories, err := b.memory.GetConversationContext(ctx, query, agent, b.memLimit)
	if err != nil {
		log.Printf("[BRIDGE] Memory search degraded to zero results: %v", err)
		memories = nil
	}

	profile, hasProfile := b.roster.Get(agent)

	ectx := &EnhancedContext{
		Documents:  docs,
		Memories:   memories,
		Profile:    profile,
		HasProfile: hasProfile,
	}

	response, err := b.responder.Respond(ctx, agent, query, ectx)
	if err != nil {
		log.Printf("[BRIDGE] Responder failed for %q: %v", agent, err)
		return &QueryResult{
			Agent:     agent,
			Response:  fmt.Sprintf("Error processing query: %v", err),
			Timestamp: time.Now(),
			Error:     true,
		}
	}

	result = &QueryResult{
		Agent:         agent,
		Response:      response,
		Timestamp:     time.Now(),
		RAGSources:    len(docs),
		MemoryContext: len(memories),
	}

	if _, err := b.memory.SaveConversation(ctx, agent, query, response, convContext); err != nil {
		// The response stands; only the persistence failure is reported.
		result.PersistError = err.Error()
	} else {
		result.Persisted = true
	}
	return result
}

// AddDocument ingests a file into the named collection.
func (b *Bridge) AddDocument(ctx context.Context, path, collection string) (int, error) {
	return b.store.AddDocument(ctx, path, collection)
}

// Search queries the named collection directly.
func (b *Bridge) Search(ctx context.Context, query, collection string, limit int) ([]store.SearchResult, error) {
	return b.store.Search(ctx, collection, query, limit, nil)
}

// SaveConversation records an exchange without running a query.
func (b *Bridge) SaveConversation(ctx context.Context, agent, userMessage, agentResponse string, convContext map[string]string) (string, error) {
	return b.memory.SaveConversation(ctx, agent, userMessage, agentResponse, convContext)
}

// GetConversationContext retrieves agent-scoped conversation memory.
func (b *Bridge) GetConversationContext(ctx context.Context, query, agent string, limit int) ([]memory.ContextEntry, error) {
	return b.memory.GetConversationContext(ctx, query, agent, limit)
}

// ListAgents returns the agent roster.
func (b *Bridge) ListAgents() []agents.Profile {
	return b.roster.List()
}
