// Package store defines the vector storage contract: named collections
// of indexed entries, batched document ingestion, and similarity search.
package store

import (
	"context"
	"errors"
)

// DefaultCollections are the collection names every store is expected
// to hold. Lookups outside the configured set are an error, never an
// implicit create.
var DefaultCollections = []string{
	"documents",     // general documents
	"conversations", // chat history
	"knowledge",     // structured knowledge
	"code",          // code snippets
	"memories",      // agent memories
}

// Error taxonomy shared by every store operation. Callers match with
// errors.Is and translate into their own statuses.
var (
	// ErrStoreUnavailable reports that the underlying index failed to
	// initialize or is unreachable.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrCollectionNotFound reports an unknown collection name.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrEmptyContent reports that ingestion produced zero chunks.
	// It signals "nothing to ingest", not a store failure.
	ErrEmptyContent = errors.New("no content extracted")

	// ErrInvalidLimit reports a non-positive search limit. Limits are
	// a caller configuration error and are never silently clamped.
	ErrInvalidLimit = errors.New("search limit must be positive")
)

// SearchResult is one ranked entry returned by a similarity query.
// Relevance is 1 minus the cosine distance, so higher is more relevant.
type SearchResult struct {
	Text      string
	Metadata  map[string]string
	Relevance float32
	Source    string
}

// Store is the vector storage backend.
// Implementations: chromem.Store (embedded, persistent).
type Store interface {
	// AddDocument processes a file into chunks and inserts them into
	// the named collection as one batch. Returns the number of chunks
	// added. The batch becomes visible to queries only once the call
	// returns.
	AddDocument(ctx context.Context, path, collection string) (int, error)

	// Add inserts a single pre-built entry.
	Add(ctx context.Context, collection, id, text string, metadata map[string]string) error

	// Search returns up to limit entries of the named collection
	// ranked by descending relevance. where, when non-nil, restricts
	// results to entries whose metadata matches every pair exactly.
	// An empty collection yields an empty result, not an error.
	Search(ctx context.Context, collection, query string, limit int, where map[string]string) ([]SearchResult, error)

	// Count reports the number of entries in a collection.
	Count(collection string) (int, error)

	// Close releases resources.
	Close() error
}
