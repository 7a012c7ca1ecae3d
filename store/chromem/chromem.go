// Package chromem implements the vector store on chromem-go, a pure
// Go embedded vector database. One chromem collection backs each named
// collection; the index persists at a configured directory and
// survives process restarts.
package chromem

import (
	"context"
	"crypto/md5"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/meneportal/ltm-bridge/embedder"
	"github.com/meneportal/ltm-bridge/processor"
	"github.com/meneportal/ltm-bridge/store"
)

// Config configures the chromem-backed store.
type Config struct {
	// Path is the persistence directory. Empty keeps the index in
	// memory only (tests).
	Path string

	// Collections are the collection names to ensure at startup.
	// Default: store.DefaultCollections.
	Collections []string

	// Embedder converts text to vectors. Required.
	Embedder embedder.Embedder

	// Processor chunks ingested files. Default processor when nil.
	Processor *processor.Processor
}

// Store is the chromem-go vector store.
type Store struct {
	db          *chromem.DB
	processor   *processor.Processor
	collections map[string]*chromem.Collection

	// mu serializes batched writes against reads so a batch is never
	// partially visible. Reads share the lock.
	mu sync.RWMutex
}

var _ store.Store = (*Store)(nil)

// New opens (or creates) the store and ensures the configured
// collections exist. Safe to call repeatedly over the same path.
func New(cfg Config) (*Store, error) {
	if cfg.Embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", store.ErrStoreUnavailable)
	}
	if len(cfg.Collections) == 0 {
		cfg.Collections = store.DefaultCollections
	}
	if cfg.Processor == nil {
		p, err := processor.NewWithConfig(processor.Config{})
		if err != nil {
			return nil, err
		}
		cfg.Processor = p
	}

	var db *chromem.DB
	if cfg.Path == "" {
		db = chromem.NewDB()
	} else {
		var err error
		db, err = chromem.NewPersistentDB(cfg.Path, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
		}
	}

	embed := chromem.EmbeddingFunc(func(ctx context.Context, text string) ([]float32, error) {
		return cfg.Embedder.Embed(ctx, text)
	})

	s := &Store{
		db:          db,
		processor:   cfg.Processor,
		collections: make(map[string]*chromem.Collection, len(cfg.Collections)),
	}
	for _, name := range cfg.Collections {
		col, err := db.GetOrCreateCollection(name, nil, embed)
		if err != nil {
			return nil, fmt.Errorf("%w: create collection %s: %v", store.ErrStoreUnavailable, name, err)
		}
		s.collections[name] = col
		log.Printf("[STORE] Collection %q ready (%d entries)", name, col.Count())
	}
	return s, nil
}

// AddDocument processes a file and inserts every chunk into the named
// collection as one batch. Entry IDs derive from the chunk content
// hash plus the chunk sequence number, so re-ingesting a byte-identical
// file regenerates the same IDs and overwrites in place instead of
// accumulating duplicates.
func (s *Store) AddDocument(ctx context.Context, path, collection string) (int, error) {
	col, err := s.collection(collection)
	if err != nil {
		return 0, err
	}

	chunks := s.processor.ProcessFile(path)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("%w: %s", store.ErrEmptyContent, path)
	}

	docs := make([]chromem.Document, 0, len(chunks))
	for _, c := range chunks {
		docs = append(docs, chromem.Document{
			ID:       entryID(c.Text, c.ChunkID),
			Content:  c.Text,
			Metadata: c.Metadata,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := col.AddDocuments(ctx, docs, 1); err != nil {
		return 0, fmt.Errorf("add documents to %s: %w", collection, err)
	}

	log.Printf("[STORE] Added %d chunks from %s to %q", len(docs), path, collection)
	return len(docs), nil
}

// Add inserts a single entry into the named collection.
func (s *Store) Add(ctx context.Context, collection, id, text string, metadata map[string]string) error {
	col, err := s.collection(collection)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := col.AddDocument(ctx, chromem.Document{ID: id, Content: text, Metadata: metadata}); err != nil {
		return fmt.Errorf("add entry to %s: %w", collection, err)
	}
	return nil
}

// Search runs a similarity query against the named collection and
// returns up to limit results ordered by descending relevance, ties
// kept stable. An empty collection yields an empty result.
func (s *Store) Search(ctx context.Context, collection, query string, limit int, where map[string]string) ([]store.SearchResult, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: got %d", store.ErrInvalidLimit, limit)
	}
	col, err := s.collection(collection)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n := limit
	if count := col.Count(); count == 0 {
		return nil, nil
	} else if n > count {
		n = count
	}

	// chromem rejects nResults larger than the number of matching
	// entries; with a where filter that number is unknown up front,
	// so retry with smaller limits.
	var results []chromem.Result
	for ; n >= 1; n-- {
		results, err = col.Query(ctx, query, n, where, nil)
		if err == nil {
			break
		}
		if !isInsufficientDocsError(err) {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		if n == 1 {
			return nil, nil
		}
	}

	out := make([]store.SearchResult, 0, len(results))
	for _, r := range results {
		out = append(out, store.SearchResult{
			Text:      r.Content,
			Metadata:  r.Metadata,
			Relevance: r.Similarity,
			Source:    sourceOf(r.Metadata),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Relevance > out[j].Relevance })
	return out, nil
}

// Count reports the number of entries in a collection.
func (s *Store) Count(collection string) (int, error) {
	col, err := s.collection(collection)
	if err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return col.Count(), nil
}

// Close releases resources. chromem persists on write, so there is
// nothing to flush.
func (s *Store) Close() error {
	return nil
}

func (s *Store) collection(name string) (*chromem.Collection, error) {
	if s.db == nil {
		return nil, store.ErrStoreUnavailable
	}
	col, ok := s.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", store.ErrCollectionNotFound, name)
	}
	return col, nil
}

// entryID derives a deterministic entry ID from the chunk content hash
// and its sequence number within the ingestion. Identical text at
// different positions gets distinct IDs; re-ingesting the same file
// reproduces the same IDs.
func entryID(text string, seq int) string {
	return fmt.Sprintf("%x_%s", md5.Sum([]byte(text)), strconv.Itoa(seq))
}

func sourceOf(metadata map[string]string) string {
	if src, ok := metadata["source"]; ok {
		return src
	}
	return "unknown"
}

func isInsufficientDocsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") || strings.Contains(msg, "number of documents")
}
