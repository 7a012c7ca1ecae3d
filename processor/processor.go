// Package processor extracts text from source files and splits it into
// overlapping word-window chunks, the unit of vector indexing.
package processor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Chunk is one bounded slice of a source document's text.
// StartIdx and EndIdx are word offsets into the source text.
type Chunk struct {
	Text     string
	ChunkID  int
	StartIdx int
	EndIdx   int
	Metadata map[string]string
}

// Config configures the processor.
type Config struct {
	// ChunkSize is the window size in words. Default: 512.
	ChunkSize int

	// ChunkOverlap is the number of words shared between adjacent
	// chunks. Must be smaller than ChunkSize. Default: 50.
	ChunkOverlap int

	// Extensions is the allow-list of readable file extensions.
	Extensions []string
}

// DefaultExtensions lists the file types the processor will read.
var DefaultExtensions = []string{
	".txt", ".md", ".json", ".csv", ".py", ".js", ".html", ".go", ".yaml", ".yml",
}

// Processor turns files into chunk sequences. It holds no state
// between calls.
type Processor struct {
	config Config
}

// NewWithConfig creates a processor, applying defaults for zero values.
// It rejects configurations where the overlap is not smaller than the
// window size, since such a window never advances.
func NewWithConfig(config Config) (*Processor, error) {
	if config.ChunkSize == 0 {
		config.ChunkSize = 512
	}
	if config.ChunkOverlap == 0 {
		config.ChunkOverlap = 50
	}
	if len(config.Extensions) == 0 {
		config.Extensions = DefaultExtensions
	}
	if config.ChunkSize < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", config.ChunkSize)
	}
	if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", config.ChunkOverlap, config.ChunkSize)
	}
	return &Processor{config: config}, nil
}

// ExtractText reads a file and returns its text content.
// Missing files and unsupported extensions yield an empty string,
// not an error; callers treat empty text as "nothing to ingest".
func (p *Processor) ExtractText(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !p.supported(ext) {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return string(data)
}

// ChunkText splits text into overlapping word windows using the
// processor's configured size and overlap.
func (p *Processor) ChunkText(text string) []Chunk {
	chunks, _ := ChunkText(text, p.config.ChunkSize, p.config.ChunkOverlap)
	return chunks
}

// ChunkText splits text into overlapping word windows. The window
// slides by size-overlap words per step, so chunk start offsets
// strictly increase. Deterministic: identical input and parameters
// reproduce identical chunks. Empty text yields nil.
func ChunkText(text string, size, overlap int) ([]Chunk, error) {
	if size < 1 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunk overlap %d must be in [0, %d)", overlap, size)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	var chunks []Chunk
	step := size - overlap
	for i := 0; i < len(words); i += step {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, Chunk{
			Text:     strings.Join(words[i:end], " "),
			ChunkID:  len(chunks),
			StartIdx: i,
			EndIdx:   end,
		})
		if end == len(words) {
			break
		}
	}
	return chunks, nil
}

// ProcessFile extracts and chunks a file, attaching source metadata
// to every chunk. Empty extraction yields nil, signalling "nothing
// to ingest" rather than an error.
func (p *Processor) ProcessFile(path string) []Chunk {
	text := p.ExtractText(path)
	if text == "" {
		return nil
	}

	chunks := p.ChunkText(text)

	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	processedAt := time.Now().Format(time.RFC3339)

	for i := range chunks {
		chunks[i].Metadata = map[string]string{
			"source":       path,
			"filename":     filepath.Base(path),
			"file_type":    strings.ToLower(filepath.Ext(path)),
			"chunk_id":     strconv.Itoa(chunks[i].ChunkID),
			"processed_at": processedAt,
			"file_size":    strconv.FormatInt(size, 10),
		}
	}
	return chunks
}

func (p *Processor) supported(ext string) bool {
	for _, e := range p.config.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}
