// Package chunker splits document content into overlapping,
// separator-aware chunks sized for the embedding model.
package chunker

import (
	"fmt"
	"strings"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 100

// separators, in priority order. A chunk boundary prefers a paragraph
// break, then a line break, then a sentence end, then a clause break,
// then a word boundary, before falling back to a hard character cut.
var separators = []string{"\n\n", "\n", ". ", ", ", " "}

// Splitter splits document content into overlapping chunks.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter. Overlap must be strictly less than chunk
// size: with overlap >= chunkSize the window never advances, so that
// configuration is rejected outright instead of silently clamped.
func New(opts ...Option) (*Splitter, error) {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.overlap >= s.chunkSize {
		return nil, fmt.Errorf("%w: chunk overlap %d must be less than chunk size %d",
			domain.ErrInvalidConfig, s.overlap, s.chunkSize)
	}

	return s, nil
}

// ChunkSize returns the configured chunk size in characters.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap in characters.
func (s *Splitter) Overlap() int { return s.overlap }

// Split breaks the document content into chunks carrying the parent
// metadata verbatim. Chunk IDs are deterministic per document and
// position so re-splitting an unchanged document hits the same IDs.
func (s *Splitter) Split(doc *domain.Document) []domain.Chunk {
	content := doc.Content
	if content == "" {
		return nil
	}

	estimated := len(content)/(s.chunkSize-s.overlap) + 1
	chunks := make([]domain.Chunk, 0, estimated)

	start := 0
	for {
		end := start + s.chunkSize
		if end >= len(content) {
			chunks = append(chunks, s.newChunk(doc, len(chunks), content[start:]))
			break
		}

		cut := s.cutPoint(content, start, end)
		chunks = append(chunks, s.newChunk(doc, len(chunks), content[start:cut]))

		next := cut - s.overlap
		if next <= start {
			// Separator landed inside the overlap window; skip the
			// overlap for this boundary so the scan still advances.
			next = cut
		}
		start = next
	}

	return chunks
}

// cutPoint finds the boundary for a chunk starting at start with a
// hard limit of end. It takes the last occurrence of the highest
// priority separator inside the window, cutting after the separator.
// With no separator in the window it hard-cuts at end.
func (s *Splitter) cutPoint(content string, start, end int) int {
	window := content[start:end]
	for _, sep := range separators {
		if idx := strings.LastIndex(window, sep); idx > 0 {
			return start + idx + len(sep)
		}
	}
	return end
}

func (s *Splitter) newChunk(doc *domain.Document, position int, content string) domain.Chunk {
	return domain.Chunk{
		ID:         domain.ChunkID(doc.ID, position),
		DocumentID: doc.ID,
		Content:    content,
		Position:   position,
		Meta:       doc.Meta,
	}
}

// SplitAll splits every document, concatenating the resulting chunks.
func (s *Splitter) SplitAll(docs []domain.Document) []domain.Chunk {
	var all []domain.Chunk
	for i := range docs {
		all = append(all, s.Split(&docs[i])...)
	}
	return all
}
