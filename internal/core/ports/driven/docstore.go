package driven

import (
	"context"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

// DocumentStore persists documents and chunks.
// Backed by SQLite for durable metadata storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document (upsert by ID).
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// SaveChunks stores chunks, upserting by chunk ID.
	SaveChunks(ctx context.Context, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound when absent.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetChunk retrieves a chunk by ID.
	// Returns domain.ErrNotFound when absent.
	GetChunk(ctx context.Context, id string) (*domain.Chunk, error)

	// CountChunks returns the total number of stored chunks.
	CountChunks(ctx context.Context) (int, error)

	// DeleteChunksFrom removes the chunks of documentID at positions
	// >= fromPosition and returns their IDs so the caller can evict
	// the matching vectors. A document that was re-chunked into fewer
	// pieces sheds its stale tail this way. Unknown documents are a
	// no-op.
	DeleteChunksFrom(ctx context.Context, documentID string, fromPosition int) ([]string, error)

	// Reset removes every document and chunk.
	Reset(ctx context.Context) error
}
