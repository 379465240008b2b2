package driven

import "context"

// VectorIndex provides vector storage and cosine-similarity search.
//
// The index dimension is fixed at creation. Implementations must
// reject vectors of any other length with domain.ErrInvalidConfig
// rather than truncate or pad.
type VectorIndex interface {
	// Upsert inserts or replaces the vector for the given chunk ID.
	// Re-ingesting an unchanged chunk is a no-op replace, never a
	// duplicate. The write is atomic per ID.
	Upsert(ctx context.Context, chunkID string, embedding []float32) error

	// Search finds the k most similar vectors to the query, ordered by
	// descending cosine similarity with ties broken by insertion
	// order. It returns at most k hits, fewer on a sparse index, and
	// never errors just because the index holds fewer than k vectors.
	// k < 1 is domain.ErrInvalidInput.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Delete removes a vector from the index. Unknown IDs are a no-op.
	Delete(ctx context.Context, chunkID string) error

	// Reset removes every vector from the index.
	Reset(ctx context.Context) error

	// Count returns the number of vectors currently stored.
	Count(ctx context.Context) (int, error)

	// Dimensions returns the fixed vector dimension of the index.
	Dimensions() int

	// Close releases resources.
	Close() error
}

// VectorHit is a similarity search result.
type VectorHit struct {
	// ChunkID is the matched chunk.
	ChunkID string

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}
