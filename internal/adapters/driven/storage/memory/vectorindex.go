package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an in-memory brute-force cosine similarity index.
// Insertion order is preserved so equal-similarity hits rank
// deterministically.
type VectorIndex struct {
	mu         sync.RWMutex
	dimensions int
	ids        []string
	vectors    map[string][]float32
}

// NewVectorIndex creates an index with a fixed vector dimension.
// dimensions < 1 is a configuration error.
func NewVectorIndex(dimensions int) (*VectorIndex, error) {
	if dimensions < 1 {
		return nil, fmt.Errorf("%w: vector dimension must be positive, got %d",
			domain.ErrInvalidConfig, dimensions)
	}
	return &VectorIndex{
		dimensions: dimensions,
		vectors:    make(map[string][]float32),
	}, nil
}

// Upsert inserts or replaces the vector for the given chunk ID.
func (v *VectorIndex) Upsert(_ context.Context, chunkID string, embedding []float32) error {
	if len(embedding) != v.dimensions {
		return fmt.Errorf("%w: embedding has %d dimensions, index expects %d",
			domain.ErrInvalidConfig, len(embedding), v.dimensions)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if _, exists := v.vectors[chunkID]; !exists {
		v.ids = append(v.ids, chunkID)
	}
	stored := make([]float32, len(embedding))
	copy(stored, embedding)
	v.vectors[chunkID] = stored
	return nil
}

// Search returns the k nearest vectors by cosine similarity, ties
// broken by insertion order.
func (v *VectorIndex) Search(_ context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be a positive integer, got %d",
			domain.ErrInvalidInput, k)
	}
	if len(query) != v.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, index expects %d",
			domain.ErrInvalidConfig, len(query), v.dimensions)
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	hits := make([]driven.VectorHit, 0, len(v.ids))
	for _, id := range v.ids {
		hits = append(hits, driven.VectorHit{
			ChunkID:    id,
			Similarity: Cosine(query, v.vectors[id]),
		})
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Similarity > hits[j].Similarity
	})

	if k < len(hits) {
		hits = hits[:k]
	}
	return hits, nil
}

// Delete removes a vector from the index. Unknown IDs are a no-op.
func (v *VectorIndex) Delete(_ context.Context, chunkID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if _, exists := v.vectors[chunkID]; !exists {
		return nil
	}
	delete(v.vectors, chunkID)
	for i, id := range v.ids {
		if id == chunkID {
			v.ids = append(v.ids[:i], v.ids[i+1:]...)
			break
		}
	}
	return nil
}

// Reset removes every vector.
func (v *VectorIndex) Reset(_ context.Context) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.ids = nil
	v.vectors = make(map[string][]float32)
	return nil
}

// Count returns the number of stored vectors.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.ids), nil
}

// Dimensions returns the fixed vector dimension.
func (v *VectorIndex) Dimensions() int { return v.dimensions }

// Close releases resources.
func (v *VectorIndex) Close() error { return nil }

// Cosine computes the cosine similarity of two equal-length vectors.
// A zero vector yields similarity 0.
func Cosine(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
