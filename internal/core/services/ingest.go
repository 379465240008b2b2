package services

import (
	"context"
	"fmt"

	"github.com/pathfinder-labs/pathfinder-cli/internal/chunker"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/ports/driven"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/ports/driving"
	"github.com/pathfinder-labs/pathfinder-cli/internal/corpus"
	"github.com/pathfinder-labs/pathfinder-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestService loads a CSV job corpus into the document store and
// vector index.
type IngestService struct {
	docStore  driven.DocumentStore
	vector    driven.VectorIndex
	embedding driven.EmbeddingService
	splitter  *chunker.Splitter
}

// NewIngestService creates an ingest service.
func NewIngestService(
	docStore driven.DocumentStore,
	vector driven.VectorIndex,
	embedding driven.EmbeddingService,
	splitter *chunker.Splitter,
) *IngestService {
	return &IngestService{
		docStore:  docStore,
		vector:    vector,
		embedding: embedding,
		splitter:  splitter,
	}
}

// Ingest runs loader, chunker, embedder and index over the corpus at
// csvPath. Deterministic IDs and upserts make re-runs replace postings
// in place. Embeddings are generated before anything is written, so a
// failing embedder leaves no half-indexed posting behind.
func (s *IngestService) Ingest(ctx context.Context, csvPath string) (*domain.IngestReport, error) {
	logger.Section("Ingestion")
	logger.Info("Loading corpus from %s", csvPath)

	loaded, err := corpus.Load(csvPath)
	if err != nil {
		return nil, fmt.Errorf("loading corpus: %w", err)
	}
	logger.Info("Loaded %d postings (%d rows skipped)", len(loaded.Documents), loaded.Skipped)

	report := &domain.IngestReport{Skipped: loaded.Skipped}

	for i := range loaded.Documents {
		doc := &loaded.Documents[i]

		chunks := s.splitter.Split(doc)
		if len(chunks) == 0 {
			continue
		}

		texts := make([]string, len(chunks))
		for j, chunk := range chunks {
			texts[j] = chunk.Content
		}

		embeddings, err := s.embedding.EmbedBatch(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embedding posting %q: %w", doc.Meta.Title, err)
		}
		if len(embeddings) != len(chunks) {
			return nil, fmt.Errorf("embedding posting %q: got %d embeddings for %d chunks",
				doc.Meta.Title, len(embeddings), len(chunks))
		}
		for j := range chunks {
			chunks[j].Embedding = embeddings[j]
		}

		if err := s.docStore.SaveDocument(ctx, doc); err != nil {
			return nil, fmt.Errorf("saving posting %q: %w", doc.Meta.Title, err)
		}
		if err := s.docStore.SaveChunks(ctx, chunks); err != nil {
			return nil, fmt.Errorf("saving chunks for %q: %w", doc.Meta.Title, err)
		}
		for _, chunk := range chunks {
			if err := s.vector.Upsert(ctx, chunk.ID, chunk.Embedding); err != nil {
				return nil, fmt.Errorf("indexing chunk %s: %w", chunk.ID, err)
			}
		}

		// A posting that shrank since the last run chunks into fewer
		// pieces; evict the trailing chunks it no longer produces so
		// stale content cannot surface in search results.
		stale, err := s.docStore.DeleteChunksFrom(ctx, doc.ID, len(chunks))
		if err != nil {
			return nil, fmt.Errorf("evicting stale chunks for %q: %w", doc.Meta.Title, err)
		}
		for _, chunkID := range stale {
			if err := s.vector.Delete(ctx, chunkID); err != nil {
				return nil, fmt.Errorf("evicting stale vector %s: %w", chunkID, err)
			}
		}

		report.Postings++
		report.Chunks += len(chunks)
		logger.Debug("Indexed %q (%d chunks)", doc.Meta.Title, len(chunks))
	}

	logger.Info("Ingestion complete: %d postings, %d chunks, %d skipped",
		report.Postings, report.Chunks, report.Skipped)
	return report, nil
}

// Clear removes every posting, chunk and vector from the index.
func (s *IngestService) Clear(ctx context.Context) error {
	logger.Section("Clear Index")

	if err := s.vector.Reset(ctx); err != nil {
		return fmt.Errorf("clearing vector index: %w", err)
	}
	if err := s.docStore.Reset(ctx); err != nil {
		return fmt.Errorf("clearing document store: %w", err)
	}

	logger.Info("Index cleared")
	return nil
}
