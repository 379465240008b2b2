package driving

import (
	"context"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

// SearchService answers free-text and resume-matching queries against
// the job index.
type SearchService interface {
	// Search returns up to k postings ranked by relevance to the
	// query. Queries touching the configured domain keyword table are
	// re-ranked with widen-then-refine. Zero results is a valid,
	// successful response.
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)

	// MatchResume returns up to k postings matching the resume text,
	// expanding the query with any domain keywords found in the resume.
	MatchResume(ctx context.Context, resumeText string, k int) ([]domain.SearchResult, error)
}

// IngestService loads a job corpus into the index.
type IngestService interface {
	// Ingest runs loader, chunker, embedder and index for the corpus
	// at csvPath. Safe to re-run: unchanged postings are replaced in
	// place, never duplicated.
	Ingest(ctx context.Context, csvPath string) (*domain.IngestReport, error)

	// Clear removes every posting from the index.
	Clear(ctx context.Context) error
}

// EvalService measures retrieval quality and latency over a query set.
type EvalService interface {
	// Evaluate runs Search for each query, collecting latency and
	// score statistics. A failing query is recorded and the batch
	// continues.
	Evaluate(ctx context.Context, queries []string, k int) (*domain.EvalReport, error)
}
