package services

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathfinder-labs/pathfinder-cli/internal/adapters/driven/storage/memory"
	"github.com/pathfinder-labs/pathfinder-cli/internal/chunker"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

const embedderDims = 64

// hashEmbedder is a deterministic bag-of-words embedder. Texts sharing
// tokens get proportionally similar vectors, which is enough to test
// ranking end to end without a model.
type hashEmbedder struct{}

func (e *hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, embedderDims)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?()\"'")
		if tok == "" {
			continue
		}
		h := fnv.New32a()
		h.Write([]byte(tok))
		vec[int(h.Sum32()%embedderDims)]++
	}
	return vec, nil
}

func (e *hashEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := e.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (e *hashEmbedder) Dimensions() int              { return embedderDims }
func (e *hashEmbedder) ModelName() string            { return "hash-embed" }
func (e *hashEmbedder) Ping(_ context.Context) error { return nil }
func (e *hashEmbedder) Close() error                 { return nil }

// testCorpus covers the ranking scenarios: one finance posting, one
// plain engineering posting, and one unusable row.
const testCorpus = `title,company,location,description,url
Data Analyst,Acme Corp,Lisbon,Analyse product metrics and build dashboards with SQL and Python.,https://jobs.acme.example/1
Finance Associate,Beta Bank,Porto,Support financial analysis and banking operations for corporate clients.,https://careers.betabank.example/2
,,,"No title or company here",
`

func writeCorpus(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jobs.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCorpus), 0600))
	return path
}

type fixture struct {
	ingest *IngestService
	search *SearchService
	docs   *memory.DocumentStore
	vector *memory.VectorIndex
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	docs := memory.NewDocumentStore()
	vector, err := memory.NewVectorIndex(embedderDims)
	require.NoError(t, err)
	splitter, err := chunker.New()
	require.NoError(t, err)

	embedder := &hashEmbedder{}
	return &fixture{
		ingest: NewIngestService(docs, vector, embedder, splitter),
		search: NewSearchService(docs, vector, embedder, nil),
		docs:   docs,
		vector: vector,
	}
}

func ingested(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	_, err := f.ingest.Ingest(context.Background(), writeCorpus(t))
	require.NoError(t, err)
	return f
}

func TestIngest_Report(t *testing.T) {
	f := newFixture(t)

	report, err := f.ingest.Ingest(context.Background(), writeCorpus(t))
	require.NoError(t, err)

	assert.Equal(t, 2, report.Postings)
	assert.Equal(t, 1, report.Skipped)
	assert.GreaterOrEqual(t, report.Chunks, 2)

	count, err := f.vector.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, report.Chunks, count)
}

func TestIngest_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path := writeCorpus(t)

	first, err := f.ingest.Ingest(ctx, path)
	require.NoError(t, err)
	second, err := f.ingest.Ingest(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	count, err := f.docs.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Chunks, count)

	vcount, err := f.vector.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Chunks, vcount)
}

func TestIngest_ShrunkPostingEvictsStaleChunks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "jobs.csv")

	// Same posting identity twice: first with a description long enough
	// to split into several chunks, then shrunk to a single chunk. The
	// trailing chunks of the first run must not survive the second.
	const header = "title,company,location,description,url\n"
	const row = "Systems Engineer,Gamma Ltd,Faro,%s,https://jobs.gamma.example/1\n"
	long := strings.Repeat("legacy mainframe migration expertise ", 200)

	require.NoError(t, os.WriteFile(path, []byte(header+fmt.Sprintf(row, long)), 0600))
	first, err := f.ingest.Ingest(ctx, path)
	require.NoError(t, err)
	require.Greater(t, first.Chunks, 1, "long posting must split into several chunks")

	require.NoError(t, os.WriteFile(path, []byte(header+fmt.Sprintf(row, "Maintain modern infrastructure.")), 0600))
	second, err := f.ingest.Ingest(ctx, path)
	require.NoError(t, err)
	require.Equal(t, 1, second.Chunks)

	count, err := f.docs.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	vcount, err := f.vector.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, vcount)

	results, err := f.search.Search(ctx, "legacy mainframe migration expertise", 10)
	require.NoError(t, err)
	for _, r := range results {
		assert.NotContains(t, r.Chunk.Content, "mainframe",
			"content removed from the corpus must not surface in results")
	}
}

func TestIngest_MissingFile(t *testing.T) {
	f := newFixture(t)
	_, err := f.ingest.Ingest(context.Background(), filepath.Join(t.TempDir(), "absent.csv"))
	assert.Error(t, err)
}

func TestClear(t *testing.T) {
	f := ingested(t)
	ctx := context.Background()

	require.NoError(t, f.ingest.Clear(ctx))

	count, err := f.vector.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	results, err := f.search.Search(ctx, "data analyst", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_EmptyQuery(t *testing.T) {
	f := ingested(t)

	results, err := f.search.Search(context.Background(), "   ", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_PlainQueryRanksBySimilarity(t *testing.T) {
	f := ingested(t)

	results, err := f.search.Search(context.Background(), "product metrics dashboards SQL", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "Acme Corp", results[0].Document.Meta.Company)
	for _, r := range results {
		assert.False(t, r.DomainMatch)
	}
	assertNonIncreasing(t, results)
}

func TestSearch_DomainQueryBoostsFinancePostings(t *testing.T) {
	f := ingested(t)

	results, err := f.search.Search(context.Background(), "financial analysis roles in banking", 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "Beta Bank", results[0].Document.Meta.Company)
	assert.True(t, results[0].DomainMatch)
	assert.Greater(t, results[0].Score, 1.0, "boosted hit carries similarity plus boost")
	assertNonIncreasing(t, results)
}

func TestSearch_DomainQueryFallsBackPastMatches(t *testing.T) {
	f := ingested(t)

	// Domain query with k larger than the number of finance postings:
	// the non-matching posting still fills the remaining slots.
	results, err := f.search.Search(context.Background(), "finance jobs", 5)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(results), 2)

	companies := make(map[string]bool)
	for _, r := range results {
		companies[r.Document.Meta.Company] = true
	}
	assert.True(t, companies["Acme Corp"], "unmatched postings fill out the result set")
	assertNonIncreasing(t, results)
}

func TestSearch_KBoundsResults(t *testing.T) {
	f := ingested(t)

	results, err := f.search.Search(context.Background(), "analysis", 1)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_DefaultK(t *testing.T) {
	f := ingested(t)

	results, err := f.search.Search(context.Background(), "analysis", 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, len(results), DefaultTopK)
	assert.NotEmpty(t, results)
}

func TestMatchResume_WithDomainKeywords(t *testing.T) {
	f := ingested(t)

	resume := "Seasoned professional with a background in financial analysis, " +
		"banking operations and accounting for corporate clients."
	results, err := f.search.MatchResume(context.Background(), resume, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "Beta Bank", results[0].Document.Meta.Company)
	assert.True(t, results[0].DomainMatch)
}

func TestMatchResume_NoKeywordsTruncates(t *testing.T) {
	f := ingested(t)

	// A long resume with no domain keywords falls back to a bounded
	// verbatim search.
	resume := strings.Repeat("product engineering dashboards metrics analytics ", 100)
	results, err := f.search.MatchResume(context.Background(), resume, 5)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "Acme Corp", results[0].Document.Meta.Company)
}

func TestMatchResume_EmptyResume(t *testing.T) {
	f := ingested(t)

	results, err := f.search.MatchResume(context.Background(), "  \n ", 5)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func assertNonIncreasing(t *testing.T, results []domain.SearchResult) {
	t.Helper()
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score,
			"scores must be non-increasing")
	}
}
