package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/ports/driven"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/ports/driving"
	"github.com/pathfinder-labs/pathfinder-cli/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// DefaultTopK is the number of results returned when the caller passes
// k <= 0.
const DefaultTopK = 5

// widenFactor is how many candidates are fetched per requested result
// when the query touches the domain keyword table.
const widenFactor = 3

// maxResumeKeywords caps how many domain keywords a resume contributes
// to the expanded query.
const maxResumeKeywords = 8

// maxResumeQueryLen bounds the query when a resume carries no domain
// keywords and has to be searched verbatim.
const maxResumeQueryLen = 2000

// SearchService answers queries against the job index.
type SearchService struct {
	docStore  driven.DocumentStore
	vector    driven.VectorIndex
	embedding driven.EmbeddingService
	keywords  []string
}

// NewSearchService creates a search service. keywords is the domain
// keyword table driving widen-then-refine; nil means the built-in
// default table.
func NewSearchService(
	docStore driven.DocumentStore,
	vector driven.VectorIndex,
	embedding driven.EmbeddingService,
	keywords []string,
) *SearchService {
	if len(keywords) == 0 {
		keywords = domain.DefaultDomainKeywords
	}
	return &SearchService{
		docStore:  docStore,
		vector:    vector,
		embedding: embedding,
		keywords:  keywords,
	}
}

// Search returns up to k postings ranked by relevance to the query.
//
// When the query contains a domain keyword, the service widens the
// candidate pool to widenFactor*k, boosts candidates whose content or
// metadata also match the table, and re-sorts. With fewer than k
// domain matches the remaining slots fill with the best plain
// candidates, so the caller always gets the unfiltered top-k as a
// floor.
func (s *SearchService) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	logger.Section("Search")
	logger.Debug("Query: %q", query)

	query = strings.TrimSpace(query)
	if query == "" {
		logger.Debug("Empty query, returning no results")
		return []domain.SearchResult{}, nil
	}
	if k <= 0 {
		k = DefaultTopK
	}

	queryVector, err := s.embedding.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	domainQuery := len(domain.MatchKeywords(query, s.keywords, 1)) > 0
	fetch := k
	if domainQuery {
		fetch = k * widenFactor
		logger.Debug("Domain query, widening candidate pool to %d", fetch)
	}

	hits, err := s.vector.Search(ctx, queryVector, fetch)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}
	logger.Debug("Index returned %d candidates", len(hits))

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		result, err := s.hydrate(ctx, hit)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				logger.Warn("Chunk %s has no stored document, skipping", hit.ChunkID)
				continue
			}
			return nil, err
		}

		if domainQuery && s.matchesDomain(result) {
			result.Score += domain.KeywordBoost
			result.DomainMatch = true
		}
		results = append(results, result)
	}

	if domainQuery {
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
	}
	if k < len(results) {
		results = results[:k]
	}

	logger.Info("Search returned %d results", len(results))
	return results, nil
}

// MatchResume returns up to k postings matching the resume text. Domain
// keywords found in the resume are prepended to sharpen the query; a
// resume without any is truncated and searched verbatim.
func (s *SearchService) MatchResume(ctx context.Context, resumeText string, k int) ([]domain.SearchResult, error) {
	logger.Section("Resume Match")

	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return []domain.SearchResult{}, nil
	}

	keywords := domain.MatchKeywords(resumeText, s.keywords, maxResumeKeywords)
	var query string
	if len(keywords) > 0 {
		logger.Debug("Resume keywords: %v", keywords)
		query = strings.Join(keywords, " ") + " " + resumeText
	} else {
		logger.Debug("No domain keywords in resume, searching truncated text")
		query = domain.TruncateAtWhitespace(resumeText, maxResumeQueryLen)
	}

	return s.Search(ctx, query, k)
}

// hydrate resolves a vector hit into a full result.
func (s *SearchService) hydrate(ctx context.Context, hit driven.VectorHit) (domain.SearchResult, error) {
	chunk, err := s.docStore.GetChunk(ctx, hit.ChunkID)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("loading chunk %s: %w", hit.ChunkID, err)
	}

	doc, err := s.docStore.GetDocument(ctx, chunk.DocumentID)
	if err != nil {
		return domain.SearchResult{}, fmt.Errorf("loading document %s: %w", chunk.DocumentID, err)
	}

	return domain.SearchResult{
		Document: *doc,
		Chunk:    *chunk,
		Score:    hit.Similarity,
	}, nil
}

// matchesDomain reports whether the result's chunk content or posting
// metadata contains any keyword from the table.
func (s *SearchService) matchesDomain(r domain.SearchResult) bool {
	if len(domain.MatchKeywords(r.Chunk.Content, s.keywords, 1)) > 0 {
		return true
	}
	meta := strings.Join([]string{
		r.Document.Meta.Title,
		r.Document.Meta.Company,
		r.Document.Meta.Skills,
	}, " ")
	return len(domain.MatchKeywords(meta, s.keywords, 1)) > 0
}
