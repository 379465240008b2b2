package domain

import (
	"strings"
	"time"
	"unicode/utf8"
)

// KeywordBoost is added to the cosine similarity of a hit whose
// content or metadata matches the domain keyword table. Similarity is
// bounded by 1, so every boosted hit outranks every unboosted one and
// scores stay strictly non-increasing down the result list.
const KeywordBoost = 1.0

// SearchResult is a single ranked hit. Results are ephemeral: built
// fresh per query and never persisted.
type SearchResult struct {
	// Document is the matched posting.
	Document Document

	// Chunk is the specific chunk that matched.
	Chunk Chunk

	// Score is the relevance score. Plain similarity hits carry the
	// cosine similarity in [0,1]; domain-boosted hits carry the
	// similarity plus KeywordBoost. Higher is always more relevant.
	Score float64

	// DomainMatch reports whether the hit matched the domain keyword
	// table during refinement.
	DomainMatch bool
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// Postings is the number of postings indexed.
	Postings int

	// Chunks is the number of chunks written to the index.
	Chunks int

	// Skipped is the number of corpus rows dropped during load.
	Skipped int
}

// QueryResult is the outcome of one evaluated query.
type QueryResult struct {
	Query   string        `json:"query"`
	Latency time.Duration `json:"latency"`
	Results int           `json:"results"`
	// MeanScore is the mean score of the returned results, 0 when empty.
	MeanScore float64 `json:"mean_score"`
	// Err records a per-query failure; the batch continues past it.
	Err string `json:"error,omitempty"`
}

// EvalReport aggregates an evaluation batch.
type EvalReport struct {
	// AverageLatency is the mean wall-clock latency over successful queries.
	AverageLatency time.Duration `json:"average_latency"`

	// AverageScore is the mean of the per-query mean scores.
	AverageScore float64 `json:"average_score"`

	// PerQuery holds every query's outcome, failures included.
	PerQuery []QueryResult `json:"query_results"`
}

// jobPhrases are the preset phrases the chat layer uses to decide
// whether a user message is a job-listing request.
var jobPhrases = []string{
	"job offers", "job listings", "find jobs", "search jobs",
	"internship offers", "intern offers", "job opportunities",
	"show me jobs", "find internships",
}

// IsJobQuery reports whether the text looks like a job-listing request.
// Exposed for the chat layer that sits above this core.
func IsJobQuery(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range jobPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// DefaultDomainKeywords is the default domain keyword table used by
// widen-then-refine ranking. The table is configuration, not a
// constant: callers can replace it wholesale via the config file.
var DefaultDomainKeywords = []string{
	"finance", "financial", "banking", "investment", "accounting",
	"audit", "trading", "asset management", "risk management",
	"fintech", "treasury", "hedge fund", "private equity", "m&a",
}

// MatchKeywords returns the keywords from table present in text,
// case-insensitively, preserving table order. At most limit keywords
// are returned; limit <= 0 means no cap.
func MatchKeywords(text string, table []string, limit int) []string {
	lower := strings.ToLower(text)
	var matched []string
	for _, kw := range table {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched = append(matched, kw)
			if limit > 0 && len(matched) >= limit {
				break
			}
		}
	}
	return matched
}

// TruncateAtWhitespace cuts text to at most max bytes, backing up to
// the previous whitespace boundary so no token is cut mid-way. A
// prefix with no whitespace at all is cut at the nearest rune
// boundary instead, so the result is always valid UTF-8. Text shorter
// than max is returned unchanged.
func TruncateAtWhitespace(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}
	for max > 0 && !utf8.RuneStart(text[max]) {
		max--
	}
	cut := text[:max]
	if idx := strings.LastIndexAny(cut, " \t\n\r"); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " \t\n\r")
}
