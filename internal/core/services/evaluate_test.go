package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

// scriptedSearch returns canned results per query.
type scriptedSearch struct {
	results map[string][]domain.SearchResult
	errs    map[string]error
}

func (s *scriptedSearch) Search(_ context.Context, query string, _ int) ([]domain.SearchResult, error) {
	if err := s.errs[query]; err != nil {
		return nil, err
	}
	return s.results[query], nil
}

func (s *scriptedSearch) MatchResume(ctx context.Context, resumeText string, k int) ([]domain.SearchResult, error) {
	return s.Search(ctx, resumeText, k)
}

func TestEvaluate_Averages(t *testing.T) {
	search := &scriptedSearch{
		results: map[string][]domain.SearchResult{
			"finance jobs": {{Score: 0.8}, {Score: 0.6}},
			"data analyst": {{Score: 0.4}},
		},
	}
	eval := NewEvalService(search)

	report, err := eval.Evaluate(context.Background(), []string{"finance jobs", "data analyst"}, 5)
	require.NoError(t, err)
	require.Len(t, report.PerQuery, 2)

	assert.InDelta(t, 0.7, report.PerQuery[0].MeanScore, 1e-9)
	assert.InDelta(t, 0.4, report.PerQuery[1].MeanScore, 1e-9)
	assert.InDelta(t, 0.55, report.AverageScore, 1e-9)
	assert.GreaterOrEqual(t, report.AverageLatency, time.Duration(0))
}

func TestEvaluate_CollectsFailuresAndContinues(t *testing.T) {
	search := &scriptedSearch{
		results: map[string][]domain.SearchResult{
			"ok query": {{Score: 0.5}},
		},
		errs: map[string]error{
			"bad query": errors.New("embedding service exploded"),
		},
	}
	eval := NewEvalService(search)

	report, err := eval.Evaluate(context.Background(), []string{"bad query", "ok query"}, 5)
	require.NoError(t, err)
	require.Len(t, report.PerQuery, 2)

	assert.Contains(t, report.PerQuery[0].Err, "exploded")
	assert.Empty(t, report.PerQuery[1].Err)

	// Averages cover only the successful query.
	assert.InDelta(t, 0.5, report.AverageScore, 1e-9)
}

func TestEvaluate_EmptyBatch(t *testing.T) {
	eval := NewEvalService(&scriptedSearch{})

	report, err := eval.Evaluate(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Empty(t, report.PerQuery)
	assert.Zero(t, report.AverageScore)
	assert.Zero(t, report.AverageLatency)
}

func TestEvaluate_ZeroResultQuery(t *testing.T) {
	search := &scriptedSearch{
		results: map[string][]domain.SearchResult{},
	}
	eval := NewEvalService(search)

	report, err := eval.Evaluate(context.Background(), []string{"nothing matches"}, 5)
	require.NoError(t, err)
	require.Len(t, report.PerQuery, 1)
	assert.Zero(t, report.PerQuery[0].MeanScore)
	assert.Equal(t, 0, report.PerQuery[0].Results)
}
