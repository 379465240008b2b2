package services

import (
	"context"
	"time"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/ports/driving"
	"github.com/pathfinder-labs/pathfinder-cli/internal/logger"
)

// Ensure EvalService implements the interface.
var _ driving.EvalService = (*EvalService)(nil)

// EvalService measures retrieval latency and score quality over a
// query batch.
type EvalService struct {
	search driving.SearchService
}

// NewEvalService creates an evaluation service on top of search.
func NewEvalService(search driving.SearchService) *EvalService {
	return &EvalService{search: search}
}

// Evaluate runs Search for each query and aggregates latency and score
// statistics. A failing query is recorded in its QueryResult and the
// batch continues; averages cover only successful queries.
func (s *EvalService) Evaluate(ctx context.Context, queries []string, k int) (*domain.EvalReport, error) {
	logger.Section("Evaluation")
	logger.Info("Evaluating %d queries (k=%d)", len(queries), k)

	report := &domain.EvalReport{
		PerQuery: make([]domain.QueryResult, 0, len(queries)),
	}

	var totalLatency time.Duration
	var totalScore float64
	var succeeded int

	for _, query := range queries {
		start := time.Now()
		results, err := s.search.Search(ctx, query, k)
		latency := time.Since(start)

		qr := domain.QueryResult{
			Query:   query,
			Latency: latency,
			Results: len(results),
		}
		if err != nil {
			qr.Err = err.Error()
			logger.Warn("Query %q failed: %v", query, err)
			report.PerQuery = append(report.PerQuery, qr)
			continue
		}

		if len(results) > 0 {
			var sum float64
			for _, r := range results {
				sum += r.Score
			}
			qr.MeanScore = sum / float64(len(results))
		}

		totalLatency += latency
		totalScore += qr.MeanScore
		succeeded++
		report.PerQuery = append(report.PerQuery, qr)
	}

	if succeeded > 0 {
		report.AverageLatency = totalLatency / time.Duration(succeeded)
		report.AverageScore = totalScore / float64(succeeded)
	}

	logger.Info("Evaluation complete: %d/%d queries succeeded", succeeded, len(queries))
	return report, nil
}
