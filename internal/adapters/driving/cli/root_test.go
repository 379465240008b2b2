package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

// stubSearch returns a fixed result set for any query.
type stubSearch struct {
	results   []domain.SearchResult
	lastQuery string
	lastK     int
}

func (s *stubSearch) Search(_ context.Context, query string, k int) ([]domain.SearchResult, error) {
	s.lastQuery = query
	s.lastK = k
	return s.results, nil
}

func (s *stubSearch) MatchResume(ctx context.Context, resumeText string, k int) ([]domain.SearchResult, error) {
	return s.Search(ctx, resumeText, k)
}

// stubIngest records calls and returns a fixed report.
type stubIngest struct {
	report   domain.IngestReport
	lastPath string
	cleared  bool
}

func (s *stubIngest) Ingest(_ context.Context, csvPath string) (*domain.IngestReport, error) {
	s.lastPath = csvPath
	report := s.report
	return &report, nil
}

func (s *stubIngest) Clear(_ context.Context) error {
	s.cleared = true
	return nil
}

// stubEval returns a fixed report.
type stubEval struct {
	report    domain.EvalReport
	lastCount int
}

func (s *stubEval) Evaluate(_ context.Context, queries []string, _ int) (*domain.EvalReport, error) {
	s.lastCount = len(queries)
	report := s.report
	return &report, nil
}

// setupTestServices installs stub services and returns a cleanup that
// restores the previous state and resets flag values.
func setupTestServices() (*stubSearch, *stubIngest, *stubEval, func()) {
	search := &stubSearch{
		results: []domain.SearchResult{
			{
				Document: domain.Document{
					Meta: domain.PostingMeta{
						Title:    "Finance Associate",
						Company:  "Beta Bank",
						Location: "Porto",
						URL:      "https://careers.betabank.example/2",
					},
				},
				Score:       1.73,
				DomainMatch: true,
			},
		},
	}
	ingest := &stubIngest{report: domain.IngestReport{Postings: 2, Chunks: 3, Skipped: 1}}
	eval := &stubEval{}

	prev := services
	services = &Services{
		Search:   search,
		Ingest:   ingest,
		Eval:     eval,
		Settings: domain.DefaultAppSettings(),
	}

	return search, ingest, eval, func() {
		services = prev
		searchLimit, searchJSON, searchHTML = 5, false, false
		matchLimit, matchJSON, matchHTML = 5, false, false
		evalQueriesFile, evalLimit, evalJSON = "", 5, false
		clearForce = false
		rootCmd.SetArgs(nil)
	}
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "pathfinder", rootCmd.Use)
}

func TestRootCmd_HasVerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	assert.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestGetServices_Unconfigured(t *testing.T) {
	prevServices, prevBootstrap := services, bootstrap
	services, bootstrap = nil, nil
	defer func() { services, bootstrap = prevServices, prevBootstrap }()

	_, err := getServices()
	assert.Error(t, err)
}
