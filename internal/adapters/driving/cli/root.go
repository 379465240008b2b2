// Package cli implements the pathfinder command-line interface.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/ports/driven"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/ports/driving"
	"github.com/pathfinder-labs/pathfinder-cli/internal/logger"
)

// version is the build version, overridable at link time.
var version = "dev"

// Services holds the driving services the commands run against.
type Services struct {
	Search   driving.SearchService
	Ingest   driving.IngestService
	Eval     driving.EvalService
	LLM      driven.LLMService // optional; nil degrades summaries to truncation
	Settings domain.AppSettings
}

// services is the active service set. Populated lazily from bootstrap
// on first use; tests set it directly.
var services *Services

// bootstrap builds the real service set. Set by main before Execute.
var bootstrap func() (*Services, error)

// SetBootstrap registers the factory that builds the services on first
// command use. Deferring construction keeps commands like version from
// touching the network.
func SetBootstrap(fn func() (*Services, error)) {
	bootstrap = fn
}

// getServices returns the active services, building them on first use.
func getServices() (*Services, error) {
	if services != nil {
		return services, nil
	}
	if bootstrap == nil {
		return nil, errors.New("services not configured")
	}
	s, err := bootstrap()
	if err != nil {
		return nil, err
	}
	services = s
	return services, nil
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "pathfinder",
	Short: "Retrieval-augmented job matching from the terminal",
	Long: `PathFinder indexes a CSV corpus of job postings and answers
free-text and resume queries against it with semantic search.

Postings are chunked, embedded and stored in a local index. Queries
touching the configured domain keyword table get domain-aware
re-ranking, and resumes are expanded with the keywords they contain.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable verbose diagnostic output on stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under ctx. Long-running
// commands like watch stop when ctx is cancelled.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
