// Command pathfinder is a retrieval-augmented job matching CLI. It
// indexes a CSV corpus of postings and answers free-text and resume
// queries against it.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pathfinder-labs/pathfinder-cli/internal/adapters/driven/ai"
	configfile "github.com/pathfinder-labs/pathfinder-cli/internal/adapters/driven/config/file"
	"github.com/pathfinder-labs/pathfinder-cli/internal/adapters/driven/storage/sqlite"
	"github.com/pathfinder-labs/pathfinder-cli/internal/adapters/driving/cli"
	"github.com/pathfinder-labs/pathfinder-cli/internal/chunker"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/services"
	"github.com/pathfinder-labs/pathfinder-cli/internal/logger"
)

func main() {
	// A local .env is optional; a missing file is not an error.
	if err := godotenv.Load(); err == nil {
		logger.Debug("Loaded environment from .env")
	}

	cli.SetBootstrap(buildServices)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildServices wires the adapters into the core services. Called
// lazily on the first command that needs them.
func buildServices() (*cli.Services, error) {
	store, err := configfile.NewStore("")
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settings, err := store.Load()
	if err != nil {
		return nil, err
	}

	embedder, err := ai.CreateAndValidateEmbeddingService(settings.Embedding)
	if err != nil {
		return nil, err
	}

	llm, err := ai.CreateAndValidateLLMService(settings.LLM)
	if err != nil {
		// Summaries degrade to truncation without an LLM.
		logger.Warn("LLM unavailable, summaries fall back to truncation: %v", err)
		llm = nil
	}

	db, err := sqlite.NewStore(settings.DataDir, embedder.Dimensions())
	if err != nil {
		return nil, err
	}

	splitter, err := chunker.New(
		chunker.WithChunkSize(settings.Ingestion.ChunkSize),
		chunker.WithOverlap(settings.Ingestion.ChunkOverlap),
	)
	if err != nil {
		return nil, err
	}

	docStore := db.DocumentStore()
	vector := db.VectorIndex()
	search := services.NewSearchService(docStore, vector, embedder, settings.Search.Keywords())

	return &cli.Services{
		Search:   search,
		Ingest:   services.NewIngestService(docStore, vector, embedder, splitter),
		Eval:     services.NewEvalService(search),
		LLM:      llm,
		Settings: settings,
	}, nil
}
