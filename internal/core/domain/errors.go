package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	// Note: zero search results is a valid response, not ErrNotFound.
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates a fatal configuration problem:
	// index dimension or metric mismatch, chunk overlap >= chunk size,
	// missing required credentials. Never retried.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInput indicates malformed or invalid caller input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Ingestion and search both require embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Summaries degrade to deterministic truncation without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
