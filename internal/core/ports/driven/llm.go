package driven

import "context"

// LLMService provides language model operations.
// This is an optional service - when nil, result summaries degrade to
// deterministic truncation.
type LLMService interface {
	// Summarise produces a one-sentence summary of a job description.
	Summarise(ctx context.Context, text string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
