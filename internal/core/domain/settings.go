package domain

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible gateways).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the embedding vector size. Zero means the default
	// for the model.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// ResolvedDimensions returns the configured dimensions, falling back to
// the known size for the model.
func (e EmbeddingSettings) ResolvedDimensions() int {
	if e.Dimensions > 0 {
		return e.Dimensions
	}
	return EmbeddingDimensions()[e.Model]
}

// LLMSettings holds LLM provider configuration. The LLM is optional;
// when unconfigured, result summaries degrade to truncation.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible gateways).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// IngestionSettings holds corpus ingestion configuration.
type IngestionSettings struct {
	// CorpusPath is the default CSV corpus to ingest and watch.
	CorpusPath string

	// ChunkSize is the maximum chunk length in bytes.
	ChunkSize int

	// ChunkOverlap is the byte overlap between consecutive chunks.
	ChunkOverlap int
}

// SearchSettings holds retrieval behaviour configuration.
type SearchSettings struct {
	// TopK is the default number of results to return.
	TopK int

	// DomainKeywords drives the refinement step: a query containing any
	// of these terms prefers results that also contain one. Empty means
	// the built-in table.
	DomainKeywords []string
}

// Keywords returns the configured keyword table, or the built-in
// default when none is set.
func (s SearchSettings) Keywords() []string {
	if len(s.DomainKeywords) > 0 {
		return s.DomainKeywords
	}
	return DefaultDomainKeywords
}

// AppSettings holds all application settings.
type AppSettings struct {
	// DataDir is where the index database lives.
	DataDir string

	// Ingestion holds corpus ingestion settings.
	Ingestion IngestionSettings

	// Search holds retrieval behaviour settings.
	Search SearchSettings

	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings
}

// DefaultAppSettings returns settings with sensible defaults. The
// embedding API key is not defaulted here; it comes from the
// environment at load time.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Ingestion: IngestionSettings{
			ChunkSize:    1000,
			ChunkOverlap: 100,
		},
		Search: SearchSettings{
			TopK: 5,
		},
		Embedding: EmbeddingSettings{
			Provider: AIProviderOpenAI,
			Model:    "text-embedding-3-small",
		},
		LLM: LLMSettings{
			Provider: AIProviderOpenAI,
			Model:    "gpt-4o-mini",
		},
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
