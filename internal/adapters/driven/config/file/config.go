// Package file loads and persists application settings from a TOML
// file in the PathFinder config directory.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

// Default locations and environment variables.
const (
	DefaultDirName  = ".pathfinder"
	configFileName  = "config.toml"
	defaultKeyEnv   = "OPENAI_API_KEY"
	dataDirOverride = "PATHFINDER_DATA_DIR"
)

// fileConfig is the on-disk TOML shape. API keys are never written to
// the file; they come from the environment variable named in
// api_key_env.
type fileConfig struct {
	DataDir string `toml:"data_dir,omitempty"`

	Ingestion struct {
		CorpusPath   string `toml:"corpus_path,omitempty"`
		ChunkSize    int    `toml:"chunk_size,omitempty"`
		ChunkOverlap int    `toml:"chunk_overlap,omitempty"`
	} `toml:"ingestion,omitempty"`

	Search struct {
		TopK           int      `toml:"top_k,omitempty"`
		DomainKeywords []string `toml:"domain_keywords,omitempty"`
	} `toml:"search,omitempty"`

	Embedding struct {
		Provider   string `toml:"provider,omitempty"`
		Model      string `toml:"model,omitempty"`
		BaseURL    string `toml:"base_url,omitempty"`
		APIKeyEnv  string `toml:"api_key_env,omitempty"`
		Dimensions int    `toml:"dimensions,omitempty"`
	} `toml:"embedding,omitempty"`

	LLM struct {
		Provider  string `toml:"provider,omitempty"`
		Model     string `toml:"model,omitempty"`
		BaseURL   string `toml:"base_url,omitempty"`
		APIKeyEnv string `toml:"api_key_env,omitempty"`
	} `toml:"llm,omitempty"`
}

// Store loads and saves settings for one config directory.
type Store struct {
	configDir string
	filePath  string
}

// NewStore creates a settings store rooted at configDir. If configDir
// is empty, defaults to ~/.pathfinder.
func NewStore(configDir string) (*Store, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, DefaultDirName)
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	return &Store{
		configDir: configDir,
		filePath:  filepath.Join(configDir, configFileName),
	}, nil
}

// Path returns the configuration file path.
func (s *Store) Path() string {
	return s.filePath
}

// Load reads settings from disk, layering them over the defaults and
// then over the environment. A missing file yields the defaults.
func (s *Store) Load() (domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	settings.DataDir = filepath.Join(s.configDir, "data")

	var cfg fileConfig
	data, err := os.ReadFile(s.filePath)
	switch {
	case os.IsNotExist(err):
		// No config file yet - defaults apply.
	case err != nil:
		return settings, fmt.Errorf("reading config file: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return settings, fmt.Errorf("%w: parsing %s: %v",
				domain.ErrInvalidConfig, s.filePath, err)
		}
	}

	applyFile(&settings, cfg)
	applyEnv(&settings, cfg)

	return settings, nil
}

// Save writes the persistable parts of settings to disk. API keys are
// deliberately not written.
func (s *Store) Save(settings domain.AppSettings) error {
	var cfg fileConfig
	cfg.DataDir = settings.DataDir
	cfg.Ingestion.CorpusPath = settings.Ingestion.CorpusPath
	cfg.Ingestion.ChunkSize = settings.Ingestion.ChunkSize
	cfg.Ingestion.ChunkOverlap = settings.Ingestion.ChunkOverlap
	cfg.Search.TopK = settings.Search.TopK
	cfg.Search.DomainKeywords = settings.Search.DomainKeywords
	cfg.Embedding.Provider = settings.Embedding.Provider.String()
	cfg.Embedding.Model = settings.Embedding.Model
	cfg.Embedding.BaseURL = settings.Embedding.BaseURL
	cfg.Embedding.Dimensions = settings.Embedding.Dimensions
	cfg.LLM.Provider = settings.LLM.Provider.String()
	cfg.LLM.Model = settings.LLM.Model
	cfg.LLM.BaseURL = settings.LLM.BaseURL

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(s.filePath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// applyFile overlays non-zero file values onto settings.
func applyFile(settings *domain.AppSettings, cfg fileConfig) {
	if cfg.DataDir != "" {
		settings.DataDir = cfg.DataDir
	}
	if cfg.Ingestion.CorpusPath != "" {
		settings.Ingestion.CorpusPath = cfg.Ingestion.CorpusPath
	}
	if cfg.Ingestion.ChunkSize > 0 {
		settings.Ingestion.ChunkSize = cfg.Ingestion.ChunkSize
	}
	if cfg.Ingestion.ChunkOverlap > 0 {
		settings.Ingestion.ChunkOverlap = cfg.Ingestion.ChunkOverlap
	}
	if cfg.Search.TopK > 0 {
		settings.Search.TopK = cfg.Search.TopK
	}
	if len(cfg.Search.DomainKeywords) > 0 {
		settings.Search.DomainKeywords = cfg.Search.DomainKeywords
	}
	if cfg.Embedding.Provider != "" {
		settings.Embedding.Provider = domain.AIProvider(cfg.Embedding.Provider)
	}
	if cfg.Embedding.Model != "" {
		settings.Embedding.Model = cfg.Embedding.Model
	}
	if cfg.Embedding.BaseURL != "" {
		settings.Embedding.BaseURL = cfg.Embedding.BaseURL
	}
	if cfg.Embedding.Dimensions > 0 {
		settings.Embedding.Dimensions = cfg.Embedding.Dimensions
	}
	if cfg.LLM.Provider != "" {
		settings.LLM.Provider = domain.AIProvider(cfg.LLM.Provider)
	}
	if cfg.LLM.Model != "" {
		settings.LLM.Model = cfg.LLM.Model
	}
	if cfg.LLM.BaseURL != "" {
		settings.LLM.BaseURL = cfg.LLM.BaseURL
	}
}

// applyEnv resolves API keys and directory overrides from the
// environment. godotenv has already folded any .env file into the
// process environment by the time this runs.
func applyEnv(settings *domain.AppSettings, cfg fileConfig) {
	embedKeyEnv := cfg.Embedding.APIKeyEnv
	if embedKeyEnv == "" {
		embedKeyEnv = defaultKeyEnv
	}
	settings.Embedding.APIKey = os.Getenv(embedKeyEnv)

	llmKeyEnv := cfg.LLM.APIKeyEnv
	if llmKeyEnv == "" {
		llmKeyEnv = defaultKeyEnv
	}
	settings.LLM.APIKey = os.Getenv(llmKeyEnv)

	if dir := os.Getenv(dataDirOverride); dir != "" {
		settings.DataDir = dir
	}
}
