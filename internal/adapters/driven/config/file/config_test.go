package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	settings, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, 1000, settings.Ingestion.ChunkSize)
	assert.Equal(t, 100, settings.Ingestion.ChunkOverlap)
	assert.Equal(t, 5, settings.Search.TopK)
	assert.Equal(t, domain.AIProviderOpenAI, settings.Embedding.Provider)
	assert.Equal(t, "text-embedding-3-small", settings.Embedding.Model)
	assert.Equal(t, filepath.Join(dir, "data"), settings.DataDir)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	content := `
data_dir = "/var/lib/pathfinder"

[ingestion]
corpus_path = "jobs.csv"
chunk_size = 512
chunk_overlap = 64

[search]
top_k = 10
domain_keywords = ["banking", "audit"]

[embedding]
provider = "ollama"
model = "nomic-embed-text"
base_url = "http://embed.local:11434"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewStore(dir)
	require.NoError(t, err)
	settings, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/pathfinder", settings.DataDir)
	assert.Equal(t, "jobs.csv", settings.Ingestion.CorpusPath)
	assert.Equal(t, 512, settings.Ingestion.ChunkSize)
	assert.Equal(t, 64, settings.Ingestion.ChunkOverlap)
	assert.Equal(t, 10, settings.Search.TopK)
	assert.Equal(t, []string{"banking", "audit"}, settings.Search.Keywords())
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, "http://embed.local:11434", settings.Embedding.BaseURL)
}

func TestLoad_APIKeyFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	content := `
[embedding]
provider = "openai"
api_key_env = "PATHFINDER_TEST_KEY"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))
	t.Setenv("PATHFINDER_TEST_KEY", "sk-test")

	store, err := NewStore(dir)
	require.NoError(t, err)
	settings, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, "sk-test", settings.Embedding.APIKey)
	assert.True(t, settings.Embedding.IsConfigured())
}

func TestLoad_DataDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PATHFINDER_DATA_DIR", "/tmp/pf-data")

	store, err := NewStore(dir)
	require.NoError(t, err)
	settings, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/pf-data", settings.DataDir)
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"),
		[]byte("chunk_size = [not toml"), 0600))

	store, err := NewStore(dir)
	require.NoError(t, err)
	_, err = store.Load()
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestSave_RoundTripWithoutSecrets(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	settings := domain.DefaultAppSettings()
	settings.Ingestion.CorpusPath = "corpus.csv"
	settings.Search.TopK = 7
	settings.Embedding.APIKey = "sk-secret"
	require.NoError(t, store.Save(settings))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "sk-secret")

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "corpus.csv", loaded.Ingestion.CorpusPath)
	assert.Equal(t, 7, loaded.Search.TopK)
}
