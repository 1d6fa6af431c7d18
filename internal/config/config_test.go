package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pdf-rag/internal/errs"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "pdf_documents", cfg.Collection)
	assert.Equal(t, "chromem", cfg.Store.Driver)
	assert.Equal(t, 1000, cfg.RAG.ChunkSize)
	assert.Equal(t, 150, cfg.RAG.ChunkOverlap)
	assert.Equal(t, 10, cfg.RAG.TopK)
	assert.Equal(t, "ollama", cfg.EmbedLLM.Provider)
}

func TestLoadConfigFromFile(t *testing.T) {
	path := writeConfig(t, `
collection: my_docs
store:
  driver: pgvector
  dsn: postgres://example/rag
embed_llm:
  provider: openai
  base_url: https://api.example.com/v1
  key: sk-test
  model: text-embedding-3-small
inference_llm:
  provider: openai
  base_url: https://api.example.com/v1
  key: sk-test
  model: gpt-4o-mini
rag:
  chunk_size: 500
  chunk_overlap: 50
  top_k: 4
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "my_docs", cfg.Collection)
	assert.Equal(t, "pgvector", cfg.Store.Driver)
	assert.Equal(t, 500, cfg.RAG.ChunkSize)
	assert.Equal(t, 4, cfg.RAG.TopK)
	assert.Equal(t, 32, cfg.RAG.BatchSize, "unset values fall back to defaults")
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("COLLECTION_NAME", "env_docs")
	t.Setenv("LLM_API_KEY", "sk-env")
	t.Setenv("EMBEDDING_MODEL", "env-embed")
	t.Setenv("RAG_TOP_K", "3")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env_docs", cfg.Collection)
	assert.Equal(t, "sk-env", cfg.EmbedLLM.Key)
	assert.Equal(t, "sk-env", cfg.InferLLM.Key)
	assert.Equal(t, "env-embed", cfg.EmbedLLM.Model)
	assert.Equal(t, 3, cfg.RAG.TopK)
}

func TestLoadConfigKeepsExplicitZeroOverlap(t *testing.T) {
	path := writeConfig(t, `
rag:
  chunk_overlap: 0
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 0, cfg.RAG.ChunkOverlap, "an explicit zero is a user choice, not an unset field")
	assert.Equal(t, 1000, cfg.RAG.ChunkSize, "unset fields keep their defaults")
	assert.Equal(t, 32, cfg.RAG.BatchSize)
}

func TestLoadConfigRejectsExplicitZeroBatchSize(t *testing.T) {
	path := writeConfig(t, `
rag:
  batch_size: 0
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
	assert.Contains(t, err.Error(), "batch_size")
}

func TestValidateMissingCredentialIsFatal(t *testing.T) {
	path := writeConfig(t, `
embed_llm:
  provider: openai
  model: text-embedding-3-small
inference_llm:
  provider: ollama
`)
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConfiguration)
	assert.Contains(t, err.Error(), "key is required")
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(cfg *Config)
		message string
	}{
		{
			"overlap not below chunk size",
			func(cfg *Config) { cfg.RAG.ChunkOverlap = cfg.RAG.ChunkSize },
			"chunk_overlap",
		},
		{
			"non-positive chunk size",
			func(cfg *Config) { cfg.RAG.ChunkSize = -1 },
			"chunk_size",
		},
		{
			"non-positive top_k",
			func(cfg *Config) { cfg.RAG.TopK = -2 },
			"top_k",
		},
		{
			"non-positive batch size",
			func(cfg *Config) { cfg.RAG.BatchSize = 0 },
			"batch_size",
		},
		{
			"empty collection",
			func(cfg *Config) { cfg.Collection = "" },
			"collection",
		},
		{
			"unknown store driver",
			func(cfg *Config) { cfg.Store.Driver = "cassandra" },
			"store driver",
		},
		{
			"unknown provider",
			func(cfg *Config) { cfg.InferLLM.Provider = "bedrock" },
			"provider",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := Validate(cfg)
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrConfiguration)
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}
