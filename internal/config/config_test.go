package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 3, cfg.Pipeline.BatchSize)
	assert.Equal(t, 3, cfg.Ingest.RecencyMonths)
	assert.Equal(t, 48*time.Hour, cfg.Trends.Lookback)
	assert.Equal(t, 15, cfg.Trends.OnboardingTop)
	assert.Equal(t, 10, cfg.Trends.TrendingTop)
	assert.Equal(t, 50, cfg.Feed.CandidateWindow)
	assert.Equal(t, 20, cfg.Feed.Limit)
	assert.Equal(t, 15000, cfg.LLM.MaxInputChars)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlContent := `
pipeline:
  batchSize: 5
trends:
  lookback: 24h
llm:
  provider: openai
  model: gpt-4o-mini
`
	require.NoError(t, os.WriteFile(path, []byte(yamlContent), 0o600))

	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("PIPELINE_BATCH_SIZE", "7")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7, cfg.Pipeline.BatchSize, "env overrides file")
	assert.Equal(t, 24*time.Hour, cfg.Trends.Lookback)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 20, cfg.Feed.Limit, "unset keys keep defaults")
	assert.NoError(t, cfg.ValidateLLM())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Pipeline.BatchSize = 0
	cfg.Feed.Limit = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "batchSize")
	assert.Contains(t, err.Error(), "feed.limit")
}

func TestValidateLLM(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		cfg := Default()
		cfg.LLM.APIKey = ""
		assert.Error(t, cfg.ValidateLLM())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := Default()
		cfg.LLM.Provider = "llama"
		cfg.LLM.APIKey = "x"
		assert.Error(t, cfg.ValidateLLM())
	})
}
