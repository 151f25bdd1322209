package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "jaivier", cfg.Name)
	assert.Equal(t, "gemini-2.0-flash", cfg.LLM.Model)
	assert.Equal(t, 30, cfg.Defaults.ProjectDays)
	assert.Equal(t, 14, cfg.Defaults.SprintDays)
	assert.Equal(t, 7, cfg.Defaults.TaskDueDays)
	assert.Equal(t, 8.0, cfg.Defaults.EstimatedHours)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	t.Run("missing file returns defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().API.BaseURL, cfg.API.BaseURL)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
api:
  base_url: https://jaivier.example.com
defaults:
  sprint_days: 21
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "https://jaivier.example.com", cfg.API.BaseURL)
		assert.Equal(t, 21, cfg.Defaults.SprintDays)
		// Untouched values keep defaults
		assert.Equal(t, 30, cfg.Defaults.ProjectDays)
	})

	t.Run("malformed yaml errors", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("api: [not a map"), 0644))

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestEnvOverrides(t *testing.T) {
	t.Run("GEMINI_API_KEY sets llm key", func(t *testing.T) {
		t.Setenv("GEMINI_API_KEY", "test-key")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "test-key", cfg.LLM.APIKey)
	})

	t.Run("JAIVIER_API_URL overrides base url", func(t *testing.T) {
		t.Setenv("JAIVIER_API_URL", "http://backend:9000")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "http://backend:9000", cfg.API.BaseURL)
	})

	t.Run("credentials from environment", func(t *testing.T) {
		t.Setenv("JAIVIER_USERNAME", "admin")
		t.Setenv("JAIVIER_PASSWORD", "hunter2")

		cfg := &Config{}
		cfg.applyEnvOverrides()

		assert.Equal(t, "admin", cfg.API.Username)
		assert.Equal(t, "hunter2", cfg.API.Password)
	})
}

func TestValidate(t *testing.T) {
	t.Run("empty base url rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.API.BaseURL = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("non-positive estimate rejected", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Defaults.EstimatedHours = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestTimeouts(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "60s", cfg.LLM.Timeout)
	assert.Equal(t, float64(60), cfg.GetLLMTimeout().Seconds())

	cfg.API.Timeout = "garbage"
	assert.Equal(t, float64(30), cfg.GetAPITimeout().Seconds())
}
