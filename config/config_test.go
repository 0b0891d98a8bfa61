package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("POSTFORGE_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg := DefaultConfig()
	assert.Equal(t, "openai", cfg.Provider)
	assert.Equal(t, "sk-test", cfg.OpenAIAPIKey)
	assert.Equal(t, 60, cfg.RequestTimeoutSeconds)
	assert.Equal(t, 15, cfg.GeminiSessionCap)
	assert.Equal(t, 3, cfg.GeminiCallSpacingSeconds)
	assert.NotEmpty(t, cfg.SessionPath)
}

func TestDefaultConfigProviderFromEnv(t *testing.T) {
	t.Setenv("POSTFORGE_PROVIDER", "gemini")
	cfg := DefaultConfig()
	assert.Equal(t, "gemini", cfg.Provider)
}

func TestLoadConfigWithoutPathUsesDefaults(t *testing.T) {
	t.Setenv("POSTFORGE_PROVIDER", "anthropic")
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", cfg.Provider)
}

func TestLoadConfigMergesFileOverDefaults(t *testing.T) {
	t.Setenv("POSTFORGE_PROVIDER", "")
	t.Setenv("OPENAI_API_KEY", "sk-from-env")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
provider: gemini
model_name: gemini-1.5-pro
gemini_api_key: g-from-file
gemini_session_cap: 5
`), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "gemini", cfg.Provider)
	assert.Equal(t, "gemini-1.5-pro", cfg.ModelName)
	assert.Equal(t, "g-from-file", cfg.GeminiAPIKey)
	assert.Equal(t, 5, cfg.GeminiSessionCap)
	// Values absent from the file keep their defaults.
	assert.Equal(t, "sk-from-env", cfg.OpenAIAPIKey)
	assert.Equal(t, 60, cfg.RequestTimeoutSeconds)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestAPIKeySelectsProviderCredential(t *testing.T) {
	cfg := &Config{
		OpenAIAPIKey:    "o",
		AnthropicAPIKey: "a",
		GeminiAPIKey:    "g",
	}

	cfg.Provider = "openai"
	assert.Equal(t, "o", cfg.APIKey())
	cfg.Provider = "anthropic"
	assert.Equal(t, "a", cfg.APIKey())
	cfg.Provider = "gemini"
	assert.Equal(t, "g", cfg.APIKey())
	cfg.Provider = "bard"
	assert.Empty(t, cfg.APIKey())
}
