// Package config loads CLI configuration from an optional config file with
// environment variable fallbacks for credentials.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the full configuration surface. The Gemini budget knobs exist
// because the free tier tolerates only a handful of closely spaced calls;
// other providers ignore them.
type Config struct {
	Provider  string `mapstructure:"provider"`
	ModelName string `mapstructure:"model_name"`

	OpenAIAPIKey    string `mapstructure:"openai_api_key"`
	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	GeminiAPIKey    string `mapstructure:"gemini_api_key"`

	RequestTimeoutSeconds    int `mapstructure:"request_timeout_seconds"`
	GeminiSessionCap         int `mapstructure:"gemini_session_cap"`
	GeminiCallSpacingSeconds int `mapstructure:"gemini_call_spacing_seconds"`

	SessionPath string `mapstructure:"session_path"`
}

// DefaultConfig returns a Config populated from the environment.
func DefaultConfig() *Config {
	provider := os.Getenv("POSTFORGE_PROVIDER")
	if provider == "" {
		provider = "openai"
	}
	return &Config{
		Provider:                 provider,
		OpenAIAPIKey:             os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:          os.Getenv("ANTHROPIC_API_KEY"),
		GeminiAPIKey:             os.Getenv("GEMINI_API_KEY"),
		RequestTimeoutSeconds:    60,
		GeminiSessionCap:         15,
		GeminiCallSpacingSeconds: 3,
		SessionPath:              defaultSessionPath(),
	}
}

func defaultSessionPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(homeDir, ".postforge", "session.json")
}

// LoadConfig merges an optional config file over the environment defaults.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	return cfg, nil
}

// APIKey returns the credential for the configured provider.
func (c *Config) APIKey() string {
	switch c.Provider {
	case "openai":
		return c.OpenAIAPIKey
	case "anthropic":
		return c.AnthropicAPIKey
	case "gemini":
		return c.GeminiAPIKey
	default:
		return ""
	}
}
