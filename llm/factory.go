package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/postforge/postforge/logger"
)

// Supported provider identifiers. This set is closed: anything else fails
// at construction time, not on first use.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

var (
	ErrUnsupportedProvider = errors.New("unsupported provider")
	ErrMissingAPIKey       = errors.New("API key is required")
)

// Defaults for the Gemini free-tier call budget. Both are per adapter
// instance and overridable through Config.
const (
	DefaultGeminiSessionCap  = 15
	DefaultGeminiCallSpacing = 3 * time.Second
)

// Config carries everything needed to construct a provider adapter.
type Config struct {
	Provider string
	APIKey   string
	Model    string

	// RequestTimeout bounds every individual model call. Zero means the
	// engine default of 60 seconds.
	RequestTimeout time.Duration

	// SessionCallCap and CallSpacing tune the Gemini call budget. Zero
	// values select the free-tier defaults. Ignored by other providers.
	SessionCallCap int
	CallSpacing    time.Duration

	Logger logger.Logger
}

// NewGenerator builds the adapter for the configured provider. Construction
// never performs a network call; the first model interaction happens on the
// first operation.
func NewGenerator(cfg Config) (Generator, error) {
	switch cfg.Provider {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, cfg.Provider)
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w for provider %q", ErrMissingAPIKey, cfg.Provider)
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		client, err := newOpenAIClient(cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return newEngine(ProviderOpenAI, client.completion, nil, cfg.RequestTimeout, cfg.Logger), nil

	case ProviderAnthropic:
		client, err := newAnthropicClient(cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return newEngine(ProviderAnthropic, client.completion, nil, cfg.RequestTimeout, cfg.Logger), nil

	default: // ProviderGemini
		client, err := newGeminiClient(context.Background(), cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		sessionCap := cfg.SessionCallCap
		if sessionCap <= 0 {
			sessionCap = DefaultGeminiSessionCap
		}
		spacing := cfg.CallSpacing
		if spacing <= 0 {
			spacing = DefaultGeminiCallSpacing
		}
		limiter := newCallLimiter(sessionCap, spacing)
		eng := newEngine(ProviderGemini, client.completion, limiter, cfg.RequestTimeout, cfg.Logger)
		eng.closer = client.close
		return eng, nil
	}
}
