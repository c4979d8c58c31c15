package llm

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Provider names accepted in Config.Provider.
const (
	ProviderGemini     = "gemini"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderAnthropic  = "anthropic"
	ProviderMock       = "mock"
)

// Config holds LLM provider configuration.
type Config struct {
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	OpenRouter OpenAIConfig
	Anthropic  AnthropicConfig
	Retry      RetryConfig
}

// GeminiConfig configures the Gemini provider.
type GeminiConfig struct {
	APIKey string
	Model  string
}

// OpenAIConfig configures OpenAI and OpenAI-compatible providers.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional override
}

// AnthropicConfig configures the Anthropic provider.
type AnthropicConfig struct {
	APIKey string
	Model  string
}

// RetryConfig configures retries of transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64

	// Logger receives retry attempts at debug level. Nil uses slog.Default.
	Logger *slog.Logger
}

// DefaultConfig returns the defaults. Gemini is the default provider.
func DefaultConfig() Config {
	return Config{
		Provider:   ProviderGemini,
		Gemini:     GeminiConfig{Model: "gemini-flash"},
		OpenAI:     OpenAIConfig{Model: "gpt-4o-mini"},
		OpenRouter: OpenAIConfig{Model: "google/gemini-2.5-flash", BaseURL: defaultOpenRouterBaseURL},
		Anthropic:  AnthropicConfig{Model: "claude-haiku"},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     8 * time.Second,
			Multiplier:  2.0,
		},
	}
}

// ConfigFromEnv builds a Config from CERMAT_* variables over the defaults.
// It reports false when no provider was selected explicitly.
func ConfigFromEnv() (Config, bool) {
	cfg := DefaultConfig()

	setIf := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	setIf(&cfg.Gemini.APIKey, "CERMAT_GEMINI_API_KEY")
	setIf(&cfg.Gemini.Model, "CERMAT_GEMINI_MODEL")
	setIf(&cfg.OpenAI.APIKey, "CERMAT_OPENAI_API_KEY")
	setIf(&cfg.OpenAI.Model, "CERMAT_OPENAI_MODEL")
	setIf(&cfg.OpenAI.BaseURL, "CERMAT_OPENAI_BASE_URL")
	setIf(&cfg.OpenRouter.APIKey, "CERMAT_OPENROUTER_API_KEY")
	setIf(&cfg.OpenRouter.Model, "CERMAT_OPENROUTER_MODEL")
	setIf(&cfg.Anthropic.APIKey, "CERMAT_ANTHROPIC_API_KEY")
	setIf(&cfg.Anthropic.Model, "CERMAT_ANTHROPIC_MODEL")

	p := os.Getenv("CERMAT_LLM_PROVIDER")
	if p == "" {
		return cfg, false
	}
	cfg.Provider = p
	return cfg, true
}

// DiscoverConfig probes the vendors' standard API key variables in priority
// order (Gemini, OpenAI, Anthropic, OpenRouter) and selects the first
// provider whose key is set.
func DiscoverConfig() (Config, bool) {
	cfg := DefaultConfig()

	switch {
	case os.Getenv("GEMINI_API_KEY") != "":
		cfg.Provider = ProviderGemini
		cfg.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	case os.Getenv("OPENAI_API_KEY") != "":
		cfg.Provider = ProviderOpenAI
		cfg.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	case os.Getenv("ANTHROPIC_API_KEY") != "":
		cfg.Provider = ProviderAnthropic
		cfg.Anthropic.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	case os.Getenv("OPENROUTER_API_KEY") != "":
		cfg.Provider = ProviderOpenRouter
		cfg.OpenRouter.APIKey = os.Getenv("OPENROUTER_API_KEY")
	default:
		return Config{}, false
	}
	return cfg, true
}

// Validate checks that the selected provider has its credential.
func (c Config) Validate() error {
	var key, env string
	switch c.Provider {
	case ProviderGemini:
		key, env = c.Gemini.APIKey, "CERMAT_GEMINI_API_KEY"
	case ProviderOpenAI:
		key, env = c.OpenAI.APIKey, "CERMAT_OPENAI_API_KEY"
	case ProviderOpenRouter:
		key, env = c.OpenRouter.APIKey, "CERMAT_OPENROUTER_API_KEY"
	case ProviderAnthropic:
		key, env = c.Anthropic.APIKey, "CERMAT_ANTHROPIC_API_KEY"
	case ProviderMock:
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if key == "" {
		return fmt.Errorf("%s is required for the %s provider", env, c.Provider)
	}
	return nil
}
