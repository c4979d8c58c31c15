package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrNotConfigured is returned when no provider credential can be found.
var ErrNotConfigured = errors.New("no LLM provider configured")

// NewProvider creates the configured provider wrapped as
// caller -> retry -> logging -> base.
func NewProvider(ctx context.Context, cfg Config, recorder Recorder) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	switch cfg.Provider {
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithRetry(WithLogging(base, recorder), cfg.Retry), nil
}

// NewProviderFromEnv selects a provider from CERMAT_LLM_PROVIDER or, when
// unset, from the first vendor API key found in the environment. Retries
// are logged to logger when it is not nil.
func NewProviderFromEnv(ctx context.Context, recorder Recorder, logger *slog.Logger) (Provider, error) {
	cfg, ok := ConfigFromEnv()
	if !ok {
		cfg, ok = DiscoverConfig()
	}
	if !ok {
		return nil, ErrNotConfigured
	}
	cfg.Retry.Logger = logger
	return NewProvider(ctx, cfg, recorder)
}
