package llm

import (
	"context"
	"fmt"
	"os"

	"github.com/candidate-concierge/concierge/internal/config"
)

// NewProvider creates the generative provider described by cfg. Missing
// API keys yield an error wrapping ErrNotConfigured so callers can run
// without the generative fallback. A positive RPM adds rate limiting.
func NewProvider(ctx context.Context, cfg config.GenerativeConfig) (Provider, error) {
	var (
		p   Provider
		err error
	)

	switch cfg.Provider {
	case config.ProviderAnthropic, config.ProviderOpenAI, config.ProviderGoogle:
		envVar := config.APIKeyEnvVar(cfg.Provider)
		apiKey := os.Getenv(envVar)
		if apiKey == "" {
			return nil, fmt.Errorf("%w: %s environment variable is not set", ErrNotConfigured, envVar)
		}
		switch cfg.Provider {
		case config.ProviderAnthropic:
			p = NewAnthropicProvider(apiKey, cfg.Model)
		case config.ProviderOpenAI:
			p = NewOpenAIProvider(apiKey, os.Getenv("OPENAI_BASE_URL"), cfg.Model)
		case config.ProviderGoogle:
			p, err = NewGoogleProvider(ctx, apiKey, cfg.Model)
			if err != nil {
				return nil, err
			}
		}

	case config.ProviderOllama:
		host := os.Getenv("OLLAMA_HOST")
		if host == "" {
			host = "http://localhost:11434"
		}
		p = NewOllamaProvider(host, cfg.Model)

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", cfg.Provider)
	}

	if cfg.RPM > 0 {
		p = NewRateLimitedProvider(p, cfg.RPM)
	}
	return p, nil
}
