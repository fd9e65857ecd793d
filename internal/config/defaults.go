package config

import "time"

// DefaultConfigFile is the config file looked up in the working directory.
const DefaultConfigFile = ".concierge.yml"

// defaultModels maps each generative provider to the model used when none is configured.
var defaultModels = map[ProviderType]string{
	ProviderOpenAI:    "gpt-3.5-turbo",
	ProviderAnthropic: "claude-haiku-4-5-20251001",
	ProviderGoogle:    "gemini-2.5-flash",
	ProviderOllama:    "llama3",
}

// defaultEmbeddingModels maps each embedding provider to its default model.
var defaultEmbeddingModels = map[ProviderType]string{
	ProviderOpenAI: "text-embedding-3-small",
	ProviderOllama: "nomic-embed-text",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		EnvFile: ".env",
		Database: DatabaseConfig{
			Driver: DriverSQLite,
			Path:   ".concierge/interactions.db",
		},
		Server: ServerConfig{
			Port:           8000,
			AllowedOrigins: []string{"*"},
			RequestTimeout: 60 * time.Second,
		},
		Generative: GenerativeConfig{
			Enabled:     true,
			Provider:    ProviderOpenAI,
			Model:       defaultModels[ProviderOpenAI],
			Confidence:  0.65,
			MaxTokens:   256,
			Temperature: 0.7,
			Timeout:     30 * time.Second,
			RPM:         60,
		},
		Extractive: ExtractiveConfig{
			Provider:          ExtractiveNone,
			Model:             "deepset/minilm-uncased-squad2",
			Threshold:         0.7,
			Timeout:           20 * time.Second,
			EmbeddingProvider: ProviderOpenAI,
			EmbeddingModel:    defaultEmbeddingModels[ProviderOpenAI],
			IndexDir:          ".concierge/index",
		},
	}
}

// DefaultModel returns the default generative model for a provider, or ""
// when the provider is unknown.
func DefaultModel(p ProviderType) string {
	return defaultModels[p]
}

// DefaultEmbeddingModel returns the default embedding model for a provider.
func DefaultEmbeddingModel(p ProviderType) string {
	return defaultEmbeddingModels[p]
}
