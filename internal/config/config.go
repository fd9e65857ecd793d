package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const envPrefix = "CONCIERGE_"

// minGenerativeConfidence is the score of the terminal answer. Generated
// answers must rank strictly above it.
const minGenerativeConfidence = 0.5

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (CONCIERGE_*). Nested keys use a double
// underscore: CONCIERGE_GENERATIVE__MODEL sets generative.model.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	// Hosted platforms hand out the database as DATABASE_URL.
	if url := os.Getenv("DATABASE_URL"); url != "" && cfg.Database.URL == "" {
		cfg.Database.URL = url
		cfg.Database.Driver = DriverPostgres
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validProviders = map[ProviderType]bool{
	ProviderAnthropic: true,
	ProviderOpenAI:    true,
	ProviderGoogle:    true,
	ProviderOllama:    true,
}

var validEmbeddingProviders = map[ProviderType]bool{
	ProviderOpenAI: true,
	ProviderOllama: true,
}

var validExtractive = map[ExtractiveType]bool{
	ExtractiveNone:        true,
	ExtractiveHuggingFace: true,
	ExtractiveSemantic:    true,
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverSQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("database.path is required for sqlite")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for postgres")
		}
	default:
		return fmt.Errorf("invalid database.driver %q: must be one of sqlite, postgres", c.Database.Driver)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}

	if err := c.Extractive.validate(); err != nil {
		return err
	}
	if err := c.Generative.validate(c.Extractive.Threshold); err != nil {
		return err
	}
	return nil
}

func (e ExtractiveConfig) validate() error {
	if !validExtractive[e.Provider] {
		return fmt.Errorf("invalid extractive.provider %q: must be one of none, huggingface, semantic", e.Provider)
	}
	if e.Threshold <= 0 || e.Threshold > 1 {
		return fmt.Errorf("extractive.threshold must be in (0, 1], got %v", e.Threshold)
	}
	if e.Provider == ExtractiveNone {
		return nil
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("extractive.timeout must be positive")
	}
	switch e.Provider {
	case ExtractiveHuggingFace:
		if e.Model == "" {
			return fmt.Errorf("extractive.model is required for huggingface")
		}
	case ExtractiveSemantic:
		if !validEmbeddingProviders[e.EmbeddingProvider] {
			return fmt.Errorf("invalid extractive.embedding_provider %q: must be one of openai, ollama", e.EmbeddingProvider)
		}
		if e.IndexDir == "" {
			return fmt.Errorf("extractive.index_dir is required for semantic")
		}
	}
	return nil
}

func (g GenerativeConfig) validate(threshold float64) error {
	if !g.Enabled {
		return nil
	}
	if !validProviders[g.Provider] {
		return fmt.Errorf("invalid generative.provider %q: must be one of anthropic, openai, google, ollama", g.Provider)
	}
	if g.Model == "" {
		return fmt.Errorf("generative.model is required")
	}
	if g.Confidence <= minGenerativeConfidence || g.Confidence >= threshold {
		return fmt.Errorf("generative.confidence must be in (%v, %v), got %v",
			minGenerativeConfidence, threshold, g.Confidence)
	}
	if g.MaxTokens <= 0 {
		return fmt.Errorf("generative.max_tokens must be positive")
	}
	if g.Temperature < 0 || g.Temperature > 2 {
		return fmt.Errorf("generative.temperature must be in [0, 2]")
	}
	if g.Timeout <= 0 {
		return fmt.Errorf("generative.timeout must be positive")
	}
	if g.RPM < 0 {
		return fmt.Errorf("generative.rpm must be non-negative")
	}
	return nil
}

// APIKeyEnvVar returns the conventional environment variable name for
// the API key of the given provider.
func APIKeyEnvVar(provider ProviderType) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderGoogle:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}
