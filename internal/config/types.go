package config

import "time"

// ProviderType identifies a generative or embedding provider.
type ProviderType string

const (
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderGoogle    ProviderType = "google"
	ProviderOllama    ProviderType = "ollama"
)

// ExtractiveType identifies the extractive question-answering backend.
type ExtractiveType string

const (
	ExtractiveNone        ExtractiveType = "none"
	ExtractiveHuggingFace ExtractiveType = "huggingface"
	ExtractiveSemantic    ExtractiveType = "semantic"
)

// DatabaseDriver selects where interactions are logged.
type DatabaseDriver string

const (
	DriverSQLite   DatabaseDriver = "sqlite"
	DriverPostgres DatabaseDriver = "postgres"
)

// Config is the top-level concierge configuration, corresponding to .concierge.yml.
type Config struct {
	KnowledgeFile string           `yaml:"knowledge_file" koanf:"knowledge_file"`
	EnvFile       string           `yaml:"env_file" koanf:"env_file"`
	Database      DatabaseConfig   `yaml:"database" koanf:"database"`
	Server        ServerConfig     `yaml:"server" koanf:"server"`
	Log           LogConfig        `yaml:"log" koanf:"log"`
	Generative    GenerativeConfig `yaml:"generative" koanf:"generative"`
	Extractive    ExtractiveConfig `yaml:"extractive" koanf:"extractive"`
}

// DatabaseConfig holds the interaction log storage settings.
type DatabaseConfig struct {
	Driver DatabaseDriver `yaml:"driver" koanf:"driver"`
	Path   string         `yaml:"path" koanf:"path"`
	URL    string         `yaml:"url,omitempty" koanf:"url"`
}

type ServerConfig struct {
	Port           int           `yaml:"port" koanf:"port"`
	AllowedOrigins []string      `yaml:"allowed_origins" koanf:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout" koanf:"request_timeout"`
}

type LogConfig struct {
	JSON  bool `yaml:"json" koanf:"json"`
	Debug bool `yaml:"debug" koanf:"debug"`
}

// GenerativeConfig controls the LLM fallback. Confidence is the fixed score
// attached to every generated answer.
type GenerativeConfig struct {
	Enabled     bool          `yaml:"enabled" koanf:"enabled"`
	Provider    ProviderType  `yaml:"provider" koanf:"provider"`
	Model       string        `yaml:"model" koanf:"model"`
	Confidence  float64       `yaml:"confidence" koanf:"confidence"`
	MaxTokens   int           `yaml:"max_tokens" koanf:"max_tokens"`
	Temperature float32       `yaml:"temperature" koanf:"temperature"`
	Timeout     time.Duration `yaml:"timeout" koanf:"timeout"`
	RPM         int           `yaml:"rpm" koanf:"rpm"`
}

// ExtractiveConfig controls the extractive QA strategy. Answers scoring at or
// below Threshold are discarded.
type ExtractiveConfig struct {
	Provider          ExtractiveType `yaml:"provider" koanf:"provider"`
	Model             string         `yaml:"model" koanf:"model"`
	Threshold         float64        `yaml:"threshold" koanf:"threshold"`
	Timeout           time.Duration  `yaml:"timeout" koanf:"timeout"`
	EmbeddingProvider ProviderType   `yaml:"embedding_provider" koanf:"embedding_provider"`
	EmbeddingModel    string         `yaml:"embedding_model" koanf:"embedding_model"`
	IndexDir          string         `yaml:"index_dir" koanf:"index_dir"`
}
