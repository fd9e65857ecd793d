package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Generative.Provider != ProviderOpenAI {
		t.Errorf("expected default provider %q, got %q", ProviderOpenAI, cfg.Generative.Provider)
	}
	if cfg.Extractive.Threshold != 0.7 {
		t.Errorf("expected default threshold 0.7, got %v", cfg.Extractive.Threshold)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected default port 8000, got %d", cfg.Server.Port)
	}
	if cfg.Database.Driver != DriverSQLite {
		t.Errorf("expected sqlite driver, got %q", cfg.Database.Driver)
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.concierge.yml")

	original := DefaultConfig()
	original.KnowledgeFile = "profile.yaml"
	original.Generative.Provider = ProviderGoogle
	original.Generative.Model = "gemini-2.5-pro"
	original.Generative.Timeout = 45 * time.Second
	original.Extractive.Provider = ExtractiveSemantic
	original.Server.AllowedOrigins = []string{"https://a.example", "https://b.example"}

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.KnowledgeFile != original.KnowledgeFile {
		t.Errorf("knowledge_file: got %q, want %q", loaded.KnowledgeFile, original.KnowledgeFile)
	}
	if loaded.Generative.Provider != original.Generative.Provider {
		t.Errorf("provider: got %q, want %q", loaded.Generative.Provider, original.Generative.Provider)
	}
	if loaded.Generative.Model != original.Generative.Model {
		t.Errorf("model: got %q, want %q", loaded.Generative.Model, original.Generative.Model)
	}
	if loaded.Generative.Timeout != original.Generative.Timeout {
		t.Errorf("timeout: got %v, want %v", loaded.Generative.Timeout, original.Generative.Timeout)
	}
	if loaded.Extractive.Provider != original.Extractive.Provider {
		t.Errorf("extractive: got %q, want %q", loaded.Extractive.Provider, original.Extractive.Provider)
	}
	if len(loaded.Server.AllowedOrigins) != 2 {
		t.Errorf("allowed_origins length: got %d, want 2", len(loaded.Server.AllowedOrigins))
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent.yml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Generative.Confidence != 0.65 {
		t.Errorf("expected default confidence, got %v", cfg.Generative.Confidence)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.yml")
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("CONCIERGE_GENERATIVE__PROVIDER", "anthropic")
	t.Setenv("CONCIERGE_KNOWLEDGE_FILE", "me.yaml")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Generative.Provider != ProviderAnthropic {
		t.Errorf("env override failed: got %q, want %q", loaded.Generative.Provider, ProviderAnthropic)
	}
	if loaded.KnowledgeFile != "me.yaml" {
		t.Errorf("env override failed: got %q", loaded.KnowledgeFile)
	}
}

func TestLoadDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/concierge")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("expected postgres driver, got %q", cfg.Database.Driver)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestValidateValid(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.Generative.Provider = "invalid" }},
		{"empty model", func(c *Config) { c.Generative.Model = "" }},
		{"confidence at terminal", func(c *Config) { c.Generative.Confidence = 0.5 }},
		{"confidence above threshold", func(c *Config) { c.Generative.Confidence = 0.8 }},
		{"confidence equals threshold", func(c *Config) { c.Generative.Confidence = 0.7 }},
		{"threshold above one", func(c *Config) { c.Extractive.Threshold = 1.5 }},
		{"unknown extractive", func(c *Config) { c.Extractive.Provider = "bert" }},
		{"semantic without embedder", func(c *Config) {
			c.Extractive.Provider = ExtractiveSemantic
			c.Extractive.EmbeddingProvider = ProviderAnthropic
		}},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }},
		{"postgres without url", func(c *Config) { c.Database.Driver = DriverPostgres }},
		{"bad port", func(c *Config) { c.Server.Port = 0 }},
		{"zero timeout", func(c *Config) { c.Generative.Timeout = 0 }},
		{"negative rpm", func(c *Config) { c.Generative.RPM = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidateDisabledGenerativeSkipsChecks(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Generative.Enabled = false
	cfg.Generative.Provider = ""
	cfg.Generative.Confidence = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled generative config should validate, got %v", err)
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ProviderType
		want     string
	}{
		{ProviderAnthropic, "ANTHROPIC_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderGoogle, "GOOGLE_API_KEY"},
		{ProviderOllama, ""},
	}
	for _, tt := range tests {
		if got := APIKeyEnvVar(tt.provider); got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b , c ", []string{"a", "b", "c"}},
		{"*", []string{"*"}},
		{"", nil},
		{"  ,  , ", nil},
	}
	for _, tt := range tests {
		got := splitAndTrim(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("splitAndTrim(%q) len = %d, want %d", tt.input, len(got), len(tt.want))
			continue
		}
		for i, v := range got {
			if v != tt.want[i] {
				t.Errorf("splitAndTrim(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
			}
		}
	}
}
