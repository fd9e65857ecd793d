package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/candidate-concierge/concierge/internal/knowledge"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to .concierge.yml.
func RunWizard() (*Config, error) {
	fmt.Println("Welcome to concierge! Let's configure the résumé assistant.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Knowledge file.
	knowledgeFile, err := promptKnowledgeFile()
	if err != nil {
		return nil, err
	}
	cfg.KnowledgeFile = knowledgeFile

	// 2. Generative fallback.
	genPrompt := promptui.Select{
		Label: "Select generative fallback provider",
		Items: []string{"openai", "anthropic", "google", "ollama", "disabled"},
	}
	_, genStr, err := genPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("generative provider selection: %w", err)
	}
	if genStr == "disabled" {
		cfg.Generative.Enabled = false
	} else {
		cfg.Generative.Provider = ProviderType(genStr)
		cfg.Generative.Model = DefaultModel(cfg.Generative.Provider)
	}

	// 3. Extractive strategy.
	extPrompt := promptui.Select{
		Label: "Select extractive QA strategy",
		Items: []string{
			"none        — structured rules and generative fallback only",
			"huggingface — hosted extractive QA model",
			"semantic    — embedding search over résumé passages",
		},
	}
	extIdx, _, err := extPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("extractive selection: %w", err)
	}
	cfg.Extractive.Provider = []ExtractiveType{ExtractiveNone, ExtractiveHuggingFace, ExtractiveSemantic}[extIdx]
	if cfg.Extractive.Provider == ExtractiveSemantic && cfg.Generative.Provider == ProviderOllama {
		cfg.Extractive.EmbeddingProvider = ProviderOllama
		cfg.Extractive.EmbeddingModel = DefaultEmbeddingModel(ProviderOllama)
	}

	// 4. Storage.
	dbPrompt := promptui.Select{
		Label: "Where should interactions be logged?",
		Items: []string{"sqlite", "postgres"},
	}
	_, dbStr, err := dbPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("database selection: %w", err)
	}
	cfg.Database.Driver = DatabaseDriver(dbStr)
	if cfg.Database.Driver == DriverPostgres {
		urlPrompt := promptui.Prompt{
			Label:   "PostgreSQL URL (leave blank to use DATABASE_URL)",
			Default: "",
		}
		url, err := urlPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("database url: %w", err)
		}
		cfg.Database.URL = url
	}

	// 5. CORS.
	originsPrompt := promptui.Prompt{
		Label:   "Allowed origins (comma-separated)",
		Default: "*",
	}
	originsStr, err := originsPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("allowed origins: %w", err)
	}
	cfg.Server.AllowedOrigins = splitAndTrim(originsStr)

	if cfg.Generative.Enabled {
		if envVar := APIKeyEnvVar(cfg.Generative.Provider); envVar != "" && os.Getenv(envVar) == "" {
			fmt.Printf("\nNote: Set %s in your environment (or .env) before running concierge serve.\n", envVar)
		}
	}
	if cfg.Extractive.Provider == ExtractiveHuggingFace && os.Getenv("HF_API_TOKEN") == "" {
		fmt.Println("Note: Set HF_API_TOKEN to call the hosted extractive model.")
	}

	if err := cfg.Save(DefaultConfigFile); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", DefaultConfigFile)
	return cfg, nil
}

const (
	builtinProfile = "built-in sample profile"
	otherProfile   = "other path..."
)

// promptKnowledgeFile offers profile files found below the working
// directory, falling back to a free-text prompt.
func promptKnowledgeFile() (string, error) {
	candidates, err := knowledge.Discover(".")
	if err == nil && len(candidates) > 0 {
		sel := promptui.Select{
			Label: "Knowledge base file",
			Items: append(candidates, builtinProfile, otherProfile),
		}
		_, choice, err := sel.Run()
		if err != nil {
			return "", fmt.Errorf("knowledge file selection: %w", err)
		}
		switch choice {
		case builtinProfile:
			return "", nil
		case otherProfile:
		default:
			return choice, nil
		}
	}

	knowledgePrompt := promptui.Prompt{
		Label:   "Knowledge base file (YAML or JSON, blank for the built-in sample)",
		Default: "",
	}
	knowledgeFile, err := knowledgePrompt.Run()
	if err != nil {
		return "", fmt.Errorf("knowledge file: %w", err)
	}
	if knowledgeFile != "" {
		if _, err := os.Stat(knowledgeFile); err != nil {
			fmt.Printf("Note: %s does not exist yet.\n", knowledgeFile)
		}
	}
	return knowledgeFile, nil
}

// splitAndTrim splits a comma-separated string and trims whitespace.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
