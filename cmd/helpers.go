package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/candidate-concierge/concierge/internal/config"
	"github.com/candidate-concierge/concierge/internal/db"
	"github.com/candidate-concierge/concierge/internal/extractive"
	"github.com/candidate-concierge/concierge/internal/interactions"
	"github.com/candidate-concierge/concierge/internal/knowledge"
	"github.com/candidate-concierge/concierge/internal/llm"
	"github.com/candidate-concierge/concierge/internal/logger"
	"github.com/candidate-concierge/concierge/internal/resolver"
)

// app bundles what every answering command needs.
type app struct {
	cfg        *config.Config
	log        *zap.Logger
	kb         *knowledge.KnowledgeBase
	extractive extractive.Provider
	resolver   *resolver.Resolver
}

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `concierge init` to create a config file", err)
	}
	if cfg.EnvFile != "" && cfg.EnvFile != ".env" {
		if err := godotenv.Load(cfg.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", cfg.EnvFile, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log.JSON, cfg.Log.Debug || verbose)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return log, nil
}

func loadKnowledge(cfg *config.Config, log *zap.Logger) (*knowledge.KnowledgeBase, error) {
	if cfg.KnowledgeFile == "" {
		log.Info("no knowledge_file configured, using the built-in sample profile")
		return knowledge.Default(log)
	}
	kb, err := knowledge.Load(cfg.KnowledgeFile, log)
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base: %w", err)
	}
	return kb, nil
}

// setup loads config and the profile and assembles the fallback chain.
// Extractive and generative providers without credentials are skipped
// with a warning.
func setup(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	kb, err := loadKnowledge(cfg, log)
	if err != nil {
		return nil, err
	}

	ext, err := newExtractive(ctx, cfg.Extractive, kb, log)
	if err != nil {
		return nil, err
	}

	var gen llm.Provider
	if cfg.Generative.Enabled {
		gen, err = llm.NewProvider(ctx, cfg.Generative)
		switch {
		case errors.Is(err, llm.ErrNotConfigured):
			log.Warn("generative fallback disabled", zap.Error(err))
			gen = nil
		case err != nil:
			return nil, fmt.Errorf("creating generative provider: %w", err)
		}
	}

	r := resolver.New(kb, resolver.Options{
		Extractive:           ext,
		Threshold:            cfg.Extractive.Threshold,
		ExtractiveTimeout:    cfg.Extractive.Timeout,
		Generative:           gen,
		GenerativeConfidence: cfg.Generative.Confidence,
		Model:                cfg.Generative.Model,
		MaxTokens:            cfg.Generative.MaxTokens,
		Temperature:          float64(cfg.Generative.Temperature),
		GenerativeTimeout:    cfg.Generative.Timeout,
		Logger:               log,
	})

	log.Debug("resolver ready",
		zap.String("subject", kb.Subject),
		zap.Bool("extractive", ext != nil),
		zap.Bool("generative", gen != nil),
	)
	return &app{cfg: cfg, log: log, kb: kb, extractive: ext, resolver: r}, nil
}

// newExtractive builds the extractive provider. A provider that is not
// configured, or whose backend cannot be reached, is skipped with a warning.
func newExtractive(ctx context.Context, cfg config.ExtractiveConfig, kb *knowledge.KnowledgeBase, log *zap.Logger) (extractive.Provider, error) {
	ext, err := extractive.New(ctx, cfg, kb, log.Named("extractive"))
	switch {
	case errors.Is(err, extractive.ErrNotConfigured), errors.Is(err, extractive.ErrUnavailable):
		log.Warn("extractive strategy disabled", zap.String("provider", string(cfg.Provider)), zap.Error(err))
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("creating extractive provider: %w", err)
	}
	return ext, nil
}

// openInteractions opens the interaction log database.
func openInteractions(ctx context.Context, cfg *config.Config) (*db.DB, *interactions.Store, error) {
	database, err := db.OpenConfig(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return database, interactions.NewStore(database), nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
