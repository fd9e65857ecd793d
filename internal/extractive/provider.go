// Package extractive locates answers inside the profile text. Two backends
// exist: a hosted question-answering model that returns a scored span, and
// an embedding search that returns the closest profile passage.
package extractive

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/candidate-concierge/concierge/internal/config"
	"github.com/candidate-concierge/concierge/internal/embeddings"
	"github.com/candidate-concierge/concierge/internal/knowledge"
	"github.com/candidate-concierge/concierge/internal/vectordb"
)

// Answer is a candidate answer with the backend's confidence in [0, 1].
type Answer struct {
	Text  string
	Score float64
}

var (
	// ErrNotConfigured wraps construction failures caused by missing
	// credentials.
	ErrNotConfigured = errors.New("extractive provider not configured")
	// ErrUnavailable wraps failures to reach the backend while preparing
	// the provider.
	ErrUnavailable = errors.New("extractive provider unavailable")
)

// Provider answers a question from a plain-text context.
type Provider interface {
	Answer(ctx context.Context, question, context string) (*Answer, error)
	Name() string
}

// New builds the provider selected in cfg. It returns nil without error
// when the extractive strategy is disabled. Errors wrapping
// ErrNotConfigured or ErrUnavailable mean the strategy can be skipped.
func New(ctx context.Context, cfg config.ExtractiveConfig, kb *knowledge.KnowledgeBase, logger *zap.Logger) (Provider, error) {
	switch cfg.Provider {
	case config.ExtractiveNone, "":
		return nil, nil
	case config.ExtractiveHuggingFace:
		return NewHuggingFace(cfg.Model, HuggingFaceToken()), nil
	case config.ExtractiveSemantic:
		embedder, err := embeddings.New(cfg)
		switch {
		case errors.Is(err, embeddings.ErrNotConfigured):
			return nil, fmt.Errorf("%w: %w", ErrNotConfigured, err)
		case err != nil:
			return nil, err
		}
		store, err := vectordb.NewChromemStore(embedder)
		if err != nil {
			return nil, err
		}
		p, err := NewSemantic(ctx, store, kb, cfg.IndexDir, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unsupported extractive provider %q", cfg.Provider)
	}
}
