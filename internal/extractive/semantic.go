package extractive

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/candidate-concierge/concierge/internal/knowledge"
	"github.com/candidate-concierge/concierge/internal/progress"
	"github.com/candidate-concierge/concierge/internal/vectordb"
)

// SemanticProvider answers with the profile passage closest to the
// question. The score is the cosine similarity of the match.
type SemanticProvider struct {
	store vectordb.VectorStore
}

// NewSemantic loads the persisted passage index from dir. When the index
// is missing or no longer matches the profile it is rebuilt in memory.
func NewSemantic(ctx context.Context, store vectordb.VectorStore, kb *knowledge.KnowledgeBase, dir string, logger *zap.Logger) (*SemanticProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	passages := kb.Passages()

	if dir != "" && vectordb.IndexExists(dir) {
		if err := store.Load(ctx, dir); err != nil {
			logger.Warn("passage index unreadable, rebuilding", zap.String("dir", dir), zap.Error(err))
		} else if store.Count() == len(passages) {
			logger.Debug("passage index loaded", zap.String("dir", dir), zap.Int("passages", store.Count()))
			return &SemanticProvider{store: store}, nil
		} else {
			logger.Info("passage index is stale, rebuilding",
				zap.Int("indexed", store.Count()), zap.Int("passages", len(passages)))
		}
	}

	if err := BuildIndex(ctx, store, kb, progress.Nop{}); err != nil {
		return nil, err
	}
	return &SemanticProvider{store: store}, nil
}

func (p *SemanticProvider) Name() string { return "semantic" }

// Answer ignores the flattened context; the index was built from the same
// profile.
func (p *SemanticProvider) Answer(ctx context.Context, question, _ string) (*Answer, error) {
	results, err := p.store.Search(ctx, question, 1, nil)
	if err != nil {
		return nil, fmt.Errorf("searching passages: %w", err)
	}
	if len(results) == 0 {
		return &Answer{}, nil
	}
	top := results[0]
	return &Answer{Text: top.Document.Content, Score: float64(top.Similarity)}, nil
}

// BuildIndex replaces the store's contents with the profile passages,
// embedding them one at a time so progress can be reported.
func BuildIndex(ctx context.Context, store vectordb.VectorStore, kb *knowledge.KnowledgeBase, reporter progress.Reporter) error {
	if err := store.Reset(ctx); err != nil {
		return err
	}
	docs := vectordb.FromPassages(kb.Passages())

	reporter.Start(len(docs))
	defer reporter.Finish()
	for i, doc := range docs {
		if err := store.AddDocuments(ctx, []vectordb.Document{doc}); err != nil {
			return fmt.Errorf("embedding passage %s: %w", doc.ID, err)
		}
		reporter.Update(i+1, doc.ID)
	}
	return nil
}

// Store exposes the passage index for direct search.
func (p *SemanticProvider) Store() vectordb.VectorStore { return p.store }
