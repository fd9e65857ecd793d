package embeddings

import (
	"fmt"
	"os"

	"github.com/candidate-concierge/concierge/internal/config"
)

// ollamaDimensions lists output sizes for common Ollama embedding models.
var ollamaDimensions = map[string]int{
	"nomic-embed-text":  768,
	"mxbai-embed-large": 1024,
	"all-minilm":        384,
}

// questionCacheSize bounds the number of question embeddings kept.
const questionCacheSize = 256

// New creates the embedder configured for the semantic extractive strategy,
// wrapped in a question cache.
func New(cfg config.ExtractiveConfig) (Embedder, error) {
	e, err := newProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewCached(e, questionCacheSize), nil
}

func newProvider(cfg config.ExtractiveConfig) (Embedder, error) {
	model := cfg.EmbeddingModel
	if model == "" {
		model = config.DefaultEmbeddingModel(cfg.EmbeddingProvider)
	}

	switch cfg.EmbeddingProvider {
	case config.ProviderOpenAI:
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY environment variable is not set", ErrNotConfigured)
		}
		return NewOpenAIEmbedder(apiKey, os.Getenv("OPENAI_BASE_URL"), model), nil

	case config.ProviderOllama:
		dims, ok := ollamaDimensions[model]
		if !ok {
			dims = 768
		}
		return NewOllamaEmbedder(model, dims, os.Getenv("OLLAMA_HOST")), nil

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbeddingProvider)
	}
}
