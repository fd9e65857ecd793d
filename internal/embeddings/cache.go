package embeddings

import (
	"context"
	"sync"
)

// CachedEmbedder remembers single-text embeddings. Visitors tend to send
// the same handful of questions, so each is embedded once.
type CachedEmbedder struct {
	Embedder

	mu      sync.Mutex
	size    int
	vectors map[string][]float32
	order   []string
}

// NewCached wraps e with a cache holding at most size entries; the oldest
// entry is evicted first.
func NewCached(e Embedder, size int) *CachedEmbedder {
	return &CachedEmbedder{Embedder: e, size: size, vectors: make(map[string][]float32, size)}
}

// Embed serves single texts from the cache. Batches pass straight through.
func (c *CachedEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) != 1 || c.size <= 0 {
		return c.Embedder.Embed(ctx, texts)
	}
	text := texts[0]

	c.mu.Lock()
	v, ok := c.vectors[text]
	c.mu.Unlock()
	if ok {
		return [][]float32{v}, nil
	}

	out, err := c.Embedder.Embed(ctx, texts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.vectors[text]; !ok {
		if len(c.order) == c.size {
			delete(c.vectors, c.order[0])
			c.order = c.order[1:]
		}
		c.vectors[text] = out[0]
		c.order = append(c.order, text)
	}
	return out, nil
}

// Len reports how many texts are cached.
func (c *CachedEmbedder) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.vectors)
}
