// Package embeddings turns profile passages and questions into vectors for
// the semantic extractive strategy.
package embeddings

import (
	"context"
	"errors"
)

// ErrNotConfigured is returned by New when the embedding provider has no
// credentials.
var ErrNotConfigured = errors.New("embedding provider not configured")

// Embedder maps texts to vectors of a fixed size.
type Embedder interface {
	// Embed returns one vector per text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Name() string
}
