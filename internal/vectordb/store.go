// Package vectordb indexes profile passages by embedding so questions can be
// answered with the closest passage.
package vectordb

import "context"

// VectorStore holds embedded passages.
type VectorStore interface {
	// AddDocuments embeds and stores docs, replacing any with the same ID.
	AddDocuments(ctx context.Context, docs []Document) error
	// Search returns up to limit passages ordered by similarity to query.
	Search(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error)
	Reset(ctx context.Context) error
	Persist(ctx context.Context, dir string) error
	Load(ctx context.Context, dir string) error
	Count() int
}
