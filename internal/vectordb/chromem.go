package vectordb

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/candidate-concierge/concierge/internal/embeddings"
)

const (
	collectionName = "profile"
	indexFile      = "profile.gob.gz"
)

// ChromemStore is an in-memory VectorStore backed by chromem-go that can
// be saved to and restored from a single compressed file.
type ChromemStore struct {
	embedder   embeddings.Embedder
	db         *chromem.DB
	collection *chromem.Collection
}

// NewChromemStore creates an empty store that embeds with embedder.
func NewChromemStore(embedder embeddings.Embedder) (*ChromemStore, error) {
	s := &ChromemStore{embedder: embedder, db: chromem.NewDB()}
	if err := s.openCollection(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ChromemStore) openCollection() error {
	col, err := s.db.GetOrCreateCollection(collectionName, nil, s.embedQuery)
	if err != nil {
		return fmt.Errorf("opening collection: %w", err)
	}
	s.collection = col
	return nil
}

// embedQuery adapts the embedder to chromem's one-text-at-a-time signature.
func (s *ChromemStore) embedQuery(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.embedder.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vecs) != 1 {
		return nil, fmt.Errorf("%s returned %d vectors for one text", s.embedder.Name(), len(vecs))
	}
	return vecs[0], nil
}

// AddDocuments embeds docs in a single batch and stores them.
func (s *ChromemStore) AddDocuments(ctx context.Context, docs []Document) error {
	if len(docs) == 0 {
		return nil
	}

	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vecs, err := s.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding passages: %w", err)
	}
	if len(vecs) != len(docs) {
		return fmt.Errorf("%s returned %d vectors for %d passages", s.embedder.Name(), len(vecs), len(docs))
	}

	out := make([]chromem.Document, len(docs))
	for i, d := range docs {
		out[i] = chromem.Document{
			ID:        d.ID,
			Content:   d.Content,
			Metadata:  d.Metadata.toMap(),
			Embedding: vecs[i],
		}
	}
	return s.collection.AddDocuments(ctx, out, 1)
}

func (s *ChromemStore) Search(ctx context.Context, query string, limit int, filter *SearchFilter) ([]SearchResult, error) {
	n := s.collection.Count()
	if n == 0 {
		return nil, nil
	}
	// chromem rejects nResults above the collection size.
	limit = min(max(limit, 1), n)

	var where map[string]string
	if filter != nil && filter.Section != nil {
		where = map[string]string{"section": *filter.Section}
	}

	found, err := s.collection.Query(ctx, query, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("querying passages: %w", err)
	}

	results := make([]SearchResult, 0, len(found))
	for _, r := range found {
		results = append(results, SearchResult{
			Document:   Document{ID: r.ID, Content: r.Content, Metadata: metadataFromMap(r.Metadata)},
			Similarity: r.Similarity,
		})
	}
	return results, nil
}

func (s *ChromemStore) Reset(_ context.Context) error {
	if err := s.db.DeleteCollection(collectionName); err != nil {
		return fmt.Errorf("dropping collection: %w", err)
	}
	return s.openCollection()
}

func (s *ChromemStore) Persist(_ context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	return s.db.ExportToFile(filepath.Join(dir, indexFile), true, "")
}

func (s *ChromemStore) Load(_ context.Context, dir string) error {
	if err := s.db.ImportFromFile(filepath.Join(dir, indexFile), ""); err != nil {
		return fmt.Errorf("reading index: %w", err)
	}
	// Import replaces the collection object; fetch it again.
	col := s.db.GetCollection(collectionName, s.embedQuery)
	if col == nil {
		return fmt.Errorf("index in %s has no %q collection", dir, collectionName)
	}
	s.collection = col
	return nil
}

func (s *ChromemStore) Count() int { return s.collection.Count() }

// IndexExists reports whether a persisted index is present in dir.
func IndexExists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, indexFile))
	return err == nil
}

func (m DocumentMetadata) toMap() map[string]string {
	return map[string]string{
		"section":      m.Section,
		"content_hash": m.ContentHash,
		"indexed_at":   m.IndexedAt.Format(time.RFC3339),
	}
}

func metadataFromMap(m map[string]string) DocumentMetadata {
	indexedAt, _ := time.Parse(time.RFC3339, m["indexed_at"])
	return DocumentMetadata{
		Section:     m["section"],
		ContentHash: m["content_hash"],
		IndexedAt:   indexedAt,
	}
}
