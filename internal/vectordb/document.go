package vectordb

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/candidate-concierge/concierge/internal/knowledge"
)

// Document is one indexed profile passage.
type Document struct {
	ID       string
	Content  string
	Metadata DocumentMetadata
}

// DocumentMetadata holds structured information about a document.
type DocumentMetadata struct {
	Section     string
	ContentHash string
	IndexedAt   time.Time
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document   Document
	Similarity float32
}

// SearchFilter narrows a search to one profile section.
type SearchFilter struct {
	Section *string
}

// FromPassages converts profile passages into indexable documents.
func FromPassages(passages []knowledge.Passage) []Document {
	now := time.Now().UTC()
	docs := make([]Document, len(passages))
	for i, p := range passages {
		docs[i] = Document{
			ID:      p.ID,
			Content: p.Text,
			Metadata: DocumentMetadata{
				Section:     p.Section,
				ContentHash: ContentHash(p.Text),
				IndexedAt:   now,
			},
		}
	}
	return docs
}

// ContentHash fingerprints passage text so a stale index can be detected.
func ContentHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:8])
}
