package document

import (
	"fmt"
	"time"
)

// Well-known metadata keys.
const (
	MetaTitle       = "title"
	MetaDescription = "description"
	MetaSource      = "source"
	MetaURL         = "url"
)

// MaxContentSize is the maximum document content size in bytes.
const MaxContentSize = 1048576 // 1MB

// Document is the document aggregate (immutable value object).
// Identity is opaque and stable; content and metadata are only ever
// read by the search engine, never mutated.
type Document struct {
	id        string
	content   string
	metadata  map[string]string
	createdAt time.Time
	updatedAt time.Time
}

// New validates and creates a Document.
// Content: non-empty, max 1MB. Metadata keys must be non-empty.
func New(id, content string, metadata map[string]string, createdAt, updatedAt time.Time) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if content == "" {
		return Document{}, fmt.Errorf("content is required")
	}
	if len(content) > MaxContentSize {
		return Document{}, fmt.Errorf("content too large (max %d bytes)", MaxContentSize)
	}
	for k := range metadata {
		if k == "" {
			return Document{}, fmt.Errorf("metadata key must be non-empty")
		}
	}

	return Document{
		id:        id,
		content:   content,
		metadata:  cloneStringMap(metadata),
		createdAt: createdAt.UTC(),
		updatedAt: updatedAt.UTC(),
	}, nil
}

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(id, content string, metadata map[string]string, createdAt, updatedAt time.Time) Document {
	return Document{id: id, content: content, metadata: metadata, createdAt: createdAt, updatedAt: updatedAt}
}

// ID returns the opaque document identity.
func (d Document) ID() string { return d.id }

// Content returns the document text content.
func (d Document) Content() string { return d.content }

// Metadata returns the metadata fields.
func (d Document) Metadata() map[string]string { return d.metadata }

// Meta returns a single metadata value, or "" when absent.
func (d Document) Meta(key string) string { return d.metadata[key] }

// Title returns the metadata title, or "" when absent.
func (d Document) Title() string { return d.metadata[MetaTitle] }

// CreatedAt returns the creation timestamp.
func (d Document) CreatedAt() time.Time { return d.createdAt }

// UpdatedAt returns the last update timestamp.
func (d Document) UpdatedAt() time.Time { return d.updatedAt }

func cloneStringMap(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
