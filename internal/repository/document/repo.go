// Package document persists document aggregates as store hashes:
// reserved __-prefixed fields carry content and timestamps, everything
// else is caller metadata addressable by search filters.
package document

import (
	"context"
	"fmt"

	"github.com/quaero-io/quaero/internal/db"
	"github.com/quaero-io/quaero/internal/domain"
	"github.com/quaero-io/quaero/internal/domain/document"
)

// store is the narrow db surface this repository consumes.
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	SearchList(ctx context.Context, index string, limit int) (*db.SearchResult, error)
	SearchCount(ctx context.Context, index string) (int, error)
}

// Repository stores documents in the backing store.
type Repository struct {
	db store
}

// NewRepository creates a document repository.
func NewRepository(db store) *Repository {
	return &Repository{db: db}
}

// Insert stores a document.
func (r *Repository) Insert(ctx context.Context, doc document.Document) error {
	if err := r.db.HSet(ctx, docKey(doc.ID()), toFields(doc)); err != nil {
		return fmt.Errorf("insert document %s: %w", doc.ID(), err)
	}
	return nil
}

// InsertMany stores documents in a single round-trip.
func (r *Repository) InsertMany(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	items := make([]db.HashSetItem, len(docs))
	for i, doc := range docs {
		items[i] = db.HashSetItem{Key: docKey(doc.ID()), Fields: toFields(doc)}
	}
	if err := r.db.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("insert %d documents: %w", len(docs), err)
	}
	return nil
}

// Get fetches a document by ID.
func (r *Repository) Get(ctx context.Context, id string) (document.Document, error) {
	fields, err := r.db.HGetAll(ctx, docKey(id))
	if err != nil {
		return document.Document{}, fmt.Errorf("get document %s: %w", id, err)
	}
	if len(fields) == 0 {
		return document.Document{}, fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	return fromFields(docKey(id), fields), nil
}

// List returns up to limit documents, most recent first.
func (r *Repository) List(ctx context.Context, limit int) ([]document.Document, error) {
	res, err := r.db.SearchList(ctx, domain.IndexName, limit)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	docs := make([]document.Document, 0, len(res.Entries))
	for _, e := range res.Entries {
		docs = append(docs, fromFields(e.Key, e.Fields))
	}
	return docs, nil
}

// Delete removes a document. Missing documents yield ErrDocumentNotFound.
func (r *Repository) Delete(ctx context.Context, id string) error {
	ok, err := r.db.Exists(ctx, docKey(id))
	if err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	if !ok {
		return fmt.Errorf("document %s: %w", id, domain.ErrDocumentNotFound)
	}
	if err := r.db.Del(ctx, docKey(id)); err != nil {
		return fmt.Errorf("delete document %s: %w", id, err)
	}
	return nil
}

// Count returns the number of stored documents.
func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.db.SearchCount(ctx, domain.IndexName)
	if err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

func docKey(id string) string {
	return domain.DocKeyPrefix + id
}
