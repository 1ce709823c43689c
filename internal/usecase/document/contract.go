package document

import (
	"context"

	"github.com/quaero-io/quaero/internal/domain/document"
)

// Repository defines the storage contract for document lifecycle operations.
type Repository interface {
	Insert(ctx context.Context, doc document.Document) error
	InsertMany(ctx context.Context, docs []document.Document) error
	Get(ctx context.Context, id string) (document.Document, error)
	List(ctx context.Context, limit int) ([]document.Document, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
