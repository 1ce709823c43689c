// Package document implements the document lifecycle: ingest with
// generated identities and UTC timestamps, retrieval, listing, and
// deletion.
package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quaero-io/quaero/internal/domain"
	"github.com/quaero-io/quaero/internal/domain/document"
	"github.com/quaero-io/quaero/internal/logger"
)

// DefaultListLimit caps List calls that pass no explicit limit.
const DefaultListLimit = 100

// Input is one document to ingest.
type Input struct {
	Content  string
	Metadata map[string]string
}

// Service handles document lifecycle operations.
type Service struct {
	repo Repository
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Insert validates and stores one document, assigning its identity and
// timestamps.
func (s *Service) Insert(ctx context.Context, in Input) (document.Document, error) {
	doc, err := newDocument(in)
	if err != nil {
		return document.Document{}, err
	}
	if err := s.repo.Insert(ctx, doc); err != nil {
		return document.Document{}, err
	}

	logger.FromContext(ctx).Debug("document inserted", zap.String("id", doc.ID()))
	return doc, nil
}

// InsertMany validates and stores a batch in one round-trip. All inputs
// are validated before anything is written.
func (s *Service) InsertMany(ctx context.Context, ins []Input) ([]document.Document, error) {
	if len(ins) == 0 {
		return nil, fmt.Errorf("%w: empty batch", domain.ErrInvalidArgument)
	}

	docs := make([]document.Document, len(ins))
	for i, in := range ins {
		doc, err := newDocument(in)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		docs[i] = doc
	}

	if err := s.repo.InsertMany(ctx, docs); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Debug("documents inserted", zap.Int("count", len(docs)))
	return docs, nil
}

// Get fetches a document by ID.
func (s *Service) Get(ctx context.Context, id string) (document.Document, error) {
	if id == "" {
		return document.Document{}, fmt.Errorf("%w: document ID is required", domain.ErrInvalidArgument)
	}
	return s.repo.Get(ctx, id)
}

// List returns up to limit documents, most recent first. A non-positive
// limit means DefaultListLimit.
func (s *Service) List(ctx context.Context, limit int) ([]document.Document, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	return s.repo.List(ctx, limit)
}

// Delete removes a document by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: document ID is required", domain.ErrInvalidArgument)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Debug("document deleted", zap.String("id", id))
	return nil
}

// Count returns the number of stored documents.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func newDocument(in Input) (document.Document, error) {
	now := time.Now().UTC()
	doc, err := document.New(uuid.NewString(), in.Content, in.Metadata, now, now)
	if err != nil {
		return document.Document{}, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return doc, nil
}
