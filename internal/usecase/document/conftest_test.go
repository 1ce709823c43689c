package document

import (
	"context"

	"github.com/quaero-io/quaero/internal/domain/document"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	insertFn     func(ctx context.Context, doc document.Document) error
	insertManyFn func(ctx context.Context, docs []document.Document) error
	getFn        func(ctx context.Context, id string) (document.Document, error)
	listFn       func(ctx context.Context, limit int) ([]document.Document, error)
	deleteFn     func(ctx context.Context, id string) error
	countFn      func(ctx context.Context) (int, error)
}

func (m *mockRepo) Insert(ctx context.Context, doc document.Document) error {
	if m.insertFn != nil {
		return m.insertFn(ctx, doc)
	}
	return nil
}

func (m *mockRepo) InsertMany(ctx context.Context, docs []document.Document) error {
	if m.insertManyFn != nil {
		return m.insertManyFn(ctx, docs)
	}
	return nil
}

func (m *mockRepo) Get(ctx context.Context, id string) (document.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return document.Document{}, nil
}

func (m *mockRepo) List(ctx context.Context, limit int) ([]document.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockRepo) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}
