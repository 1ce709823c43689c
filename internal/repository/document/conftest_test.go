package document

import (
	"context"
	"testing"
	"time"

	"github.com/quaero-io/quaero/internal/db"
	domdoc "github.com/quaero-io/quaero/internal/domain/document"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetFn        func(ctx context.Context, key string, fields map[string]string) error
	hsetMultiFn   func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn     func(ctx context.Context, key string) (map[string]string, error)
	delFn         func(ctx context.Context, key string) error
	existsFn      func(ctx context.Context, key string) (bool, error)
	searchListFn  func(ctx context.Context, index string, limit int) (*db.SearchResult, error)
	searchCountFn func(ctx context.Context, index string) (int, error)
}

func (m *mockStore) HSet(ctx context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		return m.hsetFn(ctx, key, fields)
	}
	return nil
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) SearchList(ctx context.Context, index string, limit int) (*db.SearchResult, error) {
	if m.searchListFn != nil {
		return m.searchListFn(ctx, index, limit)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, index string) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, index)
	}
	return 0, nil
}

func newTestRepo() (*Repository, *mockStore) {
	ms := &mockStore{}
	return NewRepository(ms), ms
}

func testDocument(t *testing.T) domdoc.Document {
	t.Helper()
	created := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	return domdoc.Reconstruct("doc-1", "hello world",
		map[string]string{domdoc.MetaTitle: "greeting", domdoc.MetaSource: "github"},
		created, created,
	)
}
