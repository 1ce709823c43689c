package chi

import (
	"context"
	"net/http/httptest"
	"strings"
	"time"

	chirouter "github.com/go-chi/chi/v5"

	"github.com/quaero-io/quaero/internal/domain/document"
	"github.com/quaero-io/quaero/internal/domain/search/filter"
	"github.com/quaero-io/quaero/internal/domain/search/query"
	"github.com/quaero-io/quaero/internal/domain/search/result"
	documentuc "github.com/quaero-io/quaero/internal/usecase/document"
	"github.com/quaero-io/quaero/internal/usecase/health"
)

type mockSearch struct {
	searchFn         func(ctx context.Context, q query.Query) ([]result.Result, error)
	searchSemanticFn func(ctx context.Context, q query.Query) ([]result.Result, error)
	searchMetadataFn func(ctx context.Context, f filter.Filter, limit int) ([]document.Document, error)
}

func (m *mockSearch) Search(ctx context.Context, q query.Query) ([]result.Result, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return nil, nil
}

func (m *mockSearch) SearchSemantic(ctx context.Context, q query.Query) ([]result.Result, error) {
	if m.searchSemanticFn != nil {
		return m.searchSemanticFn(ctx, q)
	}
	return nil, nil
}

func (m *mockSearch) SearchMetadata(ctx context.Context, f filter.Filter, limit int) ([]document.Document, error) {
	if m.searchMetadataFn != nil {
		return m.searchMetadataFn(ctx, f, limit)
	}
	return nil, nil
}

type mockDocs struct {
	insertFn     func(ctx context.Context, in documentuc.Input) (document.Document, error)
	insertManyFn func(ctx context.Context, ins []documentuc.Input) ([]document.Document, error)
	getFn        func(ctx context.Context, id string) (document.Document, error)
	listFn       func(ctx context.Context, limit int) ([]document.Document, error)
	deleteFn     func(ctx context.Context, id string) error
	countFn      func(ctx context.Context) (int, error)
}

func (m *mockDocs) Insert(ctx context.Context, in documentuc.Input) (document.Document, error) {
	if m.insertFn != nil {
		return m.insertFn(ctx, in)
	}
	return document.Document{}, nil
}

func (m *mockDocs) InsertMany(ctx context.Context, ins []documentuc.Input) ([]document.Document, error) {
	if m.insertManyFn != nil {
		return m.insertManyFn(ctx, ins)
	}
	return nil, nil
}

func (m *mockDocs) Get(ctx context.Context, id string) (document.Document, error) {
	if m.getFn != nil {
		return m.getFn(ctx, id)
	}
	return document.Document{}, nil
}

func (m *mockDocs) List(ctx context.Context, limit int) ([]document.Document, error) {
	if m.listFn != nil {
		return m.listFn(ctx, limit)
	}
	return nil, nil
}

func (m *mockDocs) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func (m *mockDocs) Count(ctx context.Context) (int, error) {
	if m.countFn != nil {
		return m.countFn(ctx)
	}
	return 0, nil
}

type mockHealth struct {
	status health.Status
}

func (m *mockHealth) Check(context.Context) health.Status {
	return m.status
}

func newTestServer(search *mockSearch, docs *mockDocs, h *mockHealth) *httptest.Server {
	if search == nil {
		search = &mockSearch{}
	}
	if docs == nil {
		docs = &mockDocs{}
	}
	if h == nil {
		h = &mockHealth{status: health.Status{Healthy: true, Version: "test"}}
	}

	srv := NewServer(search, docs, h, 500)
	r := chirouter.NewRouter()
	srv.Routes(r)
	return httptest.NewServer(r)
}

func testDoc(id, content string) document.Document {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return document.Reconstruct(id, content, map[string]string{document.MetaTitle: "t-" + id}, now, now)
}

func longContent(n int) string {
	return strings.Repeat("a", n)
}
