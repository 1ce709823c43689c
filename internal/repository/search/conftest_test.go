package search

import (
	"context"
	"strconv"
	"time"

	"github.com/quaero-io/quaero/internal/db"
	"github.com/quaero-io/quaero/internal/domain"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	matchFn      func(ctx context.Context, q *db.MatchQuery) (*db.SearchResult, error)
	searchTextFn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	aggregateFn  func(ctx context.Context, p *db.Pipeline) (*db.SearchResult, error)
}

func (m *mockStore) Match(ctx context.Context, q *db.MatchQuery) (*db.SearchResult, error) {
	if m.matchFn != nil {
		return m.matchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) Aggregate(ctx context.Context, p *db.Pipeline) (*db.SearchResult, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, p)
	}
	return &db.SearchResult{}, nil
}

func entry(id, title, content string) db.SearchEntry {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	return db.SearchEntry{
		Key: domain.DocKeyPrefix + id,
		Fields: map[string]string{
			"title":           title,
			db.FieldContent:   content,
			db.FieldCreatedAt: strconv.FormatInt(created.Unix(), 10),
			db.FieldUpdatedAt: strconv.FormatInt(created.Unix(), 10),
		},
	}
}
