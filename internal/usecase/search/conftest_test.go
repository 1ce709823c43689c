package search

import (
	"context"
	"testing"
	"time"

	"github.com/quaero-io/quaero/internal/domain/document"
	"github.com/quaero-io/quaero/internal/domain/search/filter"
	"github.com/quaero-io/quaero/internal/domain/search/query"
	"github.com/quaero-io/quaero/internal/domain/search/result"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	matchConceptualFn func(ctx context.Context, text string, f filter.Filter, limit int) ([]document.Document, error)
	searchTextFn      func(ctx context.Context, text string, f filter.Filter, limit int) ([]result.Result, error)
	matchKeywordsFn   func(ctx context.Context, tokens []string, f filter.Filter, limit int) ([]document.Document, error)
	aggregateFn       func(ctx context.Context, text string, f filter.Filter, limit int) ([]result.Result, error)
}

func (m *mockRepo) MatchConceptual(ctx context.Context, text string, f filter.Filter, limit int) ([]document.Document, error) {
	if m.matchConceptualFn != nil {
		return m.matchConceptualFn(ctx, text, f, limit)
	}
	return nil, nil
}

func (m *mockRepo) SearchText(ctx context.Context, text string, f filter.Filter, limit int) ([]result.Result, error) {
	if m.searchTextFn != nil {
		return m.searchTextFn(ctx, text, f, limit)
	}
	return nil, nil
}

func (m *mockRepo) MatchKeywords(ctx context.Context, tokens []string, f filter.Filter, limit int) ([]document.Document, error) {
	if m.matchKeywordsFn != nil {
		return m.matchKeywordsFn(ctx, tokens, f, limit)
	}
	return nil, nil
}

func (m *mockRepo) Aggregate(ctx context.Context, text string, f filter.Filter, limit int) ([]result.Result, error) {
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, text, f, limit)
	}
	return nil, nil
}

func makeDoc(id, title, content string) document.Document {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return document.Reconstruct(id, content, map[string]string{document.MetaTitle: title}, now, now)
}

func makeQuery(t *testing.T, text string, limit int) query.Query {
	t.Helper()
	q, err := query.New(text, limit, filter.Filter{})
	if err != nil {
		t.Fatalf("query.New: %v", err)
	}
	return q
}
