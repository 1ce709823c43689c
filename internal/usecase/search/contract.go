package search

import (
	"context"

	"github.com/quaero-io/quaero/internal/domain/document"
	"github.com/quaero-io/quaero/internal/domain/search/filter"
	"github.com/quaero-io/quaero/internal/domain/search/result"
)

// Repository defines the storage contract for retrieval operations.
type Repository interface {
	// MatchConceptual returns documents matching the definitional
	// patterns for the query: exact title, "what is" title prefix, or a
	// non-technical whole-word content mention. Empty query matches on
	// the filter alone.
	MatchConceptual(ctx context.Context, text string, f filter.Filter, limit int) ([]document.Document, error)

	// SearchText runs the indexed full-text search; result scores carry
	// the store's native relevance metric.
	SearchText(ctx context.Context, text string, f filter.Filter, limit int) ([]result.Result, error)

	// MatchKeywords returns documents whose content contains any token
	// as a case-insensitive substring.
	MatchKeywords(ctx context.Context, tokens []string, f filter.Filter, limit int) ([]document.Document, error)

	// Aggregate runs the single-pass composite-scoring pipeline.
	Aggregate(ctx context.Context, text string, f filter.Filter, limit int) ([]result.Result, error)
}
