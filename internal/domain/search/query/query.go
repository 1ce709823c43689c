package query

import (
	"fmt"
	"strings"

	"github.com/quaero-io/quaero/internal/domain"
	"github.com/quaero-io/quaero/internal/domain/search/filter"
)

// Search parameter limits.
const (
	// MaxTextLength is the maximum allowed query text length.
	MaxTextLength = 4096
	DefaultLimit  = 10
	MaxLimit      = 100
)

// Query is a validated search request. An empty text is legal: combined
// with a filter it is a pure metadata search, and with neither the
// retrieval tiers degenerate to matching everything.
type Query struct {
	text   string
	limit  int
	filter filter.Filter
}

// New validates search parameters. A non-positive limit is rejected
// before any tier runs; callers wanting the default pass DefaultLimit.
func New(text string, limit int, f filter.Filter) (Query, error) {
	if len(text) > MaxTextLength {
		return Query{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidArgument, MaxTextLength)
	}
	if limit <= 0 {
		return Query{}, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidArgument, limit)
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Query{text: strings.TrimSpace(text), limit: limit, filter: f}, nil
}

// Text returns the free-text query.
func (q *Query) Text() string { return q.text }

// Limit returns the requested result budget.
func (q *Query) Limit() int { return q.limit }

// Filter returns the metadata filter.
func (q *Query) Filter() filter.Filter { return q.filter }
