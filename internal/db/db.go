// Package db defines the backing-store contract the search engine
// depends on: pattern predicate matching, indexed full-text search with
// a native relevance score, an aggregation pipeline with computed score
// terms, and plain hash CRUD. Backends own connection handling; callers
// receive errors unmodified.
package db

import (
	"context"
	"time"
)

// Store is the main database facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Store interface {
	Pinger
	HashStore
	IndexManager
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HashSetItem holds a single key+fields pair for pipelined HSET.
type HashSetItem struct {
	Key    string
	Fields map[string]string
}

// HashStore provides hash-based record operations.
type HashStore interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
}

// IndexManager provides text-index lifecycle operations.
type IndexManager interface {
	EnsureIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Searcher provides the retrieval primitives the engine layers tiers on.
type Searcher interface {
	// Match returns records satisfying any of the field patterns, ANDed
	// with the exact-match filter. An empty pattern set matches all.
	Match(ctx context.Context, q *MatchQuery) (*SearchResult, error)

	// SearchText runs the indexed full-text search; entry scores carry
	// the store's native relevance metric.
	SearchText(ctx context.Context, q *TextQuery) (*SearchResult, error)

	// Aggregate runs a match+score+sort+limit pipeline in one pass.
	Aggregate(ctx context.Context, p *Pipeline) (*SearchResult, error)

	// SearchList returns records ordered most-recent-first.
	SearchList(ctx context.Context, index string, limit int) (*SearchResult, error)

	// SearchCount returns the number of indexed records.
	SearchCount(ctx context.Context, index string) (int, error)
}

// IndexFieldType is a text-index field type.
type IndexFieldType string

// Index field types.
const (
	IndexFieldText    IndexFieldType = "TEXT"
	IndexFieldNumeric IndexFieldType = "NUMERIC"
)

// IndexField describes one indexed field.
type IndexField struct {
	Name     string
	Type     IndexFieldType
	Sortable bool
}

// IndexDefinition describes a text index over a key prefix.
type IndexDefinition struct {
	Name     string
	Prefixes []string
	Fields   []IndexField
}
