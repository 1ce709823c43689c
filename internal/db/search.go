package db

// Reserved hash field names on document records. Everything else in a
// record hash is caller metadata and addressable by filters.
const (
	FieldContent   = "__content"
	FieldCreatedAt = "__created_at"
	FieldUpdatedAt = "__updated_at"
)

// FieldPattern targets one hash field with an RE2 pattern, applied
// case-insensitively.
type FieldPattern struct {
	Field   string
	Pattern string
}

// MatchQuery is the input for pattern predicate matching. Patterns are
// OR'd; the filter is exact-match and ANDed. An empty pattern set
// matches every record under the prefix.
type MatchQuery struct {
	Prefix string
	Any    []FieldPattern
	Filter map[string]string
	Limit  int
}

// TextQuery is the input for indexed full-text search. An empty query
// matches everything. The filter is applied to the hits.
type TextQuery struct {
	Index  string
	Query  string
	Filter map[string]string
	Limit  int
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single record hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
