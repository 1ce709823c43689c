// Package memory implements db.Store entirely in process. It backs the
// "memory" driver and the engine's tests. Text search scores exact
// whole-word token occurrences; unlike the Redis backend's FT.SEARCH it
// does no stemming, so morphological variants ("cache" for "caching")
// only match under Redis.
package memory

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/quaero-io/quaero/internal/db"
)

// Compile-time check: Store implements db.Store.
var _ db.Store = (*Store)(nil)

// Store is an in-memory db.Store. Safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]map[string]string
	indexes map[string]*db.IndexDefinition
	closed  bool
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]map[string]string),
		indexes: make(map[string]*db.IndexDefinition),
	}
}

// Ping checks the store is open.
func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return db.ErrClosed
	}
	return nil
}

// Close marks the store closed; subsequent calls fail with ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// WaitForReady reports readiness immediately for an in-memory store.
func (s *Store) WaitForReady(ctx context.Context, _ time.Duration) error {
	return s.Ping(ctx)
}

// --- HashStore ---

// HSet sets hash fields.
func (s *Store) HSet(_ context.Context, key string, fields map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpHSet, Err: db.ErrClosed}
	}
	rec, ok := s.records[key]
	if !ok {
		rec = make(map[string]string, len(fields))
		s.records[key] = rec
	}
	for k, v := range fields {
		rec[k] = v
	}
	return nil
}

// HSetMulti stores multiple hashes.
func (s *Store) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	for _, item := range items {
		if err := s.HSet(ctx, item.Key, item.Fields); err != nil {
			return err
		}
	}
	return nil
}

// HGetAll returns a copy of all fields of a hash.
func (s *Store) HGetAll(_ context.Context, key string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpHGetAll, Err: db.ErrClosed}
	}
	rec, ok := s.records[key]
	if !ok {
		return map[string]string{}, nil
	}
	return cloneFields(rec), nil
}

// HGetAllMulti fetches all fields for multiple hashes.
func (s *Store) HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error) {
	out := make([]map[string]string, len(keys))
	for i, key := range keys {
		m, err := s.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("HGetAllMulti key %s: %w", key, err)
		}
		out[i] = m
	}
	return out, nil
}

// Del deletes a key.
func (s *Store) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpDel, Err: db.ErrClosed}
	}
	delete(s.records, key)
	return nil
}

// Exists checks if a key exists.
func (s *Store) Exists(_ context.Context, key string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, &db.Error{Op: db.OpExists, Err: db.ErrClosed}
	}
	_, ok := s.records[key]
	return ok, nil
}

// Scan returns keys matching a glob pattern. Only the trailing-star
// form used by the repositories ("prefix*") is supported.
func (s *Store) Scan(_ context.Context, pattern string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, &db.Error{Op: db.OpScan, Err: db.ErrClosed}
	}
	prefix := strings.TrimSuffix(pattern, "*")
	var keys []string
	for k := range s.records {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// --- IndexManager ---

// EnsureIndex registers an index definition; repeated calls are no-ops.
func (s *Store) EnsureIndex(_ context.Context, def *db.IndexDefinition) error {
	if def.Name == "" {
		return fmt.Errorf("index name is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return &db.Error{Op: db.OpCreateIndex, Err: db.ErrClosed}
	}
	if _, ok := s.indexes[def.Name]; !ok {
		s.indexes[def.Name] = def
	}
	return nil
}

// DropIndex removes an index definition.
func (s *Store) DropIndex(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indexes[name]; !ok {
		return db.ErrIndexNotFound
	}
	delete(s.indexes, name)
	return nil
}

// IndexExists probes index existence.
func (s *Store) IndexExists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.indexes[name]
	return ok, nil
}

// --- Searcher ---

// Match returns records satisfying any field pattern, ANDed with the
// exact-match filter. Iteration order is key-sorted so repeated calls
// against an unchanged store return identical results.
func (s *Store) Match(ctx context.Context, q *db.MatchQuery) (*db.SearchResult, error) {
	patterns := make([]*regexp.Regexp, len(q.Any))
	fields := make([]string, len(q.Any))
	for i, fp := range q.Any {
		re, err := regexp.Compile("(?i)" + fp.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile match pattern %q: %w", fp.Pattern, err)
		}
		patterns[i] = re
		fields[i] = fp.Field
	}

	entries, err := s.snapshot(ctx, q.Prefix)
	if err != nil {
		return nil, err
	}

	matched := make([]db.SearchEntry, 0, len(entries))
	for _, e := range entries {
		if !filterMatches(q.Filter, e.Fields) {
			continue
		}
		if len(patterns) > 0 {
			hit := false
			for i, re := range patterns {
				if re.MatchString(e.Fields[fields[i]]) {
					hit = true
					break
				}
			}
			if !hit {
				continue
			}
		}
		matched = append(matched, e)
		if q.Limit > 0 && len(matched) == q.Limit {
			break
		}
	}

	return &db.SearchResult{Total: len(matched), Entries: matched}, nil
}

// SearchText scores records by whole-word occurrences of the query
// tokens across the index's TEXT fields. An empty query matches every
// record with score 1.
func (s *Store) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	textFields, err := s.textFields(q.Index)
	if err != nil {
		return nil, err
	}

	prefix := indexPrefix(q.Index)
	entries, err := s.snapshot(ctx, prefix)
	if err != nil {
		return nil, err
	}

	scored := make([]db.SearchEntry, 0, len(entries))
	for _, e := range entries {
		if !filterMatches(q.Filter, e.Fields) {
			continue
		}
		score, ok := textScore(q.Query, textFields, e.Fields)
		if !ok {
			continue
		}
		e.Score = score
		scored = append(scored, e)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	total := len(scored)
	if q.Limit > 0 && len(scored) > q.Limit {
		scored = scored[:q.Limit]
	}

	return &db.SearchResult{Total: total, Entries: scored}, nil
}

// Aggregate gathers all records under the pipeline prefix, scores the
// text leg, and evaluates the pipeline stages.
func (s *Store) Aggregate(ctx context.Context, p *db.Pipeline) (*db.SearchResult, error) {
	entries, err := s.snapshot(ctx, p.Prefix)
	if err != nil {
		return nil, err
	}

	textScores := make(map[string]float64)
	if p.Match.Text != "" {
		textFields, err := s.textFields(p.Index)
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			if score, ok := textScore(p.Match.Text, textFields, e.Fields); ok {
				textScores[e.Key] = score
			}
		}
	}

	return db.EvaluatePipeline(p, entries, textScores)
}

// SearchList returns records ordered most-recent-first.
func (s *Store) SearchList(ctx context.Context, index string, limit int) (*db.SearchResult, error) {
	entries, err := s.snapshot(ctx, indexPrefix(index))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return createdAtOf(entries[i]) > createdAtOf(entries[j])
	})
	total := len(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return &db.SearchResult{Total: total, Entries: entries}, nil
}

// SearchCount returns the number of records under the index prefix.
func (s *Store) SearchCount(ctx context.Context, index string) (int, error) {
	keys, err := s.Scan(ctx, indexPrefix(index)+"*")
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

// --- helpers ---

// snapshot returns key-sorted copies of all records under prefix.
func (s *Store) snapshot(ctx context.Context, prefix string) ([]db.SearchEntry, error) {
	keys, err := s.Scan(ctx, prefix+"*")
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]db.SearchEntry, 0, len(keys))
	for _, k := range keys {
		rec, ok := s.records[k]
		if !ok {
			continue
		}
		entries = append(entries, db.SearchEntry{Key: k, Fields: cloneFields(rec)})
	}
	return entries, nil
}

func (s *Store) textFields(index string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	def, ok := s.indexes[index]
	if !ok {
		return nil, db.ErrIndexNotFound
	}
	var fields []string
	for _, f := range def.Fields {
		if f.Type == db.IndexFieldText {
			fields = append(fields, f.Name)
		}
	}
	return fields, nil
}

// indexPrefix derives the record prefix from the index name ("p:idx" -> "p:").
func indexPrefix(index string) string {
	return strings.TrimSuffix(index, "idx")
}

func filterMatches(filter, fields map[string]string) bool {
	for k, v := range filter {
		if fields[k] != v {
			return false
		}
	}
	return true
}

// textScore sums whole-word occurrences of the query tokens over the
// given fields. Returns false when no token occurs anywhere.
func textScore(query string, textFields []string, fields map[string]string) (float64, bool) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return 1, true
	}

	var score float64
	for _, tok := range tokens {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(tok) + `\b`)
		if err != nil {
			continue
		}
		for _, f := range textFields {
			score += float64(len(re.FindAllStringIndex(fields[f], -1)))
		}
	}
	if score == 0 {
		return 0, false
	}
	return score, true
}

func createdAtOf(e db.SearchEntry) int64 {
	ts, err := strconv.ParseInt(e.Fields[db.FieldCreatedAt], 10, 64)
	if err != nil {
		return 0
	}
	return ts
}

func cloneFields(m map[string]string) map[string]string {
	c := make(map[string]string, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}
