package redis

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/redis/rueidis"

	"github.com/quaero-io/quaero/internal/db"
)

// filterHeadroom oversamples FT.SEARCH hits when a metadata filter must
// be applied client-side (metadata fields are not indexed).
const filterHeadroom = 4

// textFetchAll bounds the candidate fetch when the whole hit set is
// needed (aggregation text leg).
const textFetchAll = 10000

// SearchText runs FT.SEARCH WITHSCORES; BM25 scores become the native
// relevance metric. The metadata filter is applied to the returned
// hashes.
func (s *Store) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}

	queryStr := "*"
	if q.Query != "" {
		queryStr = escapeQuery(q.Query)
	}

	fetch := q.Limit
	if fetch <= 0 {
		fetch = textFetchAll
	} else if len(q.Filter) > 0 {
		fetch *= filterHeadroom
	}

	args := []string{
		q.Index, queryStr,
		"WITHSCORES",
		"LIMIT", "0", strconv.Itoa(fetch),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	sr, err := parseScoredResult(raw)
	if err != nil {
		return nil, err
	}
	return applyFilter(sr, q.Filter, q.Limit), nil
}

// Match scans the record set and evaluates the field patterns and
// filter in Go. RediSearch has no regex predicate, so pattern matching
// is client-side over the key-sorted scan.
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

	entries, err := s.fetchAll(ctx, q.Prefix)
	if err != nil {
		return nil, err
	}

	matched := make([]db.SearchEntry, 0, len(entries))
	for _, e := range entries {
		if !fieldsMatch(q.Filter, e.Fields) {
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

// Aggregate gathers the record set, scores the text leg via FT.SEARCH,
// and evaluates the pipeline stages client-side.
func (s *Store) Aggregate(ctx context.Context, p *db.Pipeline) (*db.SearchResult, error) {
	entries, err := s.fetchAll(ctx, p.Prefix)
	if err != nil {
		return nil, err
	}

	textScores := make(map[string]float64)
	if p.Match.Text != "" {
		hits, err := s.SearchText(ctx, &db.TextQuery{Index: p.Index, Query: p.Match.Text})
		if err != nil {
			return nil, err
		}
		for _, h := range hits.Entries {
			textScores[h.Key] = h.Score
		}
	}

	return db.EvaluatePipeline(p, entries, textScores)
}

// SearchList returns records ordered most-recent-first via SORTBY on
// the created-at numeric field.
func (s *Store) SearchList(ctx context.Context, index string, limit int) (*db.SearchResult, error) {
	if limit <= 0 {
		limit = textFetchAll
	}
	args := []string{
		index, "*",
		"SORTBY", db.FieldCreatedAt, "DESC",
		"LIMIT", "0", strconv.Itoa(limit),
		"DIALECT", "2",
	}

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parsePlainResult(raw)
}

// SearchCount returns document count via FT.SEARCH with LIMIT 0 0.
func (s *Store) SearchCount(ctx context.Context, index string) (int, error) {
	cmd := s.b().Arbitrary("FT.SEARCH").Args(index, "*", "LIMIT", "0", "0").Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return 0, &db.Error{Op: db.OpSearch, Err: err}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

// fetchAll scans all records under prefix and hydrates their hashes,
// key-sorted for deterministic ordering.
func (s *Store) fetchAll(ctx context.Context, prefix string) ([]db.SearchEntry, error) {
	keys, err := s.Scan(ctx, prefix+"*")
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)

	hashes, err := s.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, err
	}

	entries := make([]db.SearchEntry, 0, len(keys))
	for i, k := range keys {
		if len(hashes[i]) == 0 {
			continue
		}
		entries = append(entries, db.SearchEntry{Key: k, Fields: hashes[i]})
	}
	return entries, nil
}

// --- Result parsing ---

// parseScoredResult parses a WITHSCORES reply.
// 3-stride: [total, key1, score1, fields1, key2, score2, fields2, ...]
func parseScoredResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+2 < len(raw); i += 3 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		scoreStr, err := raw[i+1].ToString()
		if err != nil {
			continue
		}
		score, err := strconv.ParseFloat(scoreStr, 64)
		if err != nil {
			continue
		}

		fields, err := raw[i+2].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Score:  score,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

// parsePlainResult parses a reply without scores.
// 2-stride: [total, key1, fields1, key2, fields2, ...]
func parsePlainResult(raw []rueidis.RedisMessage) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entries = append(entries, db.SearchEntry{
			Key:    key,
			Fields: parseFieldPairs(fields),
		})
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

func applyFilter(sr *db.SearchResult, filter map[string]string, limit int) *db.SearchResult {
	if len(filter) == 0 {
		if limit > 0 && len(sr.Entries) > limit {
			sr.Entries = sr.Entries[:limit]
		}
		return sr
	}

	kept := make([]db.SearchEntry, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		if !fieldsMatch(filter, e.Fields) {
			continue
		}
		kept = append(kept, e)
		if limit > 0 && len(kept) == limit {
			break
		}
	}
	return &db.SearchResult{Total: len(kept), Entries: kept}
}

func fieldsMatch(filter, fields map[string]string) bool {
	for k, v := range filter {
		if fields[k] != v {
			return false
		}
	}
	return true
}

// --- Query escaping ---

func escapeQuery(s string) string {
	return queryEscaper.Replace(s)
}

var queryEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`"`, `\"`,
	`@`, `\@`,
	`{`, `\{`,
	`}`, `\}`,
	`(`, `\(`,
	`)`, `\)`,
	`|`, `\|`,
	`-`, `\-`,
	`~`, `\~`,
	`*`, `\*`,
	`[`, `\[`,
	`]`, `\]`,
	`!`, `\!`,
	`%`, `\%`,
	`^`, `\^`,
	`$`, `\$`,
	`<`, `\<`,
	`>`, `\>`,
	`=`, `\=`,
	`;`, `\;`,
	`+`, `\+`,
)
