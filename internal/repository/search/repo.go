// Package search translates retrieval requests into store queries:
// pattern predicates for the conceptual tier, indexed text search for
// the relevance tier, substring matching for the keyword fallback, and
// a computed-score pipeline for the aggregation mode.
package search

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/quaero-io/quaero/internal/db"
	"github.com/quaero-io/quaero/internal/domain"
	"github.com/quaero-io/quaero/internal/domain/document"
	"github.com/quaero-io/quaero/internal/domain/search/filter"
	"github.com/quaero-io/quaero/internal/domain/search/result"
)

// conceptualHeadroom oversamples pattern matches because the
// technical-suffix check below can disqualify content hits.
const conceptualHeadroom = 4

// technicalSuffix disqualifies a content word hit when the query is
// immediately followed by a technical noun. RE2 has no lookahead, so
// occurrences are checked individually after matching.
var technicalSuffix = regexp.MustCompile(`(?i)^\s+(search|api|tool|function)\b`)

// store is the narrow db surface this repository consumes.
type store interface {
	Match(ctx context.Context, q *db.MatchQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	Aggregate(ctx context.Context, p *db.Pipeline) (*db.SearchResult, error)
}

// Repository runs retrieval queries against the backing store.
type Repository struct {
	db store
}

// NewRepository creates a search repository.
func NewRepository(db store) *Repository {
	return &Repository{db: db}
}

// MatchConceptual returns documents whose title equals the query, whose
// title opens with "what is <query>", or whose content mentions the
// query as a standalone concept rather than only as part of a technical
// phrase. An empty query degrades to a pure filter match.
func (r *Repository) MatchConceptual(ctx context.Context, text string, f filter.Filter, limit int) ([]document.Document, error) {
	q := &db.MatchQuery{
		Prefix: domain.DocKeyPrefix,
		Filter: f.Fields(),
		Limit:  limit,
	}

	if text != "" {
		quoted := regexp.QuoteMeta(text)
		q.Any = []db.FieldPattern{
			{Field: document.MetaTitle, Pattern: `^` + quoted + `$`},
			{Field: document.MetaTitle, Pattern: `^what is ` + quoted},
			{Field: db.FieldContent, Pattern: `\b` + quoted + `\b`},
		}
		q.Limit = limit * conceptualHeadroom
	}

	res, err := r.db.Match(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("conceptual match: %w", err)
	}

	docs := make([]document.Document, 0, limit)
	for _, e := range res.Entries {
		doc := documentFromEntry(e)
		if text != "" && !conceptualHit(text, doc) {
			continue
		}
		docs = append(docs, doc)
		if len(docs) == limit {
			break
		}
	}
	return docs, nil
}

// SearchText runs the indexed full-text search; scores carry the
// store's native relevance metric.
func (r *Repository) SearchText(ctx context.Context, text string, f filter.Filter, limit int) ([]result.Result, error) {
	res, err := r.db.SearchText(ctx, &db.TextQuery{
		Index:  domain.IndexName,
		Query:  text,
		Filter: f.Fields(),
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("text search: %w", err)
	}

	results := make([]result.Result, 0, len(res.Entries))
	for _, e := range res.Entries {
		results = append(results, result.New(documentFromEntry(e), e.Score, result.TierFullText))
	}
	return results, nil
}

// MatchKeywords returns documents whose content contains any of the
// tokens as a case-insensitive substring.
func (r *Repository) MatchKeywords(ctx context.Context, tokens []string, f filter.Filter, limit int) ([]document.Document, error) {
	patterns := make([]db.FieldPattern, len(tokens))
	for i, tok := range tokens {
		patterns[i] = db.FieldPattern{Field: db.FieldContent, Pattern: regexp.QuoteMeta(tok)}
	}

	res, err := r.db.Match(ctx, &db.MatchQuery{
		Prefix: domain.DocKeyPrefix,
		Any:    patterns,
		Filter: f.Fields(),
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("keyword match: %w", err)
	}

	docs := make([]document.Document, 0, len(res.Entries))
	for _, e := range res.Entries {
		docs = append(docs, documentFromEntry(e))
	}
	return docs, nil
}

// Aggregate runs the single-pass composite-scoring pipeline: text hits
// and substring matches qualify, weighted signals produce the score,
// sorted by score then recency.
func (r *Repository) Aggregate(ctx context.Context, text string, f filter.Filter, limit int) ([]result.Result, error) {
	quoted := regexp.QuoteMeta(text)
	p := &db.Pipeline{
		Index:  domain.IndexName,
		Prefix: domain.DocKeyPrefix,
		Match: db.MatchStage{
			Text:            text,
			Substring:       text,
			SubstringFields: []string{db.FieldContent, document.MetaTitle, document.MetaDescription},
			Filter:          f.Fields(),
		},
		Score: []db.ScoreTerm{
			{Kind: db.TermTextScore},
			{Kind: db.TermSubstring, Field: document.MetaTitle, Value: text, Weight: 5},
			{Kind: db.TermRegex, Field: document.MetaTitle, Value: `^what is ` + quoted, Weight: 8},
			{Kind: db.TermContentShorter, Threshold: 1000, Weight: 2},
			{Kind: db.TermCreatedWithin, Threshold: 30, Weight: 1},
			{Kind: db.TermRegex, Field: db.FieldContent, Value: quoted + ` (search|api|tool|function)`, Weight: -2},
			{Kind: db.TermRegex, Field: db.FieldContent, Value: `(what is|definition|overview|introduction)`, Weight: 3},
		},
		Limit: limit,
		Now:   time.Now().UTC(),
	}

	res, err := r.db.Aggregate(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("aggregate search: %w", err)
	}

	results := make([]result.Result, 0, len(res.Entries))
	for _, e := range res.Entries {
		results = append(results, result.New(documentFromEntry(e), e.Score, result.TierPipeline))
	}
	return results, nil
}

// conceptualHit re-checks a pattern match: title hits always qualify;
// a content hit qualifies only when at least one occurrence of the
// query word is not part of a technical phrase.
func conceptualHit(text string, doc document.Document) bool {
	lower := strings.ToLower(text)
	title := strings.ToLower(doc.Title())
	if title == lower || strings.HasPrefix(title, "what is "+lower) {
		return true
	}

	word, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(text) + `\b`)
	if err != nil {
		return false
	}
	content := doc.Content()
	for _, loc := range word.FindAllStringIndex(content, -1) {
		if !technicalSuffix.MatchString(content[loc[1]:]) {
			return true
		}
	}
	return false
}

func documentFromEntry(e db.SearchEntry) document.Document {
	id := strings.TrimPrefix(e.Key, domain.DocKeyPrefix)
	metadata := make(map[string]string)
	for k, v := range e.Fields {
		if strings.HasPrefix(k, "__") {
			continue
		}
		metadata[k] = v
	}
	return document.Reconstruct(
		id,
		e.Fields[db.FieldContent],
		metadata,
		parseUnix(e.Fields[db.FieldCreatedAt]),
		parseUnix(e.Fields[db.FieldUpdatedAt]),
	)
}

func parseUnix(s string) time.Time {
	ts, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
