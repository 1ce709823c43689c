// Package search implements the tiered retrieval controller: three
// strategies applied in a fixed sequence with a shrinking result
// budget, plus an independent single-pass aggregation mode.
package search

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/quaero-io/quaero/internal/domain"
	"github.com/quaero-io/quaero/internal/domain/document"
	"github.com/quaero-io/quaero/internal/domain/search/filter"
	"github.com/quaero-io/quaero/internal/domain/search/query"
	"github.com/quaero-io/quaero/internal/domain/search/result"
	"github.com/quaero-io/quaero/internal/logger"
)

// Service orchestrates document retrieval across tiers.
type Service struct {
	repo Repository
}

// New creates a search service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Search runs the tiered retrieval: conceptual matches first, then
// indexed full-text, then the keyword fallback; tiers are concatenated,
// stable-sorted by score descending, and truncated to the limit. Any
// tier error fails the whole call. Dedup is by document identity,
// applied before a candidate is scored in a later tier.
func (s *Service) Search(ctx context.Context, q query.Query) ([]result.Result, error) {
	limit := q.Limit()
	results := make([]result.Result, 0, limit)
	seen := make(map[string]struct{}, limit)

	// Tier 1: conceptual.
	if budget := limit / 3; budget > 0 {
		docs, err := s.repo.MatchConceptual(ctx, q.Text(), q.Filter(), budget)
		if err != nil {
			return nil, fmt.Errorf("conceptual tier: %w", err)
		}
		for _, doc := range docs {
			results = append(results, result.New(doc, conceptualScore(q.Text(), doc.Title()), result.TierConceptual))
			seen[doc.ID()] = struct{}{}
		}
	}
	conceptualCount := len(results)

	// Tier 2: indexed full-text over whatever budget tier 1 left. The
	// budget counts fetched candidates, so dropping duplicates here can
	// yield fewer than `remaining` hits.
	remaining := limit - conceptualCount
	if remaining > 0 {
		hits, err := s.repo.SearchText(ctx, q.Text(), q.Filter(), remaining)
		if err != nil {
			return nil, fmt.Errorf("full-text tier: %w", err)
		}
		for _, hit := range hits {
			doc := hit.Document()
			if _, dup := seen[doc.ID()]; dup {
				continue
			}
			score := adjustTextScore(q.Text(), hit.Score(), doc.Content(), doc.Title())
			results = append(results, result.New(doc, score, result.TierFullText))
			seen[doc.ID()] = struct{}{}
		}
	}

	// Tier 3: keyword fallback. Fires only when the first two tiers
	// gathered less than half the limit and tier 2 had budget at all;
	// its budget is tier 2's, not recomputed. This can return fewer
	// than `limit` results even when more matches exist in the store,
	// which is the documented contract of the fallback.
	if len(results) < limit/2 && remaining > 0 {
		if tokens := keywordTokens(q.Text()); len(tokens) > 0 {
			docs, err := s.repo.MatchKeywords(ctx, tokens, q.Filter(), remaining)
			if err != nil {
				return nil, fmt.Errorf("keyword tier: %w", err)
			}
			for _, doc := range docs {
				if _, dup := seen[doc.ID()]; dup {
					continue
				}
				results = append(results, result.New(doc, keywordScore, result.TierKeyword))
				seen[doc.ID()] = struct{}{}
			}
		}
	}

	// Stable sort keeps insertion order on ties, so earlier tiers
	// outrank later ones at equal score.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score() > results[j].Score()
	})
	if len(results) > limit {
		results = results[:limit]
	}

	logger.FromContext(ctx).Debug("tiered search done",
		zap.Int("limit", limit),
		zap.Int("conceptual", conceptualCount),
		zap.Int("total", len(results)),
	)
	return results, nil
}

// SearchSemantic runs the aggregation mode: one pipeline pass scoring
// every qualifying document by weighted signals, sorted by score then
// recency. Scores are not comparable with the tiered mode's.
func (s *Service) SearchSemantic(ctx context.Context, q query.Query) ([]result.Result, error) {
	results, err := s.repo.Aggregate(ctx, q.Text(), q.Filter(), q.Limit())
	if err != nil {
		return nil, fmt.Errorf("semantic search: %w", err)
	}

	logger.FromContext(ctx).Debug("semantic search done",
		zap.Int("limit", q.Limit()),
		zap.Int("total", len(results)),
	)
	return results, nil
}

// SearchMetadata returns documents matching the filter alone, without
// any text relevance ranking.
func (s *Service) SearchMetadata(ctx context.Context, f filter.Filter, limit int) ([]document.Document, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive, got %d", domain.ErrInvalidArgument, limit)
	}
	if limit > query.MaxLimit {
		limit = query.MaxLimit
	}

	docs, err := s.repo.MatchConceptual(ctx, "", f, limit)
	if err != nil {
		return nil, fmt.Errorf("metadata search: %w", err)
	}
	return docs, nil
}
