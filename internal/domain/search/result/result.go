package result

import "github.com/quaero-io/quaero/internal/domain/document"

// Tier identifies the retrieval strategy that produced a result. The
// attached score is an opaque ranking signal: comparable within one
// search call, not across modes.
type Tier string

const (
	// TierConceptual matches definitional/"what is X" style queries.
	TierConceptual Tier = "conceptual"
	// TierFullText is the store's indexed text search.
	TierFullText Tier = "fulltext"
	// TierKeyword is the substring fallback over query tokens.
	TierKeyword Tier = "keyword"
	// TierPipeline is the single-pass aggregation scoring mode.
	TierPipeline Tier = "pipeline"
)

// Result is a single search hit: a document plus its transient
// relevance score, recomputed on every search call.
type Result struct {
	doc   document.Document
	score float64
	tier  Tier
}

// New creates a search result.
func New(doc document.Document, score float64, tier Tier) Result {
	return Result{doc: doc, score: score, tier: tier}
}

// Document returns the matched document.
func (r Result) Document() document.Document { return r.doc }

// Score returns the relevance score.
func (r Result) Score() float64 { return r.score }

// Tier returns the retrieval tier that produced this result.
func (r Result) Tier() Tier { return r.tier }
