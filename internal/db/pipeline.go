package db

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// TermKind selects how a ScoreTerm's condition is evaluated.
type TermKind int

// Score term kinds.
const (
	// TermTextScore contributes the record's native text-search score
	// when it is positive.
	TermTextScore TermKind = iota
	// TermSubstring contributes Weight when Field contains Value
	// (case-insensitive).
	TermSubstring
	// TermRegex contributes Weight when Field matches the Value pattern
	// (case-insensitive RE2).
	TermRegex
	// TermContentShorter contributes Weight when the content is shorter
	// than Threshold runes.
	TermContentShorter
	// TermCreatedWithin contributes Weight when the record was created
	// within Threshold days of the pipeline's reference time.
	TermCreatedWithin
)

// ScoreTerm is one independent weighted condition of a computed-field
// stage. A term contributes 0 when its condition is false.
type ScoreTerm struct {
	Kind      TermKind
	Field     string
	Value     string
	Threshold int
	Weight    float64
}

// MatchStage qualifies records for the pipeline: a record matches when
// it is a text-search hit OR any substring field contains Substring
// (case-insensitive), ANDed with the exact-match filter. An empty
// substring matches everything.
type MatchStage struct {
	Text            string
	Substring       string
	SubstringFields []string
	Filter          map[string]string
}

// Pipeline is an aggregation over document records: match stage, score
// terms, sort by (score desc, created desc), limit. Now is the
// reference time for recency terms.
type Pipeline struct {
	Index  string
	Prefix string
	Match  MatchStage
	Score  []ScoreTerm
	Limit  int
	Now    time.Time
}

// EvaluatePipeline applies the pipeline's match, score, sort, and limit
// stages over candidate entries. textScores maps record key to the
// native text-search score of the text leg (absent key means no hit).
// Backends without server-side computed fields call this after
// gathering candidates.
func EvaluatePipeline(p *Pipeline, entries []SearchEntry, textScores map[string]float64) (*SearchResult, error) {
	terms, err := compileTerms(p.Score)
	if err != nil {
		return nil, err
	}

	matched := make([]SearchEntry, 0, len(entries))
	for _, e := range entries {
		if !pipelineMatches(&p.Match, e, textScores[e.Key]) {
			continue
		}

		var score float64
		for _, t := range terms {
			score += t.eval(e, textScores[e.Key], p.Now)
		}
		e.Score = score
		matched = append(matched, e)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].Score != matched[j].Score {
			return matched[i].Score > matched[j].Score
		}
		return createdAt(matched[i]) > createdAt(matched[j])
	})

	total := len(matched)
	if p.Limit > 0 && len(matched) > p.Limit {
		matched = matched[:p.Limit]
	}

	return &SearchResult{Total: total, Entries: matched}, nil
}

func pipelineMatches(m *MatchStage, e SearchEntry, textScore float64) bool {
	for k, v := range m.Filter {
		if e.Fields[k] != v {
			return false
		}
	}

	if textScore > 0 {
		return true
	}
	sub := strings.ToLower(m.Substring)
	for _, f := range m.SubstringFields {
		if strings.Contains(strings.ToLower(e.Fields[f]), sub) {
			return true
		}
	}
	return false
}

type compiledTerm struct {
	ScoreTerm
	re *regexp.Regexp
}

func compileTerms(terms []ScoreTerm) ([]compiledTerm, error) {
	out := make([]compiledTerm, 0, len(terms))
	for _, t := range terms {
		ct := compiledTerm{ScoreTerm: t}
		if t.Kind == TermRegex {
			re, err := regexp.Compile("(?i)" + t.Value)
			if err != nil {
				return nil, fmt.Errorf("compile score term pattern %q: %w", t.Value, err)
			}
			ct.re = re
		}
		out = append(out, ct)
	}
	return out, nil
}

func (t *compiledTerm) eval(e SearchEntry, textScore float64, now time.Time) float64 {
	switch t.Kind {
	case TermTextScore:
		if textScore > 0 {
			return textScore
		}
	case TermSubstring:
		if strings.Contains(strings.ToLower(e.Fields[t.Field]), strings.ToLower(t.Value)) {
			return t.Weight
		}
	case TermRegex:
		if t.re.MatchString(e.Fields[t.Field]) {
			return t.Weight
		}
	case TermContentShorter:
		if utf8.RuneCountInString(e.Fields[FieldContent]) < t.Threshold {
			return t.Weight
		}
	case TermCreatedWithin:
		cutoff := now.AddDate(0, 0, -t.Threshold).Unix()
		if createdAt(e) > cutoff {
			return t.Weight
		}
	}
	return 0
}

func createdAt(e SearchEntry) int64 {
	ts, err := strconv.ParseInt(e.Fields[FieldCreatedAt], 10, 64)
	if err != nil {
		return 0
	}
	return ts
}
