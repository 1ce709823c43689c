package db

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

var pipelineNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func pipelineEntry(key, title, content string, created time.Time) SearchEntry {
	return SearchEntry{
		Key: key,
		Fields: map[string]string{
			"title":        title,
			FieldContent:   content,
			FieldCreatedAt: strconv.FormatInt(created.Unix(), 10),
		},
	}
}

func scoringPipeline(q string, limit int) *Pipeline {
	return &Pipeline{
		Match: MatchStage{
			Text:            q,
			Substring:       q,
			SubstringFields: []string{FieldContent, "title"},
		},
		Score: []ScoreTerm{
			{Kind: TermTextScore},
			{Kind: TermSubstring, Field: "title", Value: q, Weight: 5},
			{Kind: TermRegex, Field: "title", Value: `^what is ` + q, Weight: 8},
			{Kind: TermContentShorter, Threshold: 1000, Weight: 2},
			{Kind: TermCreatedWithin, Threshold: 30, Weight: 1},
			{Kind: TermRegex, Field: FieldContent, Value: q + ` (search|api|tool|function)`, Weight: -2},
			{Kind: TermRegex, Field: FieldContent, Value: `(what is|definition|overview|introduction)`, Weight: 3},
		},
		Limit: limit,
		Now:   pipelineNow,
	}
}

func TestEvaluatePipeline_UnmatchedExcluded(t *testing.T) {
	old := pipelineNow.AddDate(0, -6, 0)
	entries := []SearchEntry{
		pipelineEntry("k1", "", "mentions caching here", old),
		pipelineEntry("k2", "", "totally unrelated", old),
	}

	res, err := EvaluatePipeline(scoringPipeline("caching", 10), entries, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 1 || res.Entries[0].Key != "k1" {
		t.Fatalf("unexpected entries: %+v", res.Entries)
	}
}

func TestEvaluatePipeline_TextHitQualifiesWithoutSubstring(t *testing.T) {
	old := pipelineNow.AddDate(0, -6, 0)
	entries := []SearchEntry{
		pipelineEntry("hit", "", "stores data in fast layers", old),
	}
	textScores := map[string]float64{"hit": 1.5}

	res, err := EvaluatePipeline(scoringPipeline("caching", 10), entries, textScores)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 1 {
		t.Fatalf("text hit must qualify, got %d entries", len(res.Entries))
	}
	// text score 1.5 + short-content 2; no other terms apply.
	if got := res.Entries[0].Score; got != 3.5 {
		t.Errorf("score = %v, want 3.5", got)
	}
}

func TestEvaluatePipeline_CompositeMonotonicity(t *testing.T) {
	old := pipelineNow.AddDate(0, -6, 0)
	base := pipelineEntry("base", "", "caching basics", old)
	bonus := pipelineEntry("bonus", "what is caching", "caching basics", old)
	penalized := pipelineEntry("pen", "", "caching basics with a caching api", old)

	res, err := EvaluatePipeline(scoringPipeline("caching", 10), []SearchEntry{base, bonus, penalized}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scores := map[string]float64{}
	for _, e := range res.Entries {
		scores[e.Key] = e.Score
	}
	if !(scores["bonus"] > scores["base"]) {
		t.Errorf("bonus condition must strictly increase the score: %v", scores)
	}
	if !(scores["pen"] < scores["base"]) {
		t.Errorf("penalty condition must strictly decrease the score: %v", scores)
	}
	// bonus: title substring +5 and what-is prefix +8 on top of base.
	if scores["bonus"]-scores["base"] != 13 {
		t.Errorf("bonus delta = %v, want 13", scores["bonus"]-scores["base"])
	}
	if scores["base"]-scores["pen"] != 2 {
		t.Errorf("penalty delta = %v, want 2", scores["base"]-scores["pen"])
	}
}

func TestEvaluatePipeline_RecencyTiebreak(t *testing.T) {
	recent := pipelineNow.AddDate(0, 0, -40) // outside the 30-day bonus window
	older := pipelineNow.AddDate(0, -6, 0)
	entries := []SearchEntry{
		pipelineEntry("older", "", "caching notes", older),
		pipelineEntry("newer", "", "caching notes", recent),
	}

	res, err := EvaluatePipeline(scoringPipeline("caching", 10), entries, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Entries[0].Key != "newer" {
		t.Errorf("equal scores must sort most-recent-first, got %s first", res.Entries[0].Key)
	}
}

func TestEvaluatePipeline_RecencyBonus(t *testing.T) {
	yesterday := pipelineNow.AddDate(0, 0, -1)
	old := pipelineNow.AddDate(0, -6, 0)
	long := strings.Repeat("caching notes ", 100) // >1000 runes, no short bonus
	entries := []SearchEntry{
		pipelineEntry("old", "", long, old),
		pipelineEntry("fresh", "", long, yesterday),
	}
	textScores := map[string]float64{"old": 1.0, "fresh": 1.0}

	res, err := EvaluatePipeline(scoringPipeline("caching", 10), entries, textScores)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	scores := map[string]float64{}
	for _, e := range res.Entries {
		scores[e.Key] = e.Score
	}
	if scores["old"] != 1.0 {
		t.Errorf("plain text hit score = %v, want 1.0", scores["old"])
	}
	if scores["fresh"] != 2.0 {
		t.Errorf("recent doc score = %v, want 2.0", scores["fresh"])
	}
	if res.Entries[0].Key != "fresh" {
		t.Errorf("recent doc should rank first")
	}
}

func TestEvaluatePipeline_Limit(t *testing.T) {
	old := pipelineNow.AddDate(0, -6, 0)
	var entries []SearchEntry
	for i := 0; i < 10; i++ {
		entries = append(entries, pipelineEntry("k"+strconv.Itoa(i), "", "caching", old))
	}

	res, err := EvaluatePipeline(scoringPipeline("caching", 3), entries, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entries) != 3 {
		t.Errorf("got %d entries, limit is 3", len(res.Entries))
	}
	if res.Total != 10 {
		t.Errorf("total = %d, want 10", res.Total)
	}
}

func TestEvaluatePipeline_BadRegexFails(t *testing.T) {
	p := &Pipeline{
		Match: MatchStage{Substring: "x", SubstringFields: []string{FieldContent}},
		Score: []ScoreTerm{{Kind: TermRegex, Field: FieldContent, Value: `(`, Weight: 1}},
	}
	if _, err := EvaluatePipeline(p, nil, nil); err == nil {
		t.Error("expected an error for an invalid pattern")
	}
}
