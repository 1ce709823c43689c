package search

import (
	"reflect"
	"testing"
)

func TestAdjustTextScore_ZeroNativeDefaultsToOne(t *testing.T) {
	got := adjustTextScore("caching", 0, "neutral text", "neutral title")
	if !almostEqual(got, 1.0) {
		t.Errorf("score = %v, want 1.0", got)
	}
}

func TestAdjustTextScore_TechnicalPenaltyCumulates(t *testing.T) {
	// "caching search" and "caching api" both present: two penalties.
	got := adjustTextScore("caching", 2.0, "the caching search uses a caching api", "")
	if !almostEqual(got, 1.4) {
		t.Errorf("score = %v, want 1.4", got)
	}
}

func TestAdjustTextScore_PenaltyFromTitle(t *testing.T) {
	got := adjustTextScore("caching", 1.0, "no phrases here", "Caching API reference")
	if !almostEqual(got, 0.7) {
		t.Errorf("score = %v, want 0.7", got)
	}
}

func TestAdjustTextScore_IndicatorBonusCumulates(t *testing.T) {
	got := adjustTextScore("caching", 1.0, "what is caching, an overview", "")
	if !almostEqual(got, 1.4) {
		t.Errorf("score = %v, want 1.4", got)
	}
}

func TestAdjustTextScore_Floor(t *testing.T) {
	// Every technical phrase present, native score already tiny.
	content := "x search x api x tool x function search x using x"
	got := adjustTextScore("x", 0.2, content, "")
	if !almostEqual(got, 0.1) {
		t.Errorf("score = %v, want floor 0.1", got)
	}
}

func TestConceptualScore(t *testing.T) {
	if got := conceptualScore("caching", "What Is Caching"); got != 20 {
		t.Errorf("title containing query: score = %v, want 20", got)
	}
	if got := conceptualScore("caching", "Unrelated"); got != 15 {
		t.Errorf("plain conceptual: score = %v, want 15", got)
	}
}

func TestKeywordTokens(t *testing.T) {
	got := keywordTokens("how to use redis in go")
	want := []string{"how", "use", "redis"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}

	if got := keywordTokens("go is ok"); got != nil {
		t.Errorf("short tokens should be dropped, got %v", got)
	}
	if got := keywordTokens(""); got != nil {
		t.Errorf("empty query yields no tokens, got %v", got)
	}
}

func TestKeywordTokens_CountsRunes(t *testing.T) {
	// "数据" is two runes (six bytes) and must be dropped like any other
	// two-character token; "数据库" is three runes and kept.
	got := keywordTokens("数据 数据库 db")
	want := []string{"数据库"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("tokens = %v, want %v", got, want)
	}
}
