package search

import (
	"strings"
	"unicode/utf8"
)

// Tier scoring weights.
const (
	conceptualBase   = 15.0
	titleBonus       = 5.0
	keywordScore     = 0.3
	textScoreFloor   = 0.1
	technicalPenalty = 0.3
	indicatorBonus   = 0.2
)

// conceptualIndicators suggest definitional language in content or title.
var conceptualIndicators = []string{"what is", "definition", "overview", "introduction", "about"}

// minTokenLength drops short noise tokens from the keyword fallback.
const minTokenLength = 2

// conceptualScore assigns the conceptual tier's score: a high fixed
// base, plus a bonus when the title itself mentions the query.
func conceptualScore(text, title string) float64 {
	score := conceptualBase
	if strings.Contains(strings.ToLower(title), strings.ToLower(text)) {
		score += titleBonus
	}
	return score
}

// adjustTextScore reshapes the store's native text score: a zero score
// counts as 1.0, technical phrases around the query each subtract,
// definitional language each adds, and the result never drops below the
// floor so penalties alone cannot eliminate a hit.
func adjustTextScore(text string, native float64, content, title string) float64 {
	score := native
	if score == 0 {
		score = 1.0
	}

	q := strings.ToLower(text)
	lc := strings.ToLower(content)
	lt := strings.ToLower(title)

	for _, phrase := range technicalPhrases(q) {
		if strings.Contains(lc, phrase) || strings.Contains(lt, phrase) {
			score -= technicalPenalty
		}
	}
	for _, ind := range conceptualIndicators {
		if strings.Contains(lc, ind) || strings.Contains(lt, ind) {
			score += indicatorBonus
		}
	}

	if score < textScoreFloor {
		score = textScoreFloor
	}
	return score
}

// technicalPhrases are usage patterns where the query names a mechanism
// rather than a concept.
func technicalPhrases(q string) []string {
	return []string{
		q + " search",
		q + " api",
		q + " tool",
		q + " function",
		"search " + q,
		"using " + q,
	}
}

// keywordTokens splits the query on whitespace, keeping tokens long
// enough to be meaningful substrings.
func keywordTokens(text string) []string {
	var tokens []string
	for _, tok := range strings.Fields(text) {
		if utf8.RuneCountInString(tok) > minTokenLength {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}
