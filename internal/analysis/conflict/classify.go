package conflict

import (
	"strings"
	"unicode"

	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// prohibition and permission/obligation markers used for polarity detection.
// A clause pair with opposite polarity over shared subject matter reads as a
// contradiction.
var (
	prohibitionMarkers = map[string]bool{
		"dilarang":     true,
		"tidak":        true,
		"bukan":        true,
		"dikecualikan": true,
		"dibebaskan":   true,
		"dicabut":      true,
	}
	permissionMarkers = map[string]bool{
		"dapat":         true,
		"boleh":         true,
		"diizinkan":     true,
		"diperkenankan": true,
		"berhak":        true,
		"wajib":         true,
		"harus":         true,
	}
)

// coverage bands for the non-contradiction conflict types
const (
	overlapCoverageFloor = 0.6
	gapCoverageCeiling   = 0.3
)

// keywordBonus is added to the raw similarity when both excerpts share
// normative markers, capped so confidence stays in [0,1].
const keywordBonus = 0.1

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// coverage is the fraction of source tokens also present in other.
func coverage(source, other string) float64 {
	src := tokenize(source)
	if len(src) == 0 {
		return 0
	}
	present := make(map[string]bool)
	for _, t := range tokenize(other) {
		present[t] = true
	}
	var shared int
	for _, t := range src {
		if present[t] {
			shared++
		}
	}
	return float64(shared) / float64(len(src))
}

type polarity struct {
	prohibits bool
	permits   bool
}

func polarityOf(text string) polarity {
	var p polarity
	for _, t := range tokenize(text) {
		if prohibitionMarkers[t] {
			p.prohibits = true
		}
		if permissionMarkers[t] {
			p.permits = true
		}
	}
	return p
}

// hasNormativeMarker reports whether the text carries any normative language.
func hasNormativeMarker(text string) bool {
	p := polarityOf(text)
	return p.prohibits || p.permits
}

// classify derives the conflict type of a clause pair.  Opposite polarity
// over shared subject matter is a contradiction; otherwise lexical coverage
// separates overlap, gap, and inconsistency.
func classify(source, other string) (common.ConflictType, float64) {
	cov := coverage(source, other)
	sp, op := polarityOf(source), polarityOf(other)

	opposite := (sp.prohibits && op.permits && !op.prohibits) ||
		(op.prohibits && sp.permits && !sp.prohibits)
	switch {
	case opposite && cov > gapCoverageCeiling:
		return common.ConflictContradiction, cov
	case cov >= overlapCoverageFloor:
		return common.ConflictOverlap, cov
	case cov < gapCoverageCeiling:
		return common.ConflictGap, cov
	default:
		return common.ConflictInconsistency, cov
	}
}

// confidence combines the raw similarity with a shared-marker bonus.
func confidence(similarity float64, source, other string) float64 {
	c := similarity
	if hasNormativeMarker(source) && hasNormativeMarker(other) {
		c += keywordBonus
	}
	if c > 1 {
		c = 1
	}
	return c
}
