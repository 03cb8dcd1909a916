package diffengine

import (
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// obligationKeywords are the Indonesian obligation/prohibition/sanction
// markers whose presence in a changed span escalates significance by one
// level.  Matched on tokenized lowercase text.
var obligationKeywords = map[string]bool{
	"wajib":      true,
	"dilarang":   true,
	"harus":      true,
	"dipidana":   true,
	"sanksi":     true,
	"denda":      true,
	"dicabut":    true,
	"dibatalkan": true,
}

const shortClauseRunes = 120

// similarity bands for modified and moved changes
const (
	majorSimilarityCeiling  = 0.5
	cosmeticSimilarityFloor = 0.85
)

func containsObligationKeyword(text string) bool {
	for _, tok := range Tokenize(text) {
		if obligationKeywords[tok] {
			return true
		}
	}
	return false
}

// changedSpanHasKeyword reports whether any added or removed span of a word
// diff carries an obligation keyword.
func changedSpanHasKeyword(spans []TokenSpan) bool {
	for _, sp := range spans {
		if sp.Kind == SpanUnchanged {
			continue
		}
		if containsObligationKeyword(sp.Text) {
			return true
		}
	}
	return false
}

// classifyPaired assigns significance to a modified or moved change from its
// similarity score, then escalates one level when the changed span touches an
// obligation keyword.
func classifyPaired(similarity float64, spans []TokenSpan) common.SignificanceLevel {
	var level common.SignificanceLevel
	switch {
	case similarity < majorSimilarityCeiling:
		level = common.SignificanceMajor
	case similarity < cosmeticSimilarityFloor:
		level = common.SignificanceMinor
	default:
		level = common.SignificanceCosmetic
	}
	if changedSpanHasKeyword(spans) {
		level = level.Escalate()
	}
	return level
}

// classifyStandalone assigns significance to an added or deleted clause.
// Whole-article changes are major; short list items (huruf/angka) rank lower,
// escalated back up when they carry obligation language.
func classifyStandalone(c *clause.Clause) common.SignificanceLevel {
	level := common.SignificanceMajor
	if c.Type == common.ClauseHuruf || c.Type == common.ClauseAngka {
		if len([]rune(c.Text)) < shortClauseRunes {
			level = common.SignificanceMinor
		}
	}
	if level != common.SignificanceMajor && containsObligationKeyword(c.Text) {
		level = level.Escalate()
	}
	return level
}
