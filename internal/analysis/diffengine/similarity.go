package diffengine

import (
	"strings"
	"unicode"
)

// Tokenize lowercases text and splits it into word tokens.  Punctuation
// separates tokens and is discarded; digits stay so "Pasal 5" and "Pasal 6"
// differ.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Similarity scores two texts in [0,1] with the Dice coefficient over token
// multisets.  Identical texts score 1, token-disjoint texts score 0.  Two
// empty texts are identical by definition.
func Similarity(a, b string) float64 {
	ta, tb := Tokenize(a), Tokenize(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	freq := make(map[string]int, len(ta))
	for _, t := range ta {
		freq[t]++
	}
	var shared int
	for _, t := range tb {
		if freq[t] > 0 {
			freq[t]--
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(ta)+len(tb))
}
