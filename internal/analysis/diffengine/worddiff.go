package diffengine

import "strings"

// SpanKind classifies one span of a word-level diff.
type SpanKind string

const (
	SpanUnchanged SpanKind = "unchanged"
	SpanAdded     SpanKind = "added"
	SpanRemoved   SpanKind = "removed"
)

// TokenSpan is a maximal run of consecutive tokens sharing one diff state.
type TokenSpan struct {
	Kind SpanKind `json:"kind"`
	Text string   `json:"text"`
}

// WordDiff produces the ordered word-level change list between two texts
// using a token longest-common-subsequence.  Tokens are whitespace-separated
// and compared verbatim; adjacent tokens with the same state are merged into
// one span.
func WordDiff(from, to string) []TokenSpan {
	a := strings.Fields(from)
	b := strings.Fields(to)

	// LCS length table
	lcs := make([][]int, len(a)+1)
	for i := range lcs {
		lcs[i] = make([]int, len(b)+1)
	}
	for i := len(a) - 1; i >= 0; i-- {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lcs[i][j] = lcs[i+1][j+1] + 1
			} else if lcs[i+1][j] >= lcs[i][j+1] {
				lcs[i][j] = lcs[i+1][j]
			} else {
				lcs[i][j] = lcs[i][j+1]
			}
		}
	}

	var spans []TokenSpan
	appendToken := func(kind SpanKind, token string) {
		if n := len(spans); n > 0 && spans[n-1].Kind == kind {
			spans[n-1].Text += " " + token
			return
		}
		spans = append(spans, TokenSpan{Kind: kind, Text: token})
	}

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			appendToken(SpanUnchanged, a[i])
			i++
			j++
		case lcs[i+1][j] >= lcs[i][j+1]:
			appendToken(SpanRemoved, a[i])
			i++
		default:
			appendToken(SpanAdded, b[j])
			j++
		}
	}
	for ; i < len(a); i++ {
		appendToken(SpanRemoved, a[i])
	}
	for ; j < len(b); j++ {
		appendToken(SpanAdded, b[j])
	}
	return spans
}
