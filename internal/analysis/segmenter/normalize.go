package segmenter

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// smartQuoteReplacer maps typographic quotation marks and dashes emitted by
// PDF extractors to their canonical ASCII equivalents.
var smartQuoteReplacer = strings.NewReplacer(
	"“", `"`, // left double quote
	"”", `"`, // right double quote
	"„", `"`, // low double quote
	"‘", "'", // left single quote
	"’", "'", // right single quote
	"‚", "'", // low single quote
	"«", `"`, // left guillemet
	"»", `"`, // right guillemet
	"–", "-", // en dash
	"—", "-", // em dash
	" ", " ", // no-break space
)

// Normalize canonicalises raw extracted text: Unicode NFC, smart quotes to
// ASCII, control characters stripped, runs of spaces/tabs collapsed to one
// space, runs of blank lines collapsed to a single blank line.  The output
// never contains three or more consecutive spaces or newlines.
func Normalize(text string) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)
	text = smartQuoteReplacer.Replace(text)

	var sb strings.Builder
	sb.Grow(len(text))
	pendingSpace := false
	newlineRun := 0
	wroteAny := false

	flushSpace := func() {
		if pendingSpace && wroteAny && newlineRun == 0 {
			sb.WriteByte(' ')
		}
		pendingSpace = false
	}

	for _, r := range text {
		switch {
		case r == '\n' || r == '\r' || r == '\v' || r == '\f':
			if r == '\r' {
				// treat CRLF and bare CR alike; LF handling dedups
				r = '\n'
			}
			pendingSpace = false
			if wroteAny && newlineRun < 2 {
				sb.WriteByte('\n')
				newlineRun++
			}
		case r == ' ' || r == '\t':
			pendingSpace = true
		case unicode.IsControl(r):
			// strip remaining control characters entirely
		default:
			flushSpace()
			sb.WriteRune(r)
			wroteAny = true
			newlineRun = 0
		}
	}

	return strings.TrimRight(sb.String(), "\n ")
}
