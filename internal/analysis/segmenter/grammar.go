package segmenter

import (
	"regexp"
	"strings"

	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// structuralMarker is one rule of the line-anchored grammar.  The pattern
// must match at the start of a line; group 1 captures the marker text used
// verbatim as the clause ref.
type structuralMarker struct {
	clauseType common.ClauseType
	re         *regexp.Regexp
}

// markers is ordered coarsest-first, matching the hierarchy of Indonesian
// legislative drafting (UU No. 12/2011 annex): BAB > Bagian > Paragraf >
// Pasal > Ayat > Huruf > Angka.  Ordering matters only for markers whose
// patterns could both match a line; Angka is tried after Huruf so "1." is
// never claimed by the letter rule.
var markers = []structuralMarker{
	{common.ClauseBab, regexp.MustCompile(`(?i)^(BAB\s+(?:[IVXLCDM]+|\d+[A-Z]?))\b`)},
	{common.ClauseBagian, regexp.MustCompile(`(?i)^(Bagian\s+Ke\p{L}+)\b`)},
	{common.ClauseParagraf, regexp.MustCompile(`(?i)^(Paragraf\s+\d+[A-Z]?)\b`)},
	{common.ClausePasal, regexp.MustCompile(`(?i)^(Pasal\s+\d+[A-Z]?)\b`)},
	{common.ClauseAyat, regexp.MustCompile(`^(\(\d+[a-z]?\))\s*`)},
	{common.ClauseHuruf, regexp.MustCompile(`^([a-z])\.\s+`)},
	{common.ClauseAngka, regexp.MustCompile(`^(\d+)\.\s+`)},
}

// matchMarker tests a line against the grammar and returns the clause type,
// the marker text (the clause ref), and the remainder of the line after the
// marker.  ok is false when the line opens no new clause.
func matchMarker(line string) (t common.ClauseType, ref string, rest string, ok bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", "", "", false
	}
	for _, m := range markers {
		loc := m.re.FindStringSubmatchIndex(trimmed)
		if loc == nil {
			continue
		}
		ref = strings.TrimSpace(trimmed[loc[2]:loc[3]])
		rest = strings.TrimSpace(trimmed[loc[1]:])
		// Ayat refs keep their parentheses; Huruf/Angka refs keep the
		// trailing dot so the ref reads exactly as printed.
		switch m.clauseType {
		case common.ClauseHuruf, common.ClauseAngka:
			ref += "."
		}
		return m.clauseType, ref, rest, true
	}
	return "", "", "", false
}
