package citation

import (
	"regexp"
	"sort"
)

// citationPattern pairs a compiled regexp with the citation type it yields.
// Every pattern captures exactly two groups: number, then year.
type citationPattern struct {
	re       *regexp.Regexp
	citeType CitationType
}

// numTahun is the shared "No./Nomor X Tahun Y" tail of every Indonesian
// legal-reference idiom.  Number may carry letter suffixes ("12A").
const numTahun = `(?:nomor|no\.?)\s*(\d+[A-Za-z]?)\s+tahun\s+(\d{4})`

// patterns is ordered from most to least specific so that the long-form
// "Peraturan Pemerintah" idioms are not claimed by a shorter pattern first.
// All matching is case-insensitive.
var patterns = []citationPattern{
	{regexp.MustCompile(`(?i)\bundang-undang\s+` + numTahun), TypeUndangUndang},
	{regexp.MustCompile(`(?i)\buu\s+` + numTahun), TypeUndangUndang},
	{regexp.MustCompile(`(?i)\bperaturan\s+pemerintah\s+(?:pengganti\s+undang-undang\s+)?` + numTahun), TypePeraturanPemerintah},
	{regexp.MustCompile(`(?i)\bpp\s+` + numTahun), TypePeraturanPemerintah},
	{regexp.MustCompile(`(?i)\bkeputusan\s+presiden\s+` + numTahun), TypeKeputusanPresiden},
	{regexp.MustCompile(`(?i)\bkeppres\s+` + numTahun), TypeKeputusanPresiden},
	{regexp.MustCompile(`(?i)\bperaturan\s+menteri\s+[\p{L}\s]*?` + numTahun), TypePeraturanMenteri},
	{regexp.MustCompile(`(?i)\bpermen(?:\w*)?\s+` + numTahun), TypePeraturanMenteri},
	{regexp.MustCompile(`(?i)\bperaturan\s+daerah\s+[\p{L}\s]*?` + numTahun), TypePeraturanDaerah},
	{regexp.MustCompile(`(?i)\bperda\s+` + numTahun), TypePeraturanDaerah},
	{regexp.MustCompile(`(?i)\bperaturan\s+presiden\s+` + numTahun), TypeOther},
	{regexp.MustCompile(`(?i)\bperpres\s+` + numTahun), TypeOther},
}

// Extract scans text for formal legal references and returns them in the
// order found.  Identical citations appearing twice are reported twice;
// deduplication is the caller's concern.
func Extract(text string) []Citation {
	if text == "" {
		return nil
	}

	var found []Citation
	for _, p := range patterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			found = append(found, Citation{
				Type:        p.citeType,
				Number:      text[m[2]:m[3]],
				Year:        text[m[4]:m[5]],
				RawText:     text[m[0]:m[1]],
				StartOffset: m[0],
				EndOffset:   m[1],
			})
		}
	}

	sort.SliceStable(found, func(i, j int) bool {
		if found[i].StartOffset != found[j].StartOffset {
			return found[i].StartOffset < found[j].StartOffset
		}
		// longer match first when two patterns fire at the same offset
		return found[i].EndOffset > found[j].EndOffset
	})

	// Drop matches contained in an already-kept span: "UU" also fires
	// inside "Undang-Undang ... " abbreviated forms in some layouts.
	out := found[:0]
	lastEnd := -1
	for _, c := range found {
		if c.StartOffset < lastEnd {
			continue
		}
		out = append(out, c)
		lastEnd = c.EndOffset
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
