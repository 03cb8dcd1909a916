package segmenter

import (
	"strings"

	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// ValidationReport is the advisory plausibility assessment of a document.
// Callers decide whether a sub-floor score rejects the upload.
type ValidationReport struct {
	// Confidence is 0-100; the probability-like score that the text is an
	// Indonesian legal document.
	Confidence float64  `json:"confidence"`
	Valid      bool     `json:"valid"`
	Issues     []string `json:"issues,omitempty"`
}

// structuralKeywords is the legal vocabulary whose presence raises the
// confidence score.  Each contributes a fixed amount when present at least
// once.
var structuralKeywords = []string{
	"pasal",
	"ayat",
	"bab",
	"undang-undang",
	"peraturan",
	"ketentuan",
	"huruf",
}

const (
	// per-keyword contribution, capped by keywordScoreCap
	keywordScore    = 6.0
	keywordScoreCap = 40.0

	// marker contributions: Pasal headings are the strongest structural
	// signal, BAB and Ayat each add a share
	pasalMarkerScore = 30.0
	babMarkerScore   = 10.0
	ayatMarkerScore  = 10.0

	// density bonus: markers per thousand runes, capped
	densityScoreCap = 10.0
)

// Validate scores the plausibility that text is an Indonesian legal document.
// The score combines structural-marker presence (up to 60) with legal
// vocabulary (up to 40).  A document with legal vocabulary but no structural
// markers cannot reach the floor, so it is reported invalid.
func Validate(text string, floor float64) *ValidationReport {
	report := &ValidationReport{}
	if strings.TrimSpace(text) == "" {
		report.Issues = append(report.Issues, "document text is empty")
		return report
	}

	lower := strings.ToLower(text)
	lines := strings.Split(text, "\n")

	var pasalCount, babCount, ayatCount int
	for _, ln := range lines {
		t, _, _, ok := matchMarker(ln)
		if !ok {
			continue
		}
		switch t {
		case common.ClausePasal:
			pasalCount++
		case common.ClauseBab:
			babCount++
		case common.ClauseAyat:
			ayatCount++
		}
	}

	var score float64
	if pasalCount > 0 {
		score += pasalMarkerScore
	}
	if babCount > 0 {
		score += babMarkerScore
	}
	if ayatCount > 0 {
		score += ayatMarkerScore
	}

	totalMarkers := pasalCount + babCount + ayatCount
	if totalMarkers > 0 {
		density := float64(totalMarkers) / float64(len([]rune(text))) * 1000
		if density > densityScoreCap {
			density = densityScoreCap
		}
		score += density
	}

	var vocab float64
	for _, kw := range structuralKeywords {
		if strings.Contains(lower, kw) {
			vocab += keywordScore
		}
	}
	if vocab > keywordScoreCap {
		vocab = keywordScoreCap
	}
	score += vocab

	if score > 100 {
		score = 100
	}
	report.Confidence = score

	if totalMarkers == 0 {
		report.Issues = append(report.Issues, "no structural markers (BAB/Pasal/Ayat) found")
	}
	if vocab == 0 {
		report.Issues = append(report.Issues, "no Indonesian legal vocabulary found")
	}
	if score < floor {
		report.Valid = false
		if len(report.Issues) == 0 {
			report.Issues = append(report.Issues, "confidence below acceptance floor")
		}
	} else {
		report.Valid = true
	}
	return report
}
