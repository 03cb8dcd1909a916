// Package segmenter turns raw extracted page text into the ordered, typed
// clause list of a document version.  It is synchronous and stateless; one
// Segmenter may serve concurrent calls.
package segmenter

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// PageText is the plain text of one page, already extracted from the source
// format by the upload pipeline.  Number is 1-based.
type PageText struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Config holds the segmenter tunables.
type Config struct {
	// MinDocumentLength is the minimum normalized rune count below which a
	// text is rejected as too short to be a legal document.
	MinDocumentLength int
	// ValidationFloor is the confidence score under which the validation
	// report flags the document invalid.  Advisory; callers decide.
	ValidationFloor float64
}

// DefaultConfig returns the calibrated defaults.
func DefaultConfig() Config {
	return Config{
		MinDocumentLength: 200,
		ValidationFloor:   50,
	}
}

// Result is the output of one segmentation run.
type Result struct {
	Clauses          []*clause.Clause  `json:"clauses"`
	TotalPages       int               `json:"total_pages"`
	TotalTextLength  int               `json:"total_text_length"`
	Method           string            `json:"method"`
	Validation       *ValidationReport `json:"validation"`
	ProcessingTimeMs int64             `json:"processing_time_ms"`
}

// Segmenter parses the structural grammar of Indonesian legal documents.
type Segmenter struct {
	cfg    Config
	logger logging.Logger
}

// New constructs a Segmenter.
func New(cfg Config, logger logging.Logger) *Segmenter {
	if cfg.MinDocumentLength <= 0 {
		cfg.MinDocumentLength = DefaultConfig().MinDocumentLength
	}
	if cfg.ValidationFloor <= 0 {
		cfg.ValidationFloor = DefaultConfig().ValidationFloor
	}
	return &Segmenter{cfg: cfg, logger: logger.Named("segmenter")}
}

// pageLine is one normalized line annotated with its source page.
type pageLine struct {
	text string
	page int
}

// building is a clause under construction.
type building struct {
	ref       string
	ctype     common.ClauseType
	ancestors []string
	parts     []string
	pageFrom  int
	pageTo    int
	seq       int
}

// Segment parses pages into the ordered clause list for versionID.
// Fails with ErrCodeInvalidInput when the normalized text is empty or
// shorter than the configured minimum.
func (s *Segmenter) Segment(versionID uuid.UUID, pages []PageText) (*Result, error) {
	start := time.Now()

	if versionID == uuid.Nil {
		return nil, errors.InvalidParam("segmenter requires a version id")
	}

	lines, totalLen := normalizePages(pages)
	if totalLen == 0 {
		return nil, errors.InvalidInput("document text is empty after normalization")
	}
	if totalLen < s.cfg.MinDocumentLength {
		return nil, errors.InvalidInput("document text too short to be a legal document").
			WithDetail(fmt.Sprintf("length=%d minimum=%d", totalLen, s.cfg.MinDocumentLength))
	}

	clauses := s.parse(versionID, lines)

	for _, c := range clauses {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	if err := clause.ValidateSequence(clauses); err != nil {
		return nil, err
	}

	var full strings.Builder
	for _, ln := range lines {
		full.WriteString(ln.text)
		full.WriteByte('\n')
	}
	report := Validate(full.String(), s.cfg.ValidationFloor)

	res := &Result{
		Clauses:          clauses,
		TotalPages:       len(pages),
		TotalTextLength:  totalLen,
		Method:           "structural-grammar",
		Validation:       report,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	s.logger.Info("segmented version",
		logging.String("version_id", versionID.String()),
		logging.Int("pages", res.TotalPages),
		logging.Int("clauses", len(clauses)),
		logging.Float64("confidence", report.Confidence),
	)
	return res, nil
}

// parse runs the line-anchored grammar over the annotated lines.  A marker
// opens a clause of its type and closes every open clause of the same or
// deeper type; shallower clauses stay open as ancestors, so "Ayat (1)" under
// "Pasal 5" carries the full path "Pasal 5 > Ayat (1)".  Line text feeds the
// deepest open clause; page extent propagates to every open ancestor.
func (s *Segmenter) parse(versionID uuid.UUID, lines []pageLine) []*clause.Clause {
	var (
		out   []*clause.Clause
		stack []*building
		seq   int
	)

	closeFrom := func(i int) {
		for j := len(stack) - 1; j >= i; j-- {
			out = append(out, finalize(versionID, stack[j]))
		}
		stack = stack[:i]
	}

	for _, ln := range lines {
		ctype, ref, rest, ok := matchMarker(ln.text)
		if !ok {
			if len(stack) > 0 {
				deepest := stack[len(stack)-1]
				deepest.parts = append(deepest.parts, strings.TrimSpace(ln.text))
				for _, b := range stack {
					if ln.page > b.pageTo {
						b.pageTo = ln.page
					}
				}
			}
			// text before the first marker (title block, preamble) belongs
			// to no clause
			continue
		}

		// close open clauses at the same or deeper level
		depth := ctype.Depth()
		keep := len(stack)
		for i, b := range stack {
			if b.ctype.Depth() >= depth {
				keep = i
				break
			}
		}
		closeFrom(keep)

		seq++
		b := &building{
			ref:      ref,
			ctype:    ctype,
			pageFrom: ln.page,
			pageTo:   ln.page,
			seq:      seq,
		}
		for _, anc := range stack {
			b.ancestors = append(b.ancestors, anc.ref)
		}
		if rest != "" {
			b.parts = append(b.parts, rest)
		}
		stack = append(stack, b)
		for _, anc := range stack[:len(stack)-1] {
			if ln.page > anc.pageTo {
				anc.pageTo = ln.page
			}
		}
	}
	closeFrom(0)

	// closing pops deepest-first; restore document order
	sortBySequence(out)
	return out
}

func finalize(versionID uuid.UUID, b *building) *clause.Clause {
	return &clause.Clause{
		ID:            uuid.New(),
		VersionID:     versionID,
		Ref:           b.ref,
		Type:          b.ctype,
		Text:          strings.TrimSpace(strings.Join(b.parts, " ")),
		PageFrom:      b.pageFrom,
		PageTo:        b.pageTo,
		SequenceOrder: b.seq,
		AncestorRefs:  b.ancestors,
		CreatedAt:     time.Now().UTC(),
	}
}

func sortBySequence(clauses []*clause.Clause) {
	sort.Slice(clauses, func(i, j int) bool {
		return clauses[i].SequenceOrder < clauses[j].SequenceOrder
	})
}

// normalizePages normalizes each page and splits it into annotated lines,
// returning the lines and the total normalized rune count.
func normalizePages(pages []PageText) ([]pageLine, int) {
	var (
		lines    []pageLine
		totalLen int
	)
	for _, p := range pages {
		normalized := Normalize(p.Text)
		if normalized == "" {
			continue
		}
		totalLen += len([]rune(normalized))
		for _, ln := range strings.Split(normalized, "\n") {
			if strings.TrimSpace(ln) == "" {
				continue
			}
			lines = append(lines, pageLine{text: ln, page: p.Number})
		}
	}
	return lines, totalLen
}
