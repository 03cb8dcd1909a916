// Package diffengine aligns the clause lists of two versions of one document
// and produces a classified, ordered change list with word-level detail.
// It is stateless; one Engine may serve concurrent calls.
package diffengine

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// Options holds the engine thresholds.
type Options struct {
	// UnchangedThreshold is the similarity at or above which an anchored
	// pair is dropped from the output as unchanged.  Move detection reuses
	// it as the near-identical bar.
	UnchangedThreshold float64
	// SameClauseFloor is the similarity below which an anchored pair is no
	// longer treated as the same clause and splits into delete plus add.
	SameClauseFloor float64
}

// DefaultOptions returns the calibrated thresholds.
func DefaultOptions() Options {
	return Options{
		UnchangedThreshold: 0.95,
		SameClauseFloor:    0.30,
	}
}

// ClauseChange is one entry of a version diff.  FromClauseID/FromRef are
// zero for additions, ToClauseID/ToRef for deletions.  SimilarityScore is
// meaningful only for modified and moved entries.
type ClauseChange struct {
	Kind            common.ChangeKind        `json:"change_kind"`
	FromClauseID    uuid.UUID                `json:"from_clause_id,omitempty"`
	ToClauseID      uuid.UUID                `json:"to_clause_id,omitempty"`
	FromRef         string                   `json:"from_ref,omitempty"`
	ToRef           string                   `json:"to_ref,omitempty"`
	OldText         string                   `json:"old_text,omitempty"`
	NewText         string                   `json:"new_text,omitempty"`
	SimilarityScore float64                  `json:"similarity_score,omitempty"`
	Significance    common.SignificanceLevel `json:"significance_level"`
	SequenceOrder   int                      `json:"sequence_order"`
	WordChanges     []TokenSpan              `json:"word_changes,omitempty"`
}

// Summary aggregates a diff run.
type Summary struct {
	Total         int                              `json:"total"`
	Additions     int                              `json:"additions"`
	Deletions     int                              `json:"deletions"`
	Modifications int                              `json:"modifications"`
	Moves         int                              `json:"moves"`
	Significance  map[common.SignificanceLevel]int `json:"significance_distribution"`
}

// DiffResult is the output of one comparison run.
type DiffResult struct {
	Changes          []*ClauseChange `json:"changes"`
	Summary          Summary         `json:"summary"`
	ConfidenceScore  float64         `json:"confidence_score"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
}

// Engine aligns and diffs clause lists.
type Engine struct {
	opts   Options
	logger logging.Logger
}

// New constructs an Engine, falling back to defaults for unset thresholds.
func New(opts Options, logger logging.Logger) *Engine {
	def := DefaultOptions()
	if opts.UnchangedThreshold <= 0 || opts.UnchangedThreshold > 1 {
		opts.UnchangedThreshold = def.UnchangedThreshold
	}
	if opts.SameClauseFloor <= 0 || opts.SameClauseFloor >= opts.UnchangedThreshold {
		opts.SameClauseFloor = def.SameClauseFloor
	}
	return &Engine{opts: opts, logger: logger.Named("diffengine")}
}

// anchorPair is an aligned (from, to) clause sharing the same ancestor path.
type anchorPair struct {
	from *clause.Clause
	to   *clause.Clause
}

// Compare runs the three-pass alignment over two clause lists belonging to
// the same logical document.  Empty input on either side fails with
// ErrCodeInvalidInput; an empty list means the version cannot be compared,
// not that every clause changed.
func (e *Engine) Compare(from, to []*clause.Clause) (*DiffResult, error) {
	start := time.Now()

	if len(from) == 0 {
		return nil, errors.InvalidInput("source version has no clauses to compare")
	}
	if len(to) == 0 {
		return nil, errors.InvalidInput("target version has no clauses to compare")
	}

	pairs, orphanDel, orphanAdd := anchor(from, to)

	var (
		changes  []*ClauseChange
		anchored int
	)

	// similarity pass over anchored pairs
	for _, p := range pairs {
		sim := Similarity(p.from.Text, p.to.Text)
		switch {
		case sim >= e.opts.UnchangedThreshold:
			anchored++
		case sim >= e.opts.SameClauseFloor:
			anchored++
			spans := WordDiff(p.from.Text, p.to.Text)
			changes = append(changes, &ClauseChange{
				Kind:            common.ChangeModified,
				FromClauseID:    p.from.ID,
				ToClauseID:      p.to.ID,
				FromRef:         p.from.Path(),
				ToRef:           p.to.Path(),
				OldText:         p.from.Text,
				NewText:         p.to.Text,
				SimilarityScore: sim,
				Significance:    classifyPaired(sim, spans),
				SequenceOrder:   p.to.SequenceOrder,
				WordChanges:     spans,
			})
		default:
			// ref collision without continuity of meaning
			orphanDel = append(orphanDel, p.from)
			orphanAdd = append(orphanAdd, p.to)
		}
	}

	// move detection among orphans
	moved, orphanDel, orphanAdd := e.detectMoves(orphanDel, orphanAdd)
	changes = append(changes, moved...)

	for _, c := range orphanDel {
		changes = append(changes, &ClauseChange{
			Kind:          common.ChangeDeleted,
			FromClauseID:  c.ID,
			FromRef:       c.Path(),
			OldText:       c.Text,
			Significance:  classifyStandalone(c),
			SequenceOrder: c.SequenceOrder,
		})
	}
	for _, c := range orphanAdd {
		changes = append(changes, &ClauseChange{
			Kind:          common.ChangeAdded,
			ToClauseID:    c.ID,
			ToRef:         c.Path(),
			NewText:       c.Text,
			Significance:  classifyStandalone(c),
			SequenceOrder: c.SequenceOrder,
		})
	}

	sort.SliceStable(changes, func(i, j int) bool {
		return changes[i].SequenceOrder < changes[j].SequenceOrder
	})

	res := &DiffResult{
		Changes:          changes,
		Summary:          summarize(changes),
		ConfidenceScore:  2 * float64(anchored+len(moved)) / float64(len(from)+len(to)),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	e.logger.Info("compared clause lists",
		logging.Int("from_clauses", len(from)),
		logging.Int("to_clauses", len(to)),
		logging.Int("changes", len(changes)),
		logging.Float64("confidence", res.ConfidenceScore),
	)
	return res, nil
}

// anchor partitions both lists by full ancestor path.  Clauses sharing a path
// pair up in document order; leftovers on either side become orphans.  The
// full path disambiguates repeated refs such as "Ayat (1)" across articles.
func anchor(from, to []*clause.Clause) (pairs []anchorPair, orphanDel, orphanAdd []*clause.Clause) {
	fromByPath := make(map[string][]*clause.Clause, len(from))
	for _, c := range from {
		fromByPath[c.Path()] = append(fromByPath[c.Path()], c)
	}

	taken := make(map[string]int, len(fromByPath))
	for _, c := range to {
		path := c.Path()
		if taken[path] < len(fromByPath[path]) {
			pairs = append(pairs, anchorPair{from: fromByPath[path][taken[path]], to: c})
			taken[path]++
		} else {
			orphanAdd = append(orphanAdd, c)
		}
	}
	for _, c := range from {
		path := c.Path()
		// clauses beyond the paired count stay orphaned deletions
		if taken[path] > 0 {
			taken[path]--
			continue
		}
		orphanDel = append(orphanDel, c)
	}
	return pairs, orphanDel, orphanAdd
}

// detectMoves greedily pairs orphaned deletions with near-identical orphaned
// additions.  A matched pair becomes one moved change; the rest stay
// standalone.
func (e *Engine) detectMoves(dels, adds []*clause.Clause) (moved []*ClauseChange, restDel, restAdd []*clause.Clause) {
	usedAdd := make([]bool, len(adds))

	for _, d := range dels {
		best := -1
		bestSim := 0.0
		for i, a := range adds {
			if usedAdd[i] {
				continue
			}
			sim := Similarity(d.Text, a.Text)
			if sim >= e.opts.UnchangedThreshold && sim > bestSim {
				best, bestSim = i, sim
			}
		}
		if best < 0 {
			restDel = append(restDel, d)
			continue
		}
		usedAdd[best] = true
		a := adds[best]
		spans := WordDiff(d.Text, a.Text)
		moved = append(moved, &ClauseChange{
			Kind:            common.ChangeMoved,
			FromClauseID:    d.ID,
			ToClauseID:      a.ID,
			FromRef:         d.Path(),
			ToRef:           a.Path(),
			OldText:         d.Text,
			NewText:         a.Text,
			SimilarityScore: bestSim,
			Significance:    classifyPaired(bestSim, spans),
			SequenceOrder:   a.SequenceOrder,
		})
	}
	for i, a := range adds {
		if !usedAdd[i] {
			restAdd = append(restAdd, a)
		}
	}
	return moved, restDel, restAdd
}

func summarize(changes []*ClauseChange) Summary {
	s := Summary{
		Total:        len(changes),
		Significance: make(map[common.SignificanceLevel]int),
	}
	for _, c := range changes {
		switch c.Kind {
		case common.ChangeAdded:
			s.Additions++
		case common.ChangeDeleted:
			s.Deletions++
		case common.ChangeModified:
			s.Modifications++
		case common.ChangeMoved:
			s.Moves++
		}
		s.Significance[c.Significance]++
	}
	return s
}
