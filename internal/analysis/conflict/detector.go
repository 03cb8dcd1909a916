package conflict

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
	"github.com/hukumtek/LexIntel/pkg/errors"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

// Options holds the detector tunables.
type Options struct {
	// Threshold discards corpus hits with a lower similarity score.
	Threshold float64
	// TopK is the neighbor count requested per clause.
	TopK int
}

// DefaultOptions returns the calibrated defaults.
func DefaultOptions() Options {
	return Options{
		Threshold: 0.75,
		TopK:      10,
	}
}

const excerptRunes = 240

// Detector scans a version's clause embeddings against a corpus index.
// Stateless; one Detector may serve concurrent calls.
type Detector struct {
	logger logging.Logger
}

// New constructs a Detector.
func New(logger logging.Logger) *Detector {
	return &Detector{logger: logger.Named("conflict")}
}

// Detect queries the corpus for every clause embedding and flags conflicts.
// Hits below the threshold and hits from documentID itself are discarded;
// at most one flag survives per (source clause, conflicting law).  An empty
// corpus yields zero conflicts.  A corpus query failure fails the whole run
// with ErrCodeDependencyUnavailable; there is no partial success.
func (d *Detector) Detect(ctx context.Context, documentID uuid.UUID, clauses []ClauseEmbedding, corpus CorpusIndex, opts Options) (*Result, error) {
	start := time.Now()

	if corpus == nil {
		return nil, errors.InvalidParam("conflict detection requires a corpus index")
	}
	if len(clauses) == 0 {
		return nil, errors.InvalidInput("no clause embeddings to scan")
	}
	if opts.Threshold <= 0 || opts.Threshold > 1 {
		opts.Threshold = DefaultOptions().Threshold
	}
	if opts.TopK <= 0 {
		opts.TopK = DefaultOptions().TopK
	}

	var flags []*Flag
	for _, ce := range clauses {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeTimeout, "conflict scan cancelled")
		}
		if ce.Clause == nil || len(ce.Vector) == 0 {
			return nil, errors.IntegrityViolation("clause embedding pair is incomplete")
		}

		neighbors, err := corpus.Query(ctx, ce.Vector, documentID, opts.TopK)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeDependencyUnavailable,
				fmt.Sprintf("corpus query failed for clause %s", ce.Clause.Ref))
		}

		best := make(map[string]Neighbor)
		for _, n := range neighbors {
			if n.Score < opts.Threshold || n.DocumentID == documentID {
				continue
			}
			key := lawKey(n)
			if cur, ok := best[key]; !ok || n.Score > cur.Score {
				best[key] = n
			}
		}

		keys := make([]string, 0, len(best))
		for k := range best {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			n := best[k]
			ctype, _ := classify(ce.Clause.Text, n.Text)
			flags = append(flags, &Flag{
				SourceClauseID:     ce.Clause.ID,
				SourceRef:          ce.Clause.Path(),
				LawTitle:           n.LawTitle,
				LawRef:             n.LawRef,
				OverlapScore:       n.Score,
				Type:               ctype,
				SourceExcerpt:      excerpt(ce.Clause.Text),
				ConflictingExcerpt: excerpt(n.Text),
				ConfidenceScore:    confidence(n.Score, ce.Clause.Text, n.Text),
				Severity:           common.SeverityFromScore(n.Score),
			})
		}
	}

	sort.SliceStable(flags, func(i, j int) bool {
		return flags[i].OverlapScore > flags[j].OverlapScore
	})

	res := &Result{
		Conflicts:        flags,
		ClausesScanned:   len(clauses),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	d.logger.Info("scanned version against corpus",
		logging.String("document_id", documentID.String()),
		logging.Int("clauses", len(clauses)),
		logging.Int("conflicts", len(flags)),
	)
	return res, nil
}

// lawKey identifies the conflicting law for dedup, preferring the formal
// citation over the title.
func lawKey(n Neighbor) string {
	if n.LawRef != "" {
		return n.LawRef
	}
	if n.LawTitle != "" {
		return n.LawTitle
	}
	return n.DocumentID.String()
}

func excerpt(text string) string {
	runes := []rune(text)
	if len(runes) <= excerptRunes {
		return text
	}
	return string(runes[:excerptRunes]) + "…"
}
