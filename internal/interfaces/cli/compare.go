package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hukumtek/LexIntel/internal/analysis/diffengine"
	"github.com/hukumtek/LexIntel/internal/analysis/segmenter"
	"github.com/hukumtek/LexIntel/internal/domain/clause"
	"github.com/hukumtek/LexIntel/pkg/types/common"
)

func newCompareCmd(opts *rootOptions) *cobra.Command {
	var (
		unchangedThreshold float64
		sameClauseFloor    float64
	)

	cmd := &cobra.Command{
		Use:   "compare OLD_FILE NEW_FILE",
		Short: "Diff two versions of a legal document",
		Long: "Compare segments both files and prints the clause-level changes\n" +
			"between them, classified by kind and significance.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.buildLogger()
			if err != nil {
				return err
			}

			seg := segmenter.New(segmenter.DefaultConfig(), logger)
			segment := func(path string) ([]*clause.Clause, error) {
				pages, err := readPages([]string{path})
				if err != nil {
					return nil, err
				}
				result, err := seg.Segment(uuid.New(), pages)
				if err != nil {
					return nil, fmt.Errorf("segmenting %s: %w", path, err)
				}
				return result.Clauses, nil
			}

			from, err := segment(args[0])
			if err != nil {
				return err
			}
			to, err := segment(args[1])
			if err != nil {
				return err
			}

			engineOpts := diffengine.DefaultOptions()
			if unchangedThreshold > 0 {
				engineOpts.UnchangedThreshold = unchangedThreshold
			}
			if sameClauseFloor > 0 {
				engineOpts.SameClauseFloor = sameClauseFloor
			}

			diff, err := diffengine.New(engineOpts, logger).Compare(from, to)
			if err != nil {
				return err
			}

			if opts.jsonOutput() {
				return printJSON(cmd, diff)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Changes: %d  (+%d -%d ~%d moved %d)  Confidence: %.2f\n",
				diff.Summary.Total, diff.Summary.Additions, diff.Summary.Deletions,
				diff.Summary.Modifications, diff.Summary.Moves, diff.ConfidenceScore)
			for _, change := range diff.Changes {
				fmt.Fprintf(out, "%-9s %-9s %s\n", change.Kind, change.Significance, changeRef(change))
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&unchangedThreshold, "unchanged-threshold", 0,
		"similarity at or above which a pair counts as unchanged (0 = default)")
	cmd.Flags().Float64Var(&sameClauseFloor, "same-clause-floor", 0,
		"similarity below which a pair splits into delete plus add (0 = default)")
	return cmd
}

// changeRef renders the clause reference of a change, showing both sides
// when a clause moved.
func changeRef(change *diffengine.ClauseChange) string {
	switch change.Kind {
	case common.ChangeAdded:
		return change.ToRef
	case common.ChangeDeleted:
		return change.FromRef
	default:
		if change.FromRef != change.ToRef {
			return change.FromRef + " -> " + change.ToRef
		}
		return change.ToRef
	}
}
