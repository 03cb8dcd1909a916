package cli

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hukumtek/LexIntel/internal/analysis/segmenter"
)

// readPages loads each file as one page, in argument order.
func readPages(paths []string) ([]segmenter.PageText, error) {
	pages := make([]segmenter.PageText, 0, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		pages = append(pages, segmenter.PageText{Number: i + 1, Text: string(data)})
	}
	return pages, nil
}

func newSegmentCmd(opts *rootOptions) *cobra.Command {
	var minLength int

	cmd := &cobra.Command{
		Use:   "segment FILE...",
		Short: "Segment a legal document into its clause hierarchy",
		Long: "Segment reads one or more text files (each file is one page, in\n" +
			"argument order) and prints the clause hierarchy recognized in them.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := opts.buildLogger()
			if err != nil {
				return err
			}

			pages, err := readPages(args)
			if err != nil {
				return err
			}

			cfg := segmenter.DefaultConfig()
			if minLength > 0 {
				cfg.MinDocumentLength = minLength
			}

			result, err := segmenter.New(cfg, logger).Segment(uuid.New(), pages)
			if err != nil {
				return err
			}

			if opts.jsonOutput() {
				return printJSON(cmd, result)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Pages: %d  Clauses: %d  Method: %s  Confidence: %.1f\n",
				result.TotalPages, len(result.Clauses), result.Method, result.Validation.Confidence)
			if !result.Validation.Valid {
				fmt.Fprintln(out, "Warning: text does not look like an Indonesian legal document")
				for _, issue := range result.Validation.Issues {
					fmt.Fprintf(out, "  - %s\n", issue)
				}
			}
			for _, cl := range result.Clauses {
				fmt.Fprintf(out, "%4d  %-10s  %s\n", cl.SequenceOrder, cl.Type, cl.Path())
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&minLength, "min-length", 0, "minimum document length in characters (0 = default)")
	return cmd
}
