package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hukumtek/LexIntel/internal/domain/citation"
)

func newCitationsCmd(opts *rootOptions) *cobra.Command {
	var unique bool

	cmd := &cobra.Command{
		Use:   "citations FILE",
		Short: "Extract formal legal references from a document",
		Long: "Citations scans a text file for formal references to Indonesian\n" +
			"legal instruments (UU, PP, Perpres, Permen, Perda) and prints them\n" +
			"in the order found.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}

			citations := citation.Extract(string(data))
			if unique {
				citations = dedupeCitations(citations)
			}

			if opts.jsonOutput() {
				return printJSON(cmd, citations)
			}

			out := cmd.OutOrStdout()
			for _, c := range citations {
				fmt.Fprintf(out, "%-22s %s\n", c.Type, c.Ref())
			}
			fmt.Fprintf(out, "%d citation(s)\n", len(citations))
			return nil
		},
	}

	cmd.Flags().BoolVar(&unique, "unique", false, "report each citation once")
	return cmd
}

// dedupeCitations keeps the first occurrence of each type/number/year triple.
func dedupeCitations(citations []citation.Citation) []citation.Citation {
	seen := make(map[string]struct{}, len(citations))
	result := citations[:0]
	for _, c := range citations {
		key := string(c.Type) + "|" + c.Number + "|" + c.Year
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, c)
	}
	return result
}
