// Package cli implements the lexintel command-line tools.  The analysis
// commands (segment, compare, citations) run entirely offline on local
// text files; migrate talks to the configured database.
package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hukumtek/LexIntel/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions holds the global flags shared by every subcommand.
type rootOptions struct {
	configPath   string
	logLevel     string
	outputFormat string
	verbose      bool
}

// NewRootCommand builds the lexintel root command with all subcommands.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lexintel",
		Short: "LexIntel CLI - Indonesian legal document analysis",
		Long: "LexIntel analyzes Indonesian legal documents: it segments them into\n" +
			"a clause hierarchy (bab, pasal, ayat), extracts formal citations,\n" +
			"and produces word-level diffs between document versions.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (default: ./lexintel.yaml)")
	pf.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVarP(&opts.outputFormat, "output", "o", "text", "output format (text, json)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	cmd.AddCommand(
		newSegmentCmd(opts),
		newCompareCmd(opts),
		newCitationsCmd(opts),
		newMigrateCmd(opts),
	)

	return cmd
}

// Execute runs the CLI and returns the command error, if any.
func Execute() error {
	return NewRootCommand().Execute()
}

// buildLogger creates a console logger for CLI usage.
func (o *rootOptions) buildLogger() (logging.Logger, error) {
	level := strings.ToLower(o.logLevel)
	if o.verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// jsonOutput reports whether --output json was requested.
func (o *rootOptions) jsonOutput() bool {
	return strings.EqualFold(o.outputFormat, "json")
}

// printJSON writes data as indented JSON to the command's stdout.
func printJSON(cmd *cobra.Command, data any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}
