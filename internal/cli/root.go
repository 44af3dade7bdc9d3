// Package cli implements the ecotrain command: offline model training plus
// one-shot classification and scoring against the same code the API uses.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

// SetVersionInfo sets version information from build flags.
func SetVersionInfo(v, c, b string) {
	version = v
	commit = c
	buildTime = b
}

type options struct {
	output string
}

// NewRootCmd builds the command tree. Each call returns independent flag
// state so tests can run commands side by side.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "ecotrain",
		Short: "Train and exercise the eco label classifier",
		Long: `ecotrain builds the naive Bayes model artifact served by the API
and runs the classifier and rule scorer from the command line.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", "text",
		"output format (text, json)")

	root.AddCommand(
		newVersionCmd(),
		newTrainCmd(opts),
		newClassifyCmd(opts),
		newScoreCmd(opts),
	)
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "ecotrain %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", buildTime)
		},
	}
}

// field is one row of text output.
type field struct {
	key   string
	value any
}

// render writes v as indented JSON, or rows as two aligned columns.
func render(w io.Writer, format string, v any, rows []field) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "text", "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, r := range rows {
			fmt.Fprintf(tw, "%s\t%v\n", r.key, r.value)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
