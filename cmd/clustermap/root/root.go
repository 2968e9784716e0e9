// Package root wires the clustermap command line.
package root

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/flarebyte/clustermap/cmd/clustermap/version"
	"github.com/flarebyte/clustermap/internal/report"
)

const usageLine = "Usage: clustermap INFILE PNGFILE"

const exitCodeUsage = 1

type usageError struct{}

func (usageError) Error() string { return usageLine }
func (usageError) ExitCode() int { return exitCodeUsage }

// NewRootCmd creates the root command. Progress and diagnostics go to
// stderr, the image map to stdout.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "clustermap INFILE PNGFILE",
		Short: "Render a classification tree as a cluster map PNG and HTML image map",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return usageError{}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), args[0], args[1], opts, stdout, stderr)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVarP(&opts.configPath, "config", "c", "", "Path to render config file (.cue)")
	f.StringVar(&opts.reportPath, "report", "", "Write a cluster report to this path")
	f.StringVar(&opts.reportFormat, "report-format", string(report.FormatCSV), "Report format: csv, tsv, yaml or table")
	f.BoolVar(&opts.provenance, "provenance", false, "Annotate the image map with the input file's git revision")
	f.StringVar(&opts.logLevel, "log-level", "warn", "Log level: debug, info, warn or error")

	cmd.AddCommand(version.NewCmd())
	return cmd
}

// Execute runs the root command with provided args.
func Execute(args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	return cmd.ExecuteContext(context.Background())
}
