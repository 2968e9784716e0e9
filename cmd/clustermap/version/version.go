// Package version implements `clustermap version`.
package version

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/flarebyte/clustermap/internal/buildinfo"
)

// NewCmd returns the version subcommand.
func NewCmd() *cobra.Command {
	var short, asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if short {
				_, err := fmt.Fprintln(out, buildinfo.ResolvedVersion())
				return err
			}
			if !asJSON {
				_, err := fmt.Fprintf(out, "clustermap %s\n", buildinfo.Summary())
				return err
			}
			return encodeJSON(out, map[string]any{
				"version":  buildinfo.ResolvedVersion(),
				"commit":   buildinfo.Commit,
				"date":     buildinfo.Date,
				"built_by": buildinfo.BuiltBy,
				"go":       runtime.Version(),
				"go_os":    runtime.GOOS,
				"go_arch":  runtime.GOARCH,
			})
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version string")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print detailed JSON version info")
	return cmd
}
