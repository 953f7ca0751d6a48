// Package jobs provides the jobs command implementation.
package jobs

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/propmerge/internal/cmd/application"
	"github.com/agentstation/propmerge/internal/cmd/cmdutil"
	"github.com/agentstation/propmerge/internal/cmd/output"
	"github.com/agentstation/propmerge/pkg/manifest"
)

// NewCommand creates the jobs command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.ManifestFlags

	cmd := &cobra.Command{
		Use:     "jobs",
		GroupID: "core",
		Short:   "List the merge jobs of a manifest",
		Args:    cobra.NoArgs,
		Example: `  propmerge jobs                     # Jobs of ./propmerge.yaml as a table
  propmerge jobs -o wide             # Show every source and exclude
  propmerge jobs -m ci.hcl -o json   # Jobs of another manifest as JSON`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := cmdutil.LoadManifest(flags.Manifest, app.ManifestPath(), ".")
			if err != nil {
				return err
			}
			app.Logger().Debug().
				Str("manifest", m.Path).
				Str("format", string(m.Format)).
				Int("jobs", len(m.Jobs)).
				Msg("Loaded manifest")
			return Print(cmd.OutOrStdout(), m, output.DetectFormat(app.OutputFormat()))
		},
	}

	flags = cmdutil.AddManifestFlags(cmd)

	return cmd
}

// Print writes the manifest's jobs in format.
func Print(w io.Writer, m *manifest.Manifest, format output.Format) error {
	var data any = m.Jobs
	if output.IsTable(format) {
		data = output.JobsToTableData(m.Jobs, format == output.FormatWide)
	}
	return output.NewFormatter(format).Format(w, data)
}
