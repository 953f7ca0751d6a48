// Package merge provides the merge command implementation.
package merge

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/propmerge/internal/cmd/application"
)

// NewCommand creates the merge command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "merge",
		GroupID: "core",
		Short:   "Merge properties files",
		Args:    cobra.NoArgs,
		Long: `Merge combines properties files into one target file per job.

Jobs come from a manifest (--manifest, $PROPMERGE_MANIFEST or a
propmerge.{yaml,yml,toml,hcl,json} in the current directory), or a single
job can be given with --target and --source.

For every job:
• sources are read in order
• a key keeps the position of its first occurrence and the value of its last
• comments, blank lines and lines without '=' are copied as they are
• lines whose key is excluded are dropped`,
		Example: `  propmerge merge                                        # Run every job in ./propmerge.yaml
  propmerge merge -m build/propmerge.toml --parallel 4   # Run manifest jobs 4 at a time
  propmerge merge -t out.properties -s a.properties -s b.properties -x debug.enabled
  propmerge merge --dry-run                              # Print merged output instead of writing`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.keepGoingSet = cmd.Flags().Changed("keep-going")
			_, err := Execute(cmd.Context(), app, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
			return err
		},
	}

	flags = addFlags(cmd)

	return cmd
}
