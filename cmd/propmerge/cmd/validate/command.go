// Package validate provides the validate command implementation.
package validate

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/propmerge/internal/cmd/application"
	"github.com/agentstation/propmerge/internal/cmd/cmdutil"
	"github.com/agentstation/propmerge/pkg/manifest"
)

// NewCommand creates the validate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *cmdutil.ManifestFlags

	cmd := &cobra.Command{
		Use:     "validate",
		GroupID: "management",
		Short:   "Check a manifest without merging",
		Long: `Validate loads a manifest and checks it without writing any file:

• every job has a target and at least one source
• no two jobs write the same target
• encodings are known charsets
• every source exists and is not a directory`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := cmdutil.LoadManifest(flags.Manifest, app.ManifestPath(), ".")
			if err != nil {
				return err
			}
			return Check(cmd.OutOrStdout(), m)
		},
	}

	flags = cmdutil.AddManifestFlags(cmd)

	return cmd
}

// Check reports every unusable source of m to w. The returned error joins
// all problems found.
func Check(w io.Writer, m *manifest.Manifest) error {
	problems := m.CheckSources()
	for _, p := range problems {
		fmt.Fprintf(w, "✗ %v\n", p)
	}
	if len(problems) > 0 {
		return stderrors.Join(problems...)
	}

	sources := 0
	for _, job := range m.Jobs {
		sources += len(job.Sources)
	}
	fmt.Fprintf(w, "✓ %s: %d jobs, %d sources\n", m.Path, len(m.Jobs), sources)
	return nil
}
