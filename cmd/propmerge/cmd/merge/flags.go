package merge

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/propmerge/internal/cmd/cmdutil"
)

// Flags holds the merge command flags.
type Flags struct {
	*cmdutil.ManifestFlags

	Target   string
	Sources  []string
	Excludes []string
	Encoding string

	Parallel  int
	KeepGoing bool
	DryRun    bool

	keepGoingSet bool
}

func addFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{ManifestFlags: cmdutil.AddManifestFlags(cmd)}

	cmd.Flags().StringVarP(&flags.Target, "target", "t", "",
		"target file of an ad-hoc job")
	cmd.Flags().StringArrayVarP(&flags.Sources, "source", "s", nil,
		"source file of an ad-hoc job (repeatable, merged in order)")
	cmd.Flags().StringSliceVarP(&flags.Excludes, "exclude", "x", nil,
		"key to drop from an ad-hoc job (repeatable or comma separated)")
	cmd.Flags().StringVarP(&flags.Encoding, "encoding", "e", "",
		"charset of an ad-hoc job (default UTF-8)")

	cmd.Flags().IntVarP(&flags.Parallel, "parallel", "p", 0,
		"number of jobs to run at once (default $PARALLEL or 1)")
	cmd.Flags().BoolVarP(&flags.KeepGoing, "keep-going", "k", false,
		"keep running the remaining jobs after a failure")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"print merged output to stdout instead of writing target files")

	cmd.MarkFlagsMutuallyExclusive("manifest", "target")
	cmd.MarkFlagsMutuallyExclusive("manifest", "source")

	return flags
}

// adHoc reports whether the flags describe a job instead of naming a manifest.
func (f *Flags) adHoc() bool {
	return f.Target != "" || len(f.Sources) > 0
}
