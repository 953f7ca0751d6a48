package merge

import (
	"context"
	"fmt"
	"io"

	"github.com/agentstation/propmerge"
	"github.com/agentstation/propmerge/internal/cmd/application"
	"github.com/agentstation/propmerge/internal/cmd/cmdutil"
	"github.com/agentstation/propmerge/internal/cmd/output"
	"github.com/agentstation/propmerge/pkg/logging"
	"github.com/agentstation/propmerge/pkg/manifest"
	pmerge "github.com/agentstation/propmerge/pkg/merge"
)

// Execute runs the jobs selected by flags. The run summary goes to stderr.
// With an explicit --format the report is also written to stdout, unless
// stdout carries dry-run output.
func Execute(ctx context.Context, app application.Application, flags *Flags, stdout, stderr io.Writer) (*propmerge.Report, error) {
	jobs, source, err := resolveJobs(app, flags)
	if err != nil {
		return nil, err
	}

	ctx = logging.WithLogger(ctx, app.Logger())
	if source != "" {
		ctx = logging.WithManifest(ctx, source)
	}
	logger := logging.FromContext(ctx)

	opts := []propmerge.Option{propmerge.WithLogger(logger)}
	if flags.Parallel > 0 {
		opts = append(opts, propmerge.WithParallelism(flags.Parallel))
	}
	if flags.keepGoingSet {
		opts = append(opts, propmerge.WithKeepGoing(flags.KeepGoing))
	}
	if flags.DryRun {
		opts = append(opts, propmerge.WithDryRun(stdout))
	}

	runner, err := app.Runner(opts...)
	if err != nil {
		return nil, err
	}

	logger.Debug().
		Int("jobs", len(jobs)).
		Int("parallel", runner.Parallelism()).
		Bool("dry_run", flags.DryRun).
		Msg("Running merge jobs")

	report, runErr := runner.Run(ctx, jobs)

	fmt.Fprintln(stderr, report.Summary())

	if !flags.DryRun {
		if err := printReport(stdout, report, output.Format(app.OutputFormat())); err != nil {
			return report, err
		}
	}

	return report, runErr
}

// printReport writes report to w: one table row per job for table and wide,
// report entries for json and yaml. No format prints nothing.
func printReport(w io.Writer, report *propmerge.Report, format output.Format) error {
	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(w, output.ReportEntries(report))
	case output.FormatTable, output.FormatWide:
		return output.NewFormatter(format).Format(w, output.ReportToTableData(report))
	}
	return nil
}

// resolveJobs returns the jobs to run and the manifest they came from, if any.
func resolveJobs(app application.Application, flags *Flags) ([]pmerge.Job, string, error) {
	if flags.adHoc() {
		job := pmerge.Job{
			Target:   flags.Target,
			Sources:  flags.Sources,
			Excludes: flags.Excludes,
			Encoding: flags.Encoding,
		}
		m := &manifest.Manifest{Jobs: []pmerge.Job{job}}
		if err := m.Validate(); err != nil {
			return nil, "", err
		}
		return m.Jobs, "", nil
	}

	m, err := cmdutil.LoadManifest(flags.Manifest, app.ManifestPath(), ".")
	if err != nil {
		return nil, "", err
	}
	return m.Jobs, m.Path, nil
}
