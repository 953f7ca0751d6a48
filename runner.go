// Package propmerge runs properties merge jobs.
//
// A Runner executes a list of merge.Job values, one engine per job, and
// collects the outcome of each. By default jobs run one after another and
// the first failure stops the run. Independent jobs can be run in parallel
// and failures can be collected instead of stopping the run:
//
//	m, err := manifest.Load("propmerge.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	runner, err := propmerge.New(
//	    propmerge.WithParallelism(4),
//	    propmerge.WithKeepGoing(true),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	report, err := runner.Run(ctx, m.Jobs)
//	fmt.Printf("%d files merged, %d jobs failed\n", report.FilesMerged(), report.Failed())
package propmerge

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/propmerge/pkg/errors"
	"github.com/agentstation/propmerge/pkg/logging"
	"github.com/agentstation/propmerge/pkg/merge"
)

// Runner runs merge jobs.
type Runner struct {
	options *options

	// mu serializes dry-run output across parallel jobs.
	mu sync.Mutex
}

// New creates a Runner with the given options.
func New(opts ...Option) (*Runner, error) {
	o, err := defaults().apply(opts...)
	if err != nil {
		return nil, err
	}
	return &Runner{options: o}, nil
}

// Parallelism returns the number of jobs that may run at once.
func (r *Runner) Parallelism() int {
	return r.options.parallelism
}

// Run executes jobs and returns a report holding one result per job, in job
// order. The returned error is the first job failure, or every failure
// joined together when keep-going is enabled.
//
// Jobs may share a target when they run one after another; the later job
// overwrites the file. With parallelism above one a shared target is a
// ValidationError and no job runs.
func (r *Runner) Run(ctx context.Context, jobs []merge.Job) (*Report, error) {
	if r.options.logger != nil {
		ctx = logging.WithLogger(ctx, r.options.logger)
	}

	report := &Report{Results: make([]JobResult, len(jobs))}
	for i, job := range jobs {
		report.Results[i] = JobResult{Job: job.Clone(), Skipped: true}
	}

	parallel := r.options.parallelism > 1 && len(jobs) > 1
	if err := r.checkTargets(ctx, jobs, parallel); err != nil {
		return report, err
	}

	var err error
	if parallel {
		err = r.runParallel(ctx, report)
	} else {
		err = r.runSequential(ctx, report)
	}

	logging.FromContext(ctx).Debug().
		Int("jobs", len(jobs)).
		Int("failed", report.Failed()).
		Int("skipped", report.Skipped()).
		Int("files", report.FilesMerged()).
		Msg("Merge run complete")

	return report, err
}

// checkTargets warns about jobs sharing a target, or rejects them when they
// may run at the same time.
func (r *Runner) checkTargets(ctx context.Context, jobs []merge.Job, parallel bool) error {
	shared := sharedTargets(jobs)
	for _, target := range slices.Sorted(maps.Keys(shared)) {
		labels := shared[target]
		if parallel {
			return errors.NewValidationError("target", target,
				fmt.Sprintf("%s is written by jobs %s; parallel runs need distinct targets", target, strings.Join(labels, ", ")))
		}
		logging.FromContext(logging.WithTarget(ctx, target)).Warn().
			Strs("jobs", labels).
			Msg("Target written by more than one job, the last one wins")
	}
	return nil
}

// sharedTargets maps every target written by more than one job to the labels
// of those jobs.
func sharedTargets(jobs []merge.Job) map[string][]string {
	byTarget := make(map[string][]string, len(jobs))
	for _, job := range jobs {
		target := filepath.Clean(job.Target)
		if abs, err := filepath.Abs(target); err == nil {
			target = abs
		}
		byTarget[target] = append(byTarget[target], job.Label())
	}
	maps.DeleteFunc(byTarget, func(_ string, labels []string) bool {
		return len(labels) < 2
	})
	return byTarget
}

func (r *Runner) runSequential(ctx context.Context, report *Report) error {
	var errs []error
	for i := range report.Results {
		res := &report.Results[i]
		r.runJob(ctx, res, len(report.Results) > 1)
		if res.Err == nil {
			continue
		}
		if !r.options.keepGoing {
			return res.Err
		}
		errs = append(errs, res.Err)
	}
	return stderrors.Join(errs...)
}

func (r *Runner) runParallel(ctx context.Context, report *Report) error {
	if r.options.keepGoing {
		var eg errgroup.Group
		eg.SetLimit(r.options.parallelism)
		for i := range report.Results {
			res := &report.Results[i]
			eg.Go(func() error {
				r.runJob(ctx, res, true)
				return nil
			})
		}
		_ = eg.Wait()

		var errs []error
		for _, res := range report.Results {
			if res.Err != nil {
				errs = append(errs, res.Err)
			}
		}
		return stderrors.Join(errs...)
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(r.options.parallelism)
	for i := range report.Results {
		res := &report.Results[i]
		eg.Go(func() error {
			// a job that has not started when another fails is skipped
			if gctx.Err() != nil {
				return nil
			}
			r.runJob(gctx, res, true)
			return res.Err
		})
	}
	return eg.Wait()
}

// runJob merges one job into res.
func (r *Runner) runJob(ctx context.Context, res *JobResult, header bool) {
	job := res.Job
	res.Skipped = false

	ctx = logging.WithJob(ctx, job.Label())
	logger := logging.FromContext(ctx)

	opts := []merge.Option{merge.WithSink(logging.NewSink(logger))}
	var buf *bytes.Buffer
	if r.options.dryRun != nil {
		buf = &bytes.Buffer{}
		opts = append(opts, merge.WithDryRun(buf))
	}

	logger.Debug().Strs("sources", job.Sources).Msg("Starting merge")
	result, err := merge.New(opts...).Merge(ctx, job)
	if err != nil {
		res.Err = errors.WrapJob(job.Label(), err)
		logger.Error().Err(err).Msg("Merge failed")
		return
	}
	res.Result = result

	if buf != nil {
		if err := r.flushDryRun(result.Target, buf, header); err != nil {
			res.Err = errors.WrapJob(job.Label(), errors.NewWriteError(result.Target, err))
			logger.Error().Err(err).Msg("Dry run output failed")
			return
		}
	}

	logging.FromContext(logging.WithTarget(ctx, result.Target)).Info().
		Int("merged", result.Merged).
		Int("discarded", result.Discarded).
		Msgf("Finished Appending: %d files to the target file: %s.", result.Files, result.Target)
}

// flushDryRun copies one job's rendered output to the dry-run writer. With
// more than one job each block starts with a comment naming its target.
func (r *Runner) flushDryRun(target string, buf *bytes.Buffer, header bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if header {
		if _, err := io.WriteString(r.options.dryRun, "# "+target+"\n"); err != nil {
			return err
		}
	}
	_, err := buf.WriteTo(r.options.dryRun)
	return err
}
