package propmerge

import (
	"fmt"

	"github.com/agentstation/propmerge/pkg/merge"
)

// JobResult is the outcome of one job in a run.
type JobResult struct {
	// Job is a copy of the job that was run.
	Job merge.Job `json:"job" yaml:"job"`

	// Result is set when the job succeeded.
	Result *merge.Result `json:"result,omitempty" yaml:"result,omitempty"`

	// Err is set when the job failed.
	Err error `json:"-" yaml:"-"`

	// Skipped reports that the job never started because an earlier job
	// failed.
	Skipped bool `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Status returns "ok", "failed" or "skipped".
func (r JobResult) Status() string {
	switch {
	case r.Skipped:
		return "skipped"
	case r.Err != nil:
		return "failed"
	default:
		return "ok"
	}
}

// Report collects the results of a run, in job order.
type Report struct {
	Results []JobResult `json:"results" yaml:"results"`
}

// Succeeded returns the number of jobs that completed.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Result != nil && res.Err == nil {
			n++
		}
	}
	return n
}

// Failed returns the number of jobs that returned an error.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil {
			n++
		}
	}
	return n
}

// Skipped returns the number of jobs that never ran.
func (r *Report) Skipped() int {
	n := 0
	for _, res := range r.Results {
		if res.Skipped {
			n++
		}
	}
	return n
}

// FilesMerged returns the number of source files merged by successful jobs.
func (r *Report) FilesMerged() int {
	n := 0
	for _, res := range r.Results {
		if res.Result != nil && res.Err == nil {
			n += res.Result.Files
		}
	}
	return n
}

// Summary returns a one-line description of the run.
func (r *Report) Summary() string {
	return fmt.Sprintf("%d jobs: %d ok, %d failed, %d skipped, %d files merged",
		len(r.Results), r.Succeeded(), r.Failed(), r.Skipped(), r.FilesMerged())
}
