package output

import (
	"strconv"
	"strings"

	"github.com/agentstation/propmerge"
	"github.com/agentstation/propmerge/pkg/merge"
)

// JobsToTableData converts merge jobs to table rows. The wide layout lists
// every source and exclude instead of counting them.
func JobsToTableData(jobs []merge.Job, wide bool) Data {
	data := Data{
		Headers:         []string{"NAME", "TARGET", "SOURCES", "EXCLUDES", "ENCODING"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignLeft},
	}
	if wide {
		data.ColumnAlignment = []Align{AlignLeft, AlignLeft, AlignLeft, AlignLeft, AlignLeft}
	}

	for _, job := range jobs {
		sources := strconv.Itoa(len(job.Sources))
		excludes := strconv.Itoa(len(job.Excludes))
		if wide {
			sources = strings.Join(job.Sources, "\n")
			excludes = strings.Join(job.Excludes, ", ")
		}
		data.Rows = append(data.Rows, []string{
			job.Name,
			job.Target,
			sources,
			excludes,
			job.EncodingName(),
		})
	}
	return data
}

// ReportToTableData converts a run report to table rows.
func ReportToTableData(report *propmerge.Report) Data {
	data := Data{
		Headers:         []string{"JOB", "STATUS", "FILES", "LINES", "MERGED", "DISCARDED", "ERROR"},
		ColumnAlignment: []Align{AlignLeft, AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight, AlignLeft},
	}

	for _, res := range report.Results {
		row := []string{res.Job.Label(), res.Status(), "", "", "", "", ""}
		if res.Result != nil {
			row[2] = strconv.Itoa(res.Result.Files)
			row[3] = strconv.Itoa(res.Result.Lines)
			row[4] = strconv.Itoa(res.Result.Merged)
			row[5] = strconv.Itoa(res.Result.Discarded)
		}
		if res.Err != nil {
			row[6] = res.Err.Error()
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

// ReportEntry is the serializable form of one job outcome.
type ReportEntry struct {
	Job       string `json:"job" yaml:"job"`
	Target    string `json:"target" yaml:"target"`
	Status    string `json:"status" yaml:"status"`
	Files     int    `json:"files" yaml:"files"`
	Lines     int    `json:"lines" yaml:"lines"`
	Merged    int    `json:"merged" yaml:"merged"`
	Discarded int    `json:"discarded" yaml:"discarded"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ReportEntries flattens a report for json and yaml output.
func ReportEntries(report *propmerge.Report) []ReportEntry {
	entries := make([]ReportEntry, 0, len(report.Results))
	for _, res := range report.Results {
		e := ReportEntry{
			Job:    res.Job.Label(),
			Target: res.Job.Target,
			Status: res.Status(),
		}
		if res.Result != nil {
			e.Target = res.Result.Target
			e.Files = res.Result.Files
			e.Lines = res.Result.Lines
			e.Merged = res.Result.Merged
			e.Discarded = res.Result.Discarded
		}
		if res.Err != nil {
			e.Error = res.Err.Error()
		}
		entries = append(entries, e)
	}
	return entries
}
