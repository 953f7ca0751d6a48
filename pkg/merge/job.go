package merge

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/agentstation/propmerge/pkg/constants"
)

// Job describes one merge: the ordered sources are merged into Target.
// A Job is treated as immutable once handed to an Engine.
type Job struct {
	// Name is an optional label used in logs and reports.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Target is the file the merged lines are written to.
	Target string `json:"target" yaml:"target"`

	// Sources are merged in order; later files win on duplicate keys.
	Sources []string `json:"sources" yaml:"sources"`

	// Excludes lists keys whose lines are dropped from every source.
	Excludes []string `json:"excludes,omitempty" yaml:"excludes,omitempty"`

	// Encoding is the charset used to read and write files. Empty means UTF-8.
	Encoding string `json:"encoding,omitempty" yaml:"encoding,omitempty"`
}

// EncodingName returns the configured encoding or the default.
func (j Job) EncodingName() string {
	if j.Encoding != "" {
		return j.Encoding
	}
	return constants.DefaultEncoding
}

// Label returns the job name, falling back to the target path.
func (j Job) Label() string {
	if j.Name != "" {
		return j.Name
	}
	return j.Target
}

// Clone returns a deep copy of the job.
func (j Job) Clone() Job {
	j.Sources = slices.Clone(j.Sources)
	j.Excludes = slices.Clone(j.Excludes)
	return j
}

// String implements fmt.Stringer.
func (j Job) String() string {
	return fmt.Sprintf("Merge [files=%v, targetFile=%s]", j.Sources, j.Target)
}

// absPath returns the absolute form of path for reporting, or path itself
// when it cannot be resolved.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
