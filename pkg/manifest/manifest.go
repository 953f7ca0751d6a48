// Package manifest loads the list of merge jobs a build runs.
//
// A manifest can be written in YAML (or JSON), TOML or HCL:
//
//	# propmerge.yaml
//	merges:
//	  - name: app
//	    target: build/app.properties
//	    sources: [src/base.properties, src/prod.properties]
//	    excludes: [debug.enabled]
//	    encoding: ISO-8859-1
//
//	# propmerge.toml
//	[[merges]]
//	name = "app"
//	target = "build/app.properties"
//	sources = ["src/base.properties", "src/prod.properties"]
//
//	# propmerge.hcl
//	merge "app" {
//	  target  = "build/app.properties"
//	  sources = ["src/base.properties", "src/prod.properties"]
//	}
//
// Relative paths are resolved against the directory holding the manifest.
package manifest

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/propmerge/pkg/constants"
	"github.com/agentstation/propmerge/pkg/errors"
	"github.com/agentstation/propmerge/pkg/merge"
)

// Format identifies a manifest syntax.
type Format string

const (
	// FormatYAML is YAML; JSON manifests are parsed with the YAML decoder.
	FormatYAML Format = "yaml"
	// FormatJSON is JSON.
	FormatJSON Format = "json"
	// FormatTOML is TOML.
	FormatTOML Format = "toml"
	// FormatHCL is HCL.
	FormatHCL Format = "hcl"
)

// FormatFromPath picks the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".hcl":
		return FormatHCL, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Entry is one merge job as written in a manifest.
type Entry struct {
	Name     string   `yaml:"name,omitempty" toml:"name,omitempty" hcl:"name,label"`
	Target   string   `yaml:"target" toml:"target" hcl:"target,optional"`
	Sources  []string `yaml:"sources" toml:"sources" hcl:"sources,optional"`
	Excludes []string `yaml:"excludes,omitempty" toml:"excludes,omitempty" hcl:"excludes,optional"`
	Encoding string   `yaml:"encoding,omitempty" toml:"encoding,omitempty" hcl:"encoding,optional"`
}

// Manifest is a loaded list of merge jobs.
type Manifest struct {
	// Path is the absolute manifest path, empty for in-memory manifests.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Format is the syntax the manifest was parsed from.
	Format Format `json:"format" yaml:"format"`

	// Jobs are the merge jobs in declaration order.
	Jobs []merge.Job `json:"jobs" yaml:"jobs"`
}

// Load reads and parses the manifest at path.
func Load(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.NewConfigError("manifest", "cannot resolve "+path, err)
	}

	format, err := FormatFromPath(abs)
	if err != nil {
		return nil, errors.NewConfigError("manifest", err.Error(), err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.NewConfigError("manifest", "cannot read "+abs, err)
	}

	m, err := parse(data, format, abs)
	if err != nil {
		return nil, err
	}
	m.Path = abs
	m.resolve(filepath.Dir(abs))
	return m, nil
}

// Parse decodes manifest data. Relative paths are resolved against baseDir
// when it is non-empty.
func Parse(data []byte, format Format, baseDir string) (*Manifest, error) {
	m, err := parse(data, format, "")
	if err != nil {
		return nil, err
	}
	if baseDir != "" {
		m.resolve(baseDir)
	}
	return m, nil
}

func parse(data []byte, format Format, file string) (*Manifest, error) {
	var (
		entries []Entry
		err     error
	)
	switch format {
	case FormatYAML, FormatJSON:
		entries, err = decodeYAML(data, file)
	case FormatTOML:
		entries, err = decodeTOML(data, file)
	case FormatHCL:
		entries, err = decodeHCL(data, file)
	default:
		return nil, errors.NewConfigError("manifest", fmt.Sprintf("format %q", format), errors.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, err
	}

	m := &Manifest{Format: format, Jobs: make([]merge.Job, 0, len(entries))}
	for _, e := range entries {
		m.Jobs = append(m.Jobs, e.job())
	}
	return m, nil
}

func (e Entry) job() merge.Job {
	return merge.Job{
		Name:     e.Name,
		Target:   e.Target,
		Sources:  e.Sources,
		Excludes: e.Excludes,
		Encoding: e.Encoding,
	}
}

// resolve makes every relative target and source absolute against dir.
func (m *Manifest) resolve(dir string) {
	for i := range m.Jobs {
		job := &m.Jobs[i]
		job.Target = resolvePath(dir, job.Target)
		for j, src := range job.Sources {
			job.Sources[j] = resolvePath(dir, src)
		}
	}
}

func resolvePath(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// Find returns the first manifest named propmerge.<ext> in dir.
func Find(dir string) (string, error) {
	for _, ext := range constants.ManifestExtensions {
		path := filepath.Join(dir, constants.ManifestBaseName+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", errors.NewConfigError("manifest",
		fmt.Sprintf("no %s.{yaml,yml,toml,hcl,json} in %s", constants.ManifestBaseName, dir),
		errors.ErrNotFound)
}

// Validate checks that every job has a target, at least one source and a
// known encoding. Jobs may share a target; the later job overwrites it.
func (m *Manifest) Validate() error {
	if len(m.Jobs) == 0 {
		return errors.NewValidationError("merges", nil, "manifest declares no merge jobs")
	}

	for i, job := range m.Jobs {
		field := fmt.Sprintf("merges[%d]", i)
		if strings.TrimSpace(job.Target) == "" {
			return errors.NewValidationError(field+".target", job.Target, "target is required")
		}
		if len(job.Sources) == 0 {
			return errors.NewValidationError(field+".sources", job.Sources, "at least one source is required")
		}
		for j, src := range job.Sources {
			if strings.TrimSpace(src) == "" {
				return errors.NewValidationError(fmt.Sprintf("%s.sources[%d]", field, j), src, "source path is empty")
			}
		}
		if job.Encoding != "" {
			if _, err := merge.ResolveCharset(job.Encoding); err != nil {
				return errors.WrapValidation(field+".encoding", err)
			}
		}
	}
	return nil
}

// CheckSources reports every source that is missing or is a directory,
// using the same errors the merge engine would return.
func (m *Manifest) CheckSources() []error {
	var problems []error
	for _, job := range m.Jobs {
		for _, src := range job.Sources {
			info, err := os.Stat(src)
			switch {
			case stderrors.Is(err, fs.ErrNotExist):
				problems = append(problems, errors.WrapJob(job.Label(), errors.NewSourceNotFoundError(src, err)))
			case err != nil:
				problems = append(problems, errors.WrapJob(job.Label(), errors.WrapRead(src, err)))
			case info.IsDir():
				problems = append(problems, errors.WrapJob(job.Label(), errors.NewSourceIsDirectoryError(src)))
			}
		}
	}
	return problems
}
