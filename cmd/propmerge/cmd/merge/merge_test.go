package merge

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/propmerge/internal/cmd/application"
	"github.com/agentstation/propmerge/internal/cmd/output"
	"github.com/agentstation/propmerge/pkg/errors"
	"github.com/agentstation/propmerge/pkg/logging"
)

func write(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, app application.Application, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestMergeCommand_AdHoc(t *testing.T) {
	dir := t.TempDir()
	a := write(t, filepath.Join(dir, "a.properties"), "#hdr\nx=1\ny=2\n")
	b := write(t, filepath.Join(dir, "b.properties"), "y=3\nz=4\n")
	target := filepath.Join(dir, "out.properties")

	tl := logging.NewTestLogger(t)
	app := &application.Mock{LoggerFunc: func() *zerolog.Logger { return tl.Logger }}

	_, stderr, err := run(t, app, "-t", target, "-s", a, "-s", b)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "#hdr\nx=1\ny=3\nz=4\n", string(data))
	assert.Contains(t, stderr, "1 jobs: 1 ok, 0 failed, 0 skipped, 2 files merged")
	tl.AssertContains(t, "Finished Appending: 2 files to the target file: "+target+".")
	tl.AssertContains(t, "Line merged: y=3")
}

func TestMergeCommand_Excludes(t *testing.T) {
	dir := t.TempDir()
	a := write(t, filepath.Join(dir, "a.properties"), "x=1\nsecret=2\ndebug=3\n")
	target := filepath.Join(dir, "out.properties")

	_, _, err := run(t, &application.Mock{}, "-t", target, "-s", a, "-x", "secret,debug")
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "x=1\n", string(data))
}

func TestMergeCommand_Manifest(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "base.properties"), "k=0\n")
	write(t, filepath.Join(dir, "prod.properties"), "k=1\n")
	path := write(t, filepath.Join(dir, "propmerge.toml"), `
[[merges]]
name = "one"
target = "one.properties"
sources = ["base.properties", "prod.properties"]

[[merges]]
name = "two"
target = "two.properties"
sources = ["prod.properties", "base.properties"]
`)

	app := &application.Mock{ManifestPathFunc: func() string { return path }}
	_, _, err := run(t, app, "--parallel", "2")
	require.NoError(t, err)

	one, err := os.ReadFile(filepath.Join(dir, "one.properties"))
	require.NoError(t, err)
	assert.Equal(t, "k=1\n", string(one))

	two, err := os.ReadFile(filepath.Join(dir, "two.properties"))
	require.NoError(t, err)
	assert.Equal(t, "k=0\n", string(two))
}

func TestMergeCommand_DryRun(t *testing.T) {
	dir := t.TempDir()
	a := write(t, filepath.Join(dir, "a.properties"), "x=1\n")
	b := write(t, filepath.Join(dir, "b.properties"), "x=2\n")
	target := filepath.Join(dir, "out.properties")

	stdout, _, err := run(t, &application.Mock{}, "-t", target, "-s", a, "-s", b, "--dry-run")
	require.NoError(t, err)
	assert.Equal(t, "x=2\n", stdout)
	assert.NoFileExists(t, target)
}

func TestMergeCommand_JSONReport(t *testing.T) {
	dir := t.TempDir()
	a := write(t, filepath.Join(dir, "a.properties"), "x=1\n")
	target := filepath.Join(dir, "out.properties")

	app := &application.Mock{OutputFormatFunc: func() string { return "json" }}
	stdout, _, err := run(t, app, "-t", target, "-s", a)
	require.NoError(t, err)

	var entries []output.ReportEntry
	require.NoError(t, json.Unmarshal([]byte(stdout), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "ok", entries[0].Status)
	assert.Equal(t, 1, entries[0].Files)
	assert.Equal(t, target, entries[0].Target)
}

func TestMergeCommand_TableReport(t *testing.T) {
	dir := t.TempDir()
	a := write(t, filepath.Join(dir, "a.properties"), "x=1\n")
	b := write(t, filepath.Join(dir, "b.properties"), "x=2\n")
	target := filepath.Join(dir, "out.properties")

	app := &application.Mock{OutputFormatFunc: func() string { return "table" }}
	stdout, _, err := run(t, app, "-t", target, "-s", a, "-s", b)
	require.NoError(t, err)
	assert.Contains(t, strings.ToUpper(stdout), "STATUS")
	assert.Contains(t, stdout, "ok")

	app = &application.Mock{OutputFormatFunc: func() string { return "" }}
	stdout, _, err = run(t, app, "-t", target, "-s", a)
	require.NoError(t, err)
	assert.Empty(t, stdout)
}

func TestMergeCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	a := write(t, filepath.Join(dir, "a.properties"), "x=1\n")

	t.Run("missing source", func(t *testing.T) {
		target := filepath.Join(dir, "out1.properties")
		_, stderr, err := run(t, &application.Mock{}, "-t", target, "-s", filepath.Join(dir, "nope.properties"))
		require.Error(t, err)
		assert.True(t, errors.IsSourceNotFound(err))
		assert.Contains(t, stderr, "1 failed")
		assert.NoFileExists(t, target)
	})

	t.Run("source is directory", func(t *testing.T) {
		_, _, err := run(t, &application.Mock{}, "-t", filepath.Join(dir, "out2.properties"), "-s", dir)
		assert.True(t, errors.IsSourceIsDirectory(err))
	})

	t.Run("no target", func(t *testing.T) {
		_, _, err := run(t, &application.Mock{}, "-s", a)
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("no sources", func(t *testing.T) {
		_, _, err := run(t, &application.Mock{}, "-t", filepath.Join(dir, "out3.properties"))
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("manifest and target", func(t *testing.T) {
		_, _, err := run(t, &application.Mock{}, "-m", "x.yaml", "-t", "out", "-s", a)
		assert.Error(t, err)
	})

	t.Run("bad parallelism", func(t *testing.T) {
		_, _, err := run(t, &application.Mock{}, "-t", filepath.Join(dir, "out4.properties"), "-s", a, "-p", "1000")
		assert.True(t, errors.IsValidationError(err))
	})
}
