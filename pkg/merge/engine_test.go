package merge_test

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/propmerge/pkg/errors"
	"github.com/agentstation/propmerge/pkg/merge"
)

// recordSink keeps every diagnostic for assertions.
type recordSink struct {
	notices []string
	warns   []string
}

func (s *recordSink) Notice(msg string) { s.notices = append(s.notices, msg) }
func (s *recordSink) Warn(msg string)   { s.warns = append(s.warns, msg) }

func writeSource(t *testing.T, dir, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	content := ""
	if len(lines) > 0 {
		content = strings.Join(lines, "\n") + "\n"
	}
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	if len(data) == 0 {
		return []string{}
	}
	require.True(t, bytes.HasSuffix(data, []byte("\n")), "every line must be newline terminated")
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestMerge_Scenarios(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		excludes []string
		want     []string
		warns    []string
	}{
		{
			name: "last write wins at first position",
			a:    []string{"#hdr", "x=1", "y=2"},
			b:    []string{"y=9", "z=3"},
			want: []string{"#hdr", "x=1", "y=9", "z=3"},
			warns: []string{
				"Line merged: y=9",
			},
		},
		{
			name:     "excluded key is dropped everywhere",
			a:        []string{"#hdr", "x=1", "y=2"},
			b:        []string{"y=9", "z=3"},
			excludes: []string{"y"},
			want:     []string{"#hdr", "x=1", "z=3"},
			warns: []string{
				"Line discarded: y=2",
				"Line discarded: y=9",
			},
		},
		{
			name: "disjoint keys keep union in order",
			a:    []string{"a=1", "", "b=2"},
			b:    []string{"# second", "c=3"},
			want: []string{"a=1", "", "b=2", "# second", "c=3"},
		},
		{
			name: "verbatim lines are never deduplicated",
			a:    []string{"# same", "", "plain text"},
			b:    []string{"# same", "", "plain text"},
			want: []string{"# same", "", "plain text", "# same", "", "plain text"},
		},
		{
			name: "key is trimmed but line is emitted raw",
			a:    []string{"  key  = first  "},
			b:    []string{"key=second"},
			want: []string{"key=second"},
			warns: []string{
				"Line merged: key=second",
			},
		},
		{
			name: "first equals delimits the key",
			a:    []string{"url=http://host?a=b", "url2=x"},
			b:    []string{"url = http://other?c=d"},
			want: []string{"url = http://other?c=d", "url2=x"},
			warns: []string{
				"Line merged: url = http://other?c=d",
			},
		},
		{
			name: "comment containing equals is verbatim",
			a:    []string{"#x=1", "x=2"},
			b:    []string{"#x=1"},
			want: []string{"#x=1", "x=2", "#x=1"},
		},
		{
			name: "duplicates inside one file are merged",
			a:    []string{"k=1", "k=2", "k=3"},
			want: []string{"k=3"},
			warns: []string{
				"Line merged: k=2",
				"Line merged: k=3",
			},
		},
		{
			name: "empty key is still a key",
			a:    []string{"=one"},
			b:    []string{" =two"},
			want: []string{" =two"},
			warns: []string{
				"Line merged:  =two",
			},
		},
		{
			name:     "excluded key never reserves a position",
			a:        []string{"a=1", "b=1"},
			b:        []string{"a=2", "c=1"},
			excludes: []string{"a"},
			want:     []string{"b=1", "c=1"},
			warns: []string{
				"Line discarded: a=1",
				"Line discarded: a=2",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			sources := []string{writeSource(t, dir, "a.properties", tt.a...)}
			if tt.b != nil {
				sources = append(sources, writeSource(t, dir, "b.properties", tt.b...))
			}
			target := filepath.Join(dir, "out.properties")
			sink := &recordSink{}

			result, err := merge.Merge(context.Background(), merge.Job{
				Target:   target,
				Sources:  sources,
				Excludes: tt.excludes,
			}, sink)
			require.NoError(t, err)

			assert.Equal(t, tt.want, readLines(t, target))
			assert.Equal(t, len(sources), result.Files)
			assert.Equal(t, len(tt.want), result.Lines)
			if tt.warns == nil {
				assert.Empty(t, sink.warns)
			} else {
				assert.Equal(t, tt.warns, sink.warns)
			}
			assert.Len(t, sink.notices, len(sources))
		})
	}
}

func TestMerge_ResultCounters(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.properties", "x=1", "y=2", "secret=1")
	b := writeSource(t, dir, "b.properties", "y=3", "secret=2")
	target := filepath.Join(dir, "out.properties")

	result, err := merge.New().Merge(context.Background(), merge.Job{
		Target:   target,
		Sources:  []string{a, b},
		Excludes: []string{"secret"},
	})
	require.NoError(t, err)

	abs, err := filepath.Abs(target)
	require.NoError(t, err)
	assert.Equal(t, &merge.Result{Target: abs, Files: 2, Lines: 2, Merged: 1, Discarded: 2}, result)
}

func TestMerge_AppendNotice(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.properties", "x=1")
	target := filepath.Join(dir, "out.properties")
	sink := &recordSink{}

	_, err := merge.Merge(context.Background(), merge.Job{Target: target, Sources: []string{a}}, sink)
	require.NoError(t, err)

	require.Len(t, sink.notices, 1)
	assert.Equal(t, "Appending file: "+a+" to the target file: "+target+"...", sink.notices[0])
}

func TestMerge_Idempotence(t *testing.T) {
	dir := t.TempDir()
	lines := []string{"# header", "", "a=1", "b = two = three", "no separator here", "#c=4"}
	src := writeSource(t, dir, "in.properties", lines...)
	target := filepath.Join(dir, "out.properties")

	_, err := merge.Merge(context.Background(), merge.Job{Target: target, Sources: []string{src}}, nil)
	require.NoError(t, err)

	assert.Equal(t, lines, readLines(t, target))
}

func TestMerge_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.properties", "#hdr", "x=1", "y=2", "", "x=5")
	b := writeSource(t, dir, "b.properties", "y=9", "z=3", "# tail")
	first := filepath.Join(dir, "first.properties")
	second := filepath.Join(dir, "second.properties")

	_, err := merge.Merge(context.Background(), merge.Job{Target: first, Sources: []string{a, b}}, nil)
	require.NoError(t, err)
	_, err = merge.Merge(context.Background(), merge.Job{Target: second, Sources: []string{first}}, nil)
	require.NoError(t, err)

	firstBytes, err := os.ReadFile(first)
	require.NoError(t, err)
	secondBytes, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, firstBytes, secondBytes)
}

func TestMerge_EmptySource(t *testing.T) {
	dir := t.TempDir()
	empty := writeSource(t, dir, "empty.properties")
	a := writeSource(t, dir, "a.properties", "x=1")
	target := filepath.Join(dir, "out.properties")

	result, err := merge.Merge(context.Background(), merge.Job{Target: target, Sources: []string{empty, a, empty}}, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Files)
	assert.Equal(t, []string{"x=1"}, readLines(t, target))
}

func TestMerge_NoSources(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.properties")
	require.NoError(t, os.WriteFile(target, []byte("old=1\n"), 0o644))

	result, err := merge.Merge(context.Background(), merge.Job{Target: target}, nil)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Files)
	assert.Equal(t, []string{}, readLines(t, target))
}

func TestMerge_LineTerminators(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		lines   int
		merged  int
		warns   []string
	}{
		{
			name:    "crlf",
			content: "a=1\r\nb=2\r\n\r\nc=3",
			want:    "a=1\nb=2\n\nc=3\n",
			lines:   4,
		},
		{
			name:    "lone cr",
			content: "a=1\rb=2\ra=3\n",
			want:    "a=3\nb=2\n",
			lines:   2,
			merged:  1,
			warns:   []string{"Line merged: a=3"},
		},
		{
			name:    "trailing cr",
			content: "#x\ra=1\r",
			want:    "#x\na=1\n",
			lines:   2,
		},
		{
			name:    "mixed",
			content: "a=1\r\rb=2\n\r\nc=3",
			want:    "a=1\n\nb=2\n\nc=3\n",
			lines:   5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "in.properties")
			require.NoError(t, os.WriteFile(src, []byte(tt.content), 0o644))
			target := filepath.Join(dir, "out.properties")

			sink := &recordSink{}
			result, err := merge.Merge(context.Background(), merge.Job{Target: target, Sources: []string{src}}, sink)
			require.NoError(t, err)

			data, err := os.ReadFile(target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(data))
			assert.Equal(t, tt.lines, result.Lines)
			assert.Equal(t, tt.merged, result.Merged)
			assert.Equal(t, tt.warns, sink.warns)
		})
	}
}

func TestMerge_SourceIsDirectory(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.properties", "x=1")
	sub := filepath.Join(dir, "conf")
	require.NoError(t, os.Mkdir(sub, 0o755))
	target := filepath.Join(dir, "out.properties")
	require.NoError(t, os.WriteFile(target, []byte("keep=me\n"), 0o644))

	_, err := merge.Merge(context.Background(), merge.Job{Target: target, Sources: []string{a, sub}}, nil)
	require.Error(t, err)

	assert.True(t, errors.IsSourceIsDirectory(err))
	var dirErr *errors.SourceIsDirectoryError
	require.True(t, stderrors.As(err, &dirErr))
	assert.Equal(t, sub, dirErr.Path)
	assert.Equal(t, []string{"keep=me"}, readLines(t, target), "target must not be modified")
}

func TestMerge_SourceNotFound(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.properties")
	target := filepath.Join(dir, "out.properties")

	_, err := merge.Merge(context.Background(), merge.Job{Target: target, Sources: []string{missing}}, nil)
	require.Error(t, err)

	assert.True(t, errors.IsSourceNotFound(err))
	assert.True(t, errors.IsNotFound(err))
	assert.Contains(t, err.Error(), missing)
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr), "target must not be created")
}

func TestMerge_InvalidUTF8(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.properties")
	require.NoError(t, os.WriteFile(src, []byte("ok=1\nbad=\xff\xfe\n"), 0o644))
	target := filepath.Join(dir, "out.properties")

	_, err := merge.Merge(context.Background(), merge.Job{Target: target, Sources: []string{src}}, nil)
	require.Error(t, err)

	var readErr *errors.ReadError
	require.True(t, stderrors.As(err, &readErr))
	assert.Equal(t, 2, readErr.Line)
	assert.True(t, stderrors.Is(err, errors.ErrInvalidEncoding))
}

func TestMerge_Latin1(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.properties")
	b := filepath.Join(dir, "b.properties")
	require.NoError(t, os.WriteFile(a, []byte("name=caf\xe9\ncity=M\xfcnchen\n"), 0o644))
	require.NoError(t, os.WriteFile(b, []byte("name=na\xefve\n"), 0o644))
	target := filepath.Join(dir, "out.properties")

	_, err := merge.Merge(context.Background(), merge.Job{
		Target:   target,
		Sources:  []string{a, b},
		Encoding: "ISO-8859-1",
	}, nil)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, []byte("name=na\xefve\ncity=M\xfcnchen\n"), data)
}

func TestMerge_UnknownEncoding(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.properties", "x=1")
	target := filepath.Join(dir, "out.properties")

	t.Run("with sources", func(t *testing.T) {
		_, err := merge.Merge(context.Background(), merge.Job{
			Target: target, Sources: []string{a}, Encoding: "no-such-charset",
		}, nil)
		require.Error(t, err)
		assert.True(t, errors.IsReadError(err))
		assert.True(t, stderrors.Is(err, errors.ErrInvalidEncoding))
	})

	t.Run("without sources", func(t *testing.T) {
		_, err := merge.Merge(context.Background(), merge.Job{
			Target: target, Encoding: "no-such-charset",
		}, nil)
		require.Error(t, err)
		assert.True(t, errors.IsWriteError(err))
	})

	t.Run("missing source reported first", func(t *testing.T) {
		_, err := merge.Merge(context.Background(), merge.Job{
			Target: target, Sources: []string{filepath.Join(dir, "nope")}, Encoding: "no-such-charset",
		}, nil)
		assert.True(t, errors.IsSourceNotFound(err))
	})
}

func TestMerge_WriteError(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.properties", "x=1")
	target := filepath.Join(dir, "missing-dir", "out.properties")

	_, err := merge.Merge(context.Background(), merge.Job{Target: target, Sources: []string{a}}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsWriteError(err))
}

func TestMerge_DryRun(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.properties", "#hdr", "x=1", "y=2")
	b := writeSource(t, dir, "b.properties", "y=9", "z=3")
	target := filepath.Join(dir, "out.properties")

	var buf bytes.Buffer
	result, err := merge.New(merge.WithDryRun(&buf)).Merge(context.Background(), merge.Job{
		Target:  target,
		Sources: []string{a, b},
	})
	require.NoError(t, err)

	assert.Equal(t, "#hdr\nx=1\ny=9\nz=3\n", buf.String())
	assert.Equal(t, 2, result.Files)
	_, statErr := os.Stat(target)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMerge_Canceled(t *testing.T) {
	dir := t.TempDir()
	a := writeSource(t, dir, "a.properties", "x=1")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := merge.Merge(ctx, merge.Job{Target: filepath.Join(dir, "out"), Sources: []string{a}}, nil)
	assert.ErrorIs(t, err, context.Canceled)
}
