// Package merge implements the properties merge engine.
//
// A merge job reads an ordered list of properties-style files (key=value
// lines, '#' comments and blank lines) and writes a single target file:
//
//   - keyed lines are deduplicated across all sources; the last occurrence
//     wins but the line keeps the position of the first occurrence
//   - comment, blank and other non-keyed lines are copied verbatim
//   - lines whose key is in the exclude list are dropped
//
// Example usage:
//
//	engine := merge.New(merge.WithSink(logging.NewSink(logger)))
//	result, err := engine.Merge(ctx, merge.Job{
//	    Target:   "build/app.properties",
//	    Sources:  []string{"base.properties", "prod.properties"},
//	    Excludes: []string{"debug.enabled"},
//	})
//	if err != nil {
//	    return err
//	}
//	logger.Info().Int("files", result.Files).Msg("merged")
package merge

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/agentstation/propmerge/pkg/constants"
	"github.com/agentstation/propmerge/pkg/errors"
)

// Result summarizes one merge job.
type Result struct {
	// Target is the absolute path of the written file.
	Target string `json:"target" yaml:"target"`

	// Files is the number of source files merged.
	Files int `json:"files" yaml:"files"`

	// Lines is the number of lines written to the target.
	Lines int `json:"lines" yaml:"lines"`

	// Merged counts keyed lines that replaced an earlier value.
	Merged int `json:"merged" yaml:"merged"`

	// Discarded counts lines dropped by the exclude list.
	Discarded int `json:"discarded" yaml:"discarded"`
}

// Engine merges properties files. An Engine holds no per-job state and may
// be shared by concurrent jobs as long as its Sink tolerates that.
type Engine struct {
	sink   Sink
	dryRun io.Writer
}

// Option configures an Engine.
type Option func(*Engine)

// WithSink sets the diagnostic sink. A nil sink discards diagnostics.
func WithSink(sink Sink) Option {
	return func(e *Engine) {
		if sink == nil {
			sink = NopSink
		}
		e.sink = sink
	}
}

// WithDryRun renders merged output to w instead of the target file.
func WithDryRun(w io.Writer) Option {
	return func(e *Engine) {
		e.dryRun = w
	}
}

// New creates an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{sink: NopSink}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Merge runs job with a new Engine reporting to sink.
func Merge(ctx context.Context, job Job, sink Sink) (*Result, error) {
	return New(WithSink(sink)).Merge(ctx, job)
}

// Merge reads every source of job in order and writes the merged lines to
// the job's target. Source checks and reads all happen before the target is
// opened, so a missing or unreadable source leaves the target untouched.
func (e *Engine) Merge(ctx context.Context, job Job) (*Result, error) {
	target := absPath(job.Target)
	charset, charsetErr := ResolveCharset(job.EncodingName())

	st := newState(job.Excludes)
	result := &Result{Target: target}

	for _, source := range job.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.appendFile(st, result, source, target, charset, charsetErr); err != nil {
			return nil, err
		}
		result.Files++
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if charsetErr != nil {
		return nil, errors.WrapWrite(target, charsetErr)
	}

	lines := st.lines()
	result.Lines = len(lines)

	var err error
	if e.dryRun != nil {
		err = writeLines(e.dryRun, lines)
	} else {
		err = writeFile(job.Target, charset, lines)
	}
	if err != nil {
		return nil, errors.WrapWrite(target, err)
	}
	return result, nil
}

// appendFile streams one source into the merge state.
func (e *Engine) appendFile(st *state, result *Result, source, target string, charset Charset, charsetErr error) error {
	path := absPath(source)

	info, err := os.Stat(source)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.NewSourceNotFoundError(path, err)
		}
		return errors.NewReadError(path, 0, err)
	}
	if info.IsDir() {
		return errors.NewSourceIsDirectoryError(path)
	}
	if charsetErr != nil {
		return errors.NewReadError(path, 0, charsetErr)
	}

	f, err := os.Open(source)
	if err != nil {
		return errors.NewReadError(path, 0, err)
	}
	defer f.Close()

	var r io.Reader = f
	if !charset.IsUTF8() {
		r = transform.NewReader(f, charset.Encoding().NewDecoder())
	}

	err = readLines(r, func(n int, line []byte) error {
		if charset.IsUTF8() && !utf8.Valid(line) {
			return errors.NewReadError(path, n, errors.ErrInvalidEncoding)
		}
		text := string(line)
		switch st.add(text) {
		case lineDiscarded:
			result.Discarded++
			e.sink.Warn("Line discarded: " + text)
		case lineMerged:
			result.Merged++
			e.sink.Warn("Line merged: " + text)
		}
		return nil
	})
	if err != nil {
		if errors.IsReadError(err) {
			return err
		}
		return errors.NewReadError(path, 0, err)
	}

	e.sink.Notice("Appending file: " + path + " to the target file: " + target + "...")
	return nil
}

// readLines calls fn for every line of r with the terminator ("\n", "\r"
// or "\r\n") removed. A final line without terminator is still reported; an
// empty input reports nothing.
func readLines(r io.Reader, fn func(n int, line []byte) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, constants.ReadBufferSize), constants.MaxLineSize)
	sc.Split(scanLines)
	for n := 1; sc.Scan(); n++ {
		if err := fn(n, sc.Bytes()); err != nil {
			return err
		}
	}
	return sc.Err()
}

// scanLines is a bufio.SplitFunc that ends a line at "\n", "\r\n" or a lone "\r".
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if !atEOF {
			// a following "\n" may still arrive
			return 0, nil, nil
		}
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// writeFile truncates path and writes lines encoded with charset.
func writeFile(path string, charset Charset, lines []string) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, constants.FilePermissions)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if charset.IsUTF8() {
		return writeLines(f, lines)
	}

	tw := transform.NewWriter(f, charset.Encoding().NewEncoder())
	if err := writeLines(tw, lines); err != nil {
		return err
	}
	return tw.Close()
}

// writeLines writes each line followed by a newline.
func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriterSize(w, constants.WriteBufferSize)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
		if _, err := bw.WriteString(constants.Newline); err != nil {
			return err
		}
	}
	return bw.Flush()
}
