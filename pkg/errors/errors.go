// Package errors provides custom error types for the propmerge system.
// These errors enable better error handling, programmatic error checking,
// and improved debugging throughout the application.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the propmerge system
var (
	// ErrNotFound indicates that a requested file was not found
	ErrNotFound = errors.New("not found")

	// ErrIsDirectory indicates that a path expected to be a file is a directory
	ErrIsDirectory = errors.New("is a directory")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidEncoding indicates that text could not be decoded or encoded
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrUnsupportedFormat indicates an unknown manifest format
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// SourceNotFoundError is returned when a merge source does not exist.
type SourceNotFoundError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *SourceNotFoundError) Error() string {
	return fmt.Sprintf("file %s does not exist", e.Path)
}

// Unwrap implements errors.Unwrap
func (e *SourceNotFoundError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *SourceNotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewSourceNotFoundError creates a new SourceNotFoundError
func NewSourceNotFoundError(path string, err error) *SourceNotFoundError {
	return &SourceNotFoundError{Path: path, Err: err}
}

// SourceIsDirectoryError is returned when a merge source is a directory.
type SourceIsDirectoryError struct {
	Path string
}

// Error implements the error interface
func (e *SourceIsDirectoryError) Error() string {
	return fmt.Sprintf("file %s is directory", e.Path)
}

// Is implements errors.Is support
func (e *SourceIsDirectoryError) Is(target error) bool {
	return target == ErrIsDirectory
}

// NewSourceIsDirectoryError creates a new SourceIsDirectoryError
func NewSourceIsDirectoryError(path string) *SourceIsDirectoryError {
	return &SourceIsDirectoryError{Path: path}
}

// ReadError represents an I/O or decoding failure while reading a source file.
type ReadError struct {
	Path string
	Line int // 1-based line number, 0 when not line specific
	Err  error
}

// Error implements the error interface
func (e *ReadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("failed to append file %s to output file (line %d): %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("failed to append file %s to output file: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ReadError) Unwrap() error {
	return e.Err
}

// NewReadError creates a new ReadError
func NewReadError(path string, line int, err error) *ReadError {
	return &ReadError{Path: path, Line: line, Err: err}
}

// WriteError represents an I/O or encoding failure while writing a target file.
type WriteError struct {
	Path string
	Err  error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to save to output file %s: %v", e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *WriteError) Unwrap() error {
	return e.Err
}

// NewWriteError creates a new WriteError
func NewWriteError(path string, err error) *WriteError {
	return &WriteError{Path: path, Err: err}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing manifest formats
type ParseError struct {
	Format  string // "yaml", "toml", "hcl"
	File    string
	Line    int
	Column  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("parse error in %s at %s:%d:%d: %s", e.Format, e.File, e.Line, e.Column, e.Message)
	}
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// JobError attaches the job name or target to a failure from one merge job.
type JobError struct {
	Job string
	Err error
}

// Error implements the error interface
func (e *JobError) Error() string {
	return fmt.Sprintf("merge %s: %v", e.Job, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *JobError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDirectory checks if an error reports a directory where a file was expected
func IsDirectory(err error) bool {
	return errors.Is(err, ErrIsDirectory)
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsSourceNotFound checks if an error is a SourceNotFoundError
func IsSourceNotFound(err error) bool {
	var target *SourceNotFoundError
	return errors.As(err, &target)
}

// IsSourceIsDirectory checks if an error is a SourceIsDirectoryError
func IsSourceIsDirectory(err error) bool {
	var target *SourceIsDirectoryError
	return errors.As(err, &target)
}

// IsReadError checks if an error is a ReadError
func IsReadError(err error) bool {
	var target *ReadError
	return errors.As(err, &target)
}

// IsWriteError checks if an error is a WriteError
func IsWriteError(err error) bool {
	var target *WriteError
	return errors.As(err, &target)
}

// Helper wrapping functions for common patterns

// WrapRead wraps an error as a ReadError
func WrapRead(path string, err error) error {
	if err == nil {
		return nil
	}
	return NewReadError(path, 0, err)
}

// WrapWrite wraps an error as a WriteError
func WrapWrite(path string, err error) error {
	if err == nil {
		return nil
	}
	return NewWriteError(path, err)
}

// WrapValidation wraps an error as a ValidationError
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapJob wraps an error as a JobError
func WrapJob(job string, err error) error {
	if err == nil {
		return nil
	}
	return &JobError{Job: job, Err: err}
}
