package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/propmerge"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    OutputFormatFunc: func() string { return "json" },
//	}
//	cmd := jobs.NewCommand(mock)
type Mock struct {
	RunnerFunc       func(opts ...propmerge.Option) (*propmerge.Runner, error)
	ManifestPathFunc func() string
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Runner returns a runner using the mock function, or a runner with a
// no-op logger and the given options.
func (m *Mock) Runner(opts ...propmerge.Option) (*propmerge.Runner, error) {
	if m.RunnerFunc != nil {
		return m.RunnerFunc(opts...)
	}
	return propmerge.New(append([]propmerge.Option{propmerge.WithLogger(m.Logger())}, opts...)...)
}

// ManifestPath returns the manifest path using the mock function or "".
func (m *Mock) ManifestPath() string {
	if m.ManifestPathFunc != nil {
		return m.ManifestPathFunc()
	}
	return ""
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
