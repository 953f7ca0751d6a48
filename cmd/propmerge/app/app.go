// Package app provides the application context and dependency management
// for the propmerge CLI. It centralizes configuration, logging and runner
// construction so commands only depend on application.Application.
package app

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/propmerge"
	"github.com/agentstation/propmerge/internal/cmd/application"
	"github.com/agentstation/propmerge/pkg/errors"
)

// App represents the propmerge application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from the environment,
// .env files and ~/.propmerge.yaml, and can be customized using options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// ManifestPath returns the manifest path from the environment or config file.
func (a *App) ManifestPath() string {
	return a.config.Manifest
}

// Runner returns a runner configured from the application settings.
// Options passed here take precedence over the configuration.
func (a *App) Runner(opts ...propmerge.Option) (*propmerge.Runner, error) {
	runner, err := propmerge.New(append(a.runnerOptions(), opts...)...)
	if err != nil {
		return nil, errors.NewConfigError("runner", err.Error(), err)
	}
	return runner, nil
}

// runnerOptions constructs runner options from the app configuration.
func (a *App) runnerOptions() []propmerge.Option {
	opts := []propmerge.Option{propmerge.WithLogger(a.logger)}

	if a.config.Parallel > 0 {
		opts = append(opts, propmerge.WithParallelism(a.config.Parallel))
	}
	if a.config.KeepGoing {
		opts = append(opts, propmerge.WithKeepGoing(true))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
