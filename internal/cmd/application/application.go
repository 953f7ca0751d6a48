// Package application provides the application interface for propmerge commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            runner, err := app.Runner()
//	            if err != nil {
//	                return err
//	            }
//	            report, err := runner.Run(cmd.Context(), jobs)
//	            // ...
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    ManifestPathFunc: func() string { return "testdata/propmerge.yaml" },
//	}
//	cmd := merge.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/propmerge"
)

// Application provides the application interface that commands need.
// The App struct from cmd/propmerge/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Runner returns a merge runner configured from the application
	// settings. Options passed here are applied after those settings.
	Runner(opts ...propmerge.Option) (*propmerge.Runner, error)

	// ManifestPath returns the manifest configured through the environment
	// or config file, or "" when none is set.
	ManifestPath() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (json, yaml, table, wide).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
