// Package logging provides structured logging for propmerge using zerolog.
// Console output is used on terminals and JSON otherwise, so build systems
// that capture stderr get one event per line.
//
// Example usage:
//
//	log := logging.Default()
//	log.Info().Str("target", target).Int("files", n).Msg("Finished merging")
//
//	// Carry job fields through a context
//	ctx := logging.WithJob(ctx, "app")
//	logging.FromContext(ctx).Debug().Msg("Starting job")
//
//	// Hand diagnostics from the merge engine to the logger
//	engine := merge.New(merge.WithSink(logging.SinkFromContext(ctx)))
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// defaultLogger is the global logger instance.
var defaultLogger zerolog.Logger

func init() {
	defaultLogger = createDefaultLogger()
}

// createDefaultLogger creates a logger with default settings.
func createDefaultLogger() zerolog.Logger {
	var writer io.Writer = os.Stderr
	if isTerminal(os.Stderr) && os.Getenv("LOG_FORMAT") != "json" {
		writer = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
			NoColor:    os.Getenv("NO_COLOR") != "",
		}
	}

	level := parseLevel(os.Getenv("LOG_LEVEL"))
	return zerolog.New(writer).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// Default returns the default global logger.
func Default() *zerolog.Logger {
	return &defaultLogger
}

// SetDefault sets the default global logger.
func SetDefault(logger zerolog.Logger) {
	defaultLogger = logger
	log.Logger = logger
}
