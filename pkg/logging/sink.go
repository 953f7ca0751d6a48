package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// Sink adapts a zerolog logger to the merge engine's diagnostic sink:
// notices are logged at info and warnings at warn.
type Sink struct {
	logger zerolog.Logger
}

// NewSink creates a Sink writing to logger. A nil logger uses the default.
func NewSink(logger *zerolog.Logger) *Sink {
	if logger == nil {
		logger = Default()
	}
	return &Sink{logger: logger.With().Str("component", "merge").Logger()}
}

// SinkFromContext creates a Sink from the context logger.
func SinkFromContext(ctx context.Context) *Sink {
	return NewSink(FromContext(ctx))
}

// Notice logs msg at info level.
func (s *Sink) Notice(msg string) {
	s.logger.Info().Msg(msg)
}

// Warn logs msg at warn level.
func (s *Sink) Warn(msg string) {
	s.logger.Warn().Msg(msg)
}
