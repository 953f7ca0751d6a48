package propmerge

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/propmerge/pkg/constants"
	"github.com/agentstation/propmerge/pkg/errors"
)

// options holds the configuration for a Runner.
type options struct {
	logger      *zerolog.Logger
	parallelism int
	keepGoing   bool
	dryRun      io.Writer
}

func defaults() *options {
	return &options{
		parallelism: constants.DefaultParallelism,
	}
}

// Option is a function that configures a Runner.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithLogger sets the logger jobs report to. Without it the runner uses the
// logger carried by the context passed to Run.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithParallelism sets how many jobs may run at once. 1 runs jobs strictly
// in order.
func WithParallelism(n int) Option {
	return func(o *options) error {
		if n < 1 || n > constants.MaxParallelism {
			return &errors.ValidationError{
				Field:   "parallelism",
				Value:   n,
				Message: fmt.Sprintf("must be between 1 and %d", constants.MaxParallelism),
			}
		}
		o.parallelism = n
		return nil
	}
}

// WithKeepGoing makes a failed job leave the remaining jobs running.
func WithKeepGoing(enabled bool) Option {
	return func(o *options) error {
		o.keepGoing = enabled
		return nil
	}
}

// WithDryRun renders every job's output to w instead of its target file.
func WithDryRun(w io.Writer) Option {
	return func(o *options) error {
		if w == nil {
			return &errors.ValidationError{
				Field:   "dryRun",
				Message: "writer cannot be nil",
			}
		}
		o.dryRun = w
		return nil
	}
}
