package sse

import (
	"log/slog"

	"github.com/papercomputeco/askstream/pkg/logger"
)

const defaultReadSize = 32 * 1024

// Option configures a Decoder or ChunkReader.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	onMalformed func(line string)
	readSize    int
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:   logger.Nop(),
		readSize: defaultReadSize,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used to report absorbed anomalies (dropped lines,
// unparsable retry values, read failures) at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMalformedHandler registers fn to observe lines that have no colon.
// Such lines are still dropped; fn only sees them.
func WithMalformedHandler(fn func(line string)) Option {
	return func(o *options) {
		o.onMalformed = fn
	}
}

// WithReadSize sets the size of the buffer a ChunkReader reads into.
// Values below 1 are ignored.
func WithReadSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.readSize = n
		}
	}
}
