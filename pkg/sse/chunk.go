package sse

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// StreamReadError is the terminal error returned when the underlying source
// fails. It is distinct from normal completion, which is reported as io.EOF by
// Next and as a nil error by Run.
type StreamReadError struct {
	Err error
}

func (e *StreamReadError) Error() string {
	return fmt.Sprintf("reading event stream: %v", e.Err)
}

func (e *StreamReadError) Unwrap() error {
	return e.Err
}

// ChunkReader pulls successive chunks of bytes from a source and decodes them
// to text. It does not interpret the protocol; it is a chunk pump that feeds
// a Decoder.
type ChunkReader struct {
	src  io.Reader
	buf  []byte
	text *textDecoder

	// err is the terminal result once the source completed or failed.
	err error

	logger *slog.Logger
}

// NewChunkReader returns a ChunkReader reading from src.
func NewChunkReader(src io.Reader, opts ...Option) *ChunkReader {
	o := newOptions(opts)

	return &ChunkReader{
		src:    src,
		buf:    make([]byte, o.readSize),
		text:   newTextDecoder(),
		logger: o.logger,
	}
}

// Next blocks until the next chunk is available and returns it as text. The
// text may be empty when a read returned no bytes or only part of a
// multi-byte character.
//
// Next returns io.EOF once the source is exhausted and a *StreamReadError if
// the source failed. Either result is permanent: later calls return it again
// without reading from the source.
func (r *ChunkReader) Next() (string, error) {
	if r.err != nil {
		return "", r.err
	}

	n, err := r.src.Read(r.buf)

	var text string
	if n > 0 {
		text = r.text.decode(r.buf[:n], false)
	}

	switch {
	case err == nil:
		return text, nil
	case errors.Is(err, io.EOF):
		r.err = io.EOF
		text += r.text.flush()
		if text != "" {
			return text, nil
		}
		return "", io.EOF
	default:
		r.logger.Debug("event stream read failed", "error", err)
		r.err = &StreamReadError{Err: err}
		// Bytes that arrived with the failure are discarded: nothing is
		// handed to the decoder after a read error.
		return "", r.err
	}
}

// Run reads chunks until the source completes and passes each non-empty one
// to onChunk. It returns nil on normal completion, a *StreamReadError on a
// read failure and ctx.Err() if ctx is done before the next read.
//
// Cancelling ctx does not interrupt a read already in progress; close the
// source to unblock it.
func (r *ChunkReader) Run(ctx context.Context, onChunk func(text string)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		text, err := r.Next()
		if text != "" {
			onChunk(text)
		}

		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF):
			return nil
		default:
			return err
		}
	}
}
