package sse

import (
	"context"
	"io"
	"iter"
)

// Decode reads src to completion and delivers every decoded value to emit in
// order. It returns nil when src is exhausted, a *StreamReadError when a read
// fails and ctx.Err() when ctx is done.
func Decode(ctx context.Context, src io.Reader, emit func(Parsed), opts ...Option) error {
	dec := NewDecoder(emit, opts...)
	return NewChunkReader(src, opts...).Run(ctx, dec.Feed)
}

// Stream returns an iterator over the values decoded from src. Breaking out
// of the loop stops reading from src. A terminal error is yielded once, with
// a nil Parsed, and ends the iteration; normal completion yields no error.
//
//	for ev, err := range sse.Stream(ctx, resp.Body) {
//		if err != nil {
//			return err
//		}
//		...
//	}
func Stream(ctx context.Context, src io.Reader, opts ...Option) iter.Seq2[Parsed, error] {
	return func(yield func(Parsed, error) bool) {
		var pending []Parsed
		dec := NewDecoder(func(p Parsed) {
			pending = append(pending, p)
		}, opts...)
		reader := NewChunkReader(src, opts...)

		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			text, err := reader.Next()
			dec.Feed(text)

			for i, p := range pending {
				if !yield(p, nil) {
					return
				}
				pending[i] = nil
			}
			pending = pending[:0]

			switch {
			case err == nil:
				continue
			case err == io.EOF:
				return
			default:
				yield(nil, err)
				return
			}
		}
	}
}
