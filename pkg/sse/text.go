package sse

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// textDecoder converts a byte stream to UTF-8 text progressively. A
// multi-byte character split across two reads is held back until the rest of
// it arrives. Invalid bytes are replaced with U+FFFD.
type textDecoder struct {
	t       transform.Transformer
	pending []byte
}

func newTextDecoder() *textDecoder {
	return &textDecoder{t: unicode.UTF8.NewDecoder()}
}

// decode returns the text for p plus any bytes held back from earlier calls.
// With final set, an incomplete trailing sequence is flushed as U+FFFD.
func (d *textDecoder) decode(p []byte, final bool) string {
	src := make([]byte, 0, len(d.pending)+len(p))
	src = append(src, d.pending...)
	src = append(src, p...)
	d.pending = nil

	if len(src) == 0 {
		return ""
	}

	out := make([]byte, 0, len(src))
	dst := make([]byte, len(src)+utf8.UTFMax)

	for {
		nDst, nSrc, err := d.t.Transform(dst, src, final)
		out = append(out, dst[:nDst]...)
		src = src[nSrc:]

		switch {
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && nSrc == 0 {
				dst = make([]byte, 2*len(dst))
			}
			continue
		case errors.Is(err, transform.ErrShortSrc):
			d.pending = append([]byte(nil), src...)
		}

		return string(out)
	}
}

// flush returns whatever is still held back, replacing it with U+FFFD.
func (d *textDecoder) flush() string {
	if len(d.pending) == 0 {
		return ""
	}
	return d.decode(nil, true)
}
