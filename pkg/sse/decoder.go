package sse

import (
	"log/slog"
	"strings"
)

// blockTerminator marks the end of an event block.
const blockTerminator = "\n\n"

// Decoder incrementally decodes SSE text. Chunks are appended to an internal
// buffer with Feed; whenever the buffer ends on a blank line the whole buffer
// is decoded in a single pass and cleared.
//
// Event type and id are scoped to their own event block, not to the pass:
// "event: foo\n\ndata: x\n\n" yields an event with no type, whether it
// arrives as one chunk or two.
//
// A Decoder is not safe for concurrent use. It is meant to be fed by exactly
// one read loop.
type Decoder struct {
	buf  strings.Builder
	emit func(Parsed)

	logger      *slog.Logger
	onMalformed func(line string)
}

// NewDecoder returns a Decoder that delivers every decoded value to emit, in
// order, synchronously from within Feed.
func NewDecoder(emit func(Parsed), opts ...Option) *Decoder {
	o := newOptions(opts)
	if emit == nil {
		emit = func(Parsed) {}
	}

	return &Decoder{
		emit:        emit,
		logger:      o.logger,
		onMalformed: o.onMalformed,
	}
}

// Feed appends chunk to the buffer. If the buffer then ends with "\n\n", every
// buffered line (including those from earlier chunks) is decoded and the
// buffer is cleared. Feed never fails: malformed input is dropped.
func (d *Decoder) Feed(chunk string) {
	if chunk == "" {
		return
	}

	d.buf.WriteString(chunk)

	block := d.buf.String()
	if !strings.HasSuffix(block, blockTerminator) {
		return
	}

	d.buf.Reset()
	d.decodeBlock(block)
}

// Buffered returns the input that has been fed but not yet decoded.
func (d *Decoder) Buffered() string {
	return d.buf.String()
}

// decodeBlock runs one decode pass over the buffered input. The event type and
// id only live until the blank line that ends their event block, so a buffer
// holding several blocks decodes exactly as if each block had been fed on its
// own.
func (d *Decoder) decodeBlock(block string) {
	var eventType, eventID *string

	for _, line := range strings.Split(block, "\n") {
		f, kind := parseLine(line)

		switch kind {
		case lineBlank:
			eventType, eventID = nil, nil
			continue
		case lineComment:
			continue
		case lineMalformed:
			d.logger.Debug("dropping sse line without field separator", "line", line)
			if d.onMalformed != nil {
				d.onMalformed(line)
			}
			continue
		}

		switch f.name {
		case "event":
			v := f.value
			eventType = &v
		case "id":
			v := f.value
			eventID = &v
		case "data":
			d.emit(Event{Type: eventType, ID: eventID, Data: f.value})
		case "retry":
			n, ok := parseRetry(f.value)
			if !ok {
				d.logger.Debug("dropping non-numeric sse retry", "value", f.value)
				continue
			}
			d.emit(Retry{Value: n})
		default:
			// Unknown fields are ignored.
		}
	}
}
