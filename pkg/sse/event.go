// Package sse provides an incremental decoder for Server-Sent Events
// (SSE) streams delivered as arbitrarily fragmented chunks.
//
// A ChunkReader pumps text chunks out of an io.Reader and a Decoder turns
// those chunks into Parsed values. Chunk boundaries carry no meaning: a chunk
// may end mid-line, mid-event or even in the middle of a multi-byte
// character, and the decoder only ever emits once the buffered input ends on
// an event boundary (a blank line).
//
//	┌──────────────────┐   ┌─────────────────┐   ┌──────────────────┐
//	│ source io.Reader │──▶│ ChunkReader     │──▶│ Decoder.Feed()   │
//	└──────────────────┘   └─────────────────┘   └────────┬─────────┘
//	                                                      │
//	                                                      ▼
//	                                             ┌──────────────────┐
//	                                             │ Event / Retry    │
//	                                             └──────────────────┘
//
// See the WHATWG server-sent events standard:
// https://html.spec.whatwg.org/multipage/server-sent-events.html
package sse

// Parsed is a single value produced by a decode pass: either an Event or a
// Retry.
type Parsed interface {
	parsed()
}

// Event is emitted for every "data:" line of an event block.
type Event struct {
	// Type is the value of the most recent "event:" field seen earlier in the
	// same event block, or nil if there was none. An empty "event:" field
	// yields a pointer to "".
	Type *string

	// ID is the value of the most recent "id:" field seen earlier in the
	// same event block, or nil if there was none.
	ID *string

	// Data is the value of the "data:" field that triggered this event.
	// Multiple data lines are NOT joined; each one is its own Event.
	Data string
}

// Retry is emitted for a "retry:" field whose value parses as a number.
type Retry struct {
	Value float64
}

func (Event) parsed() {}
func (Retry) parsed() {}

// TypeOr returns the event type, or def if no "event:" field was seen.
func (e Event) TypeOr(def string) string {
	if e.Type == nil {
		return def
	}
	return *e.Type
}

// IDOr returns the event id, or def if no "id:" field was seen.
func (e Event) IDOr(def string) string {
	if e.ID == nil {
		return def
	}
	return *e.ID
}
