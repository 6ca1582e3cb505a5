package replay

import "time"

// Config is the replay server configuration.
type Config struct {
	// Listen is the address to listen on (e.g., ":8089").
	Listen string

	// Answer is streamed back for every request. When empty the last user
	// message of the request is echoed.
	Answer string

	// Model is reported in each chunk when the request names none.
	Model string

	// FragmentSize is the number of bytes per write. Small values split
	// lines, events and multi-byte characters across writes. Zero writes
	// each frame whole.
	FragmentSize int

	// Delay is slept between writes.
	Delay time.Duration

	// Retry, when positive, is sent as a "retry:" directive in milliseconds
	// before the first event.
	Retry int

	// KeepAlive sends a ": keep-alive" comment before the first event.
	KeepAlive bool
}
