package replay

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/papercomputeco/askstream/pkg/llm"
)

const (
	keepAliveFrame = ": keep-alive\n\n"
	doneFrame      = "data: " + llm.DoneSentinel + "\n\n"
	finishStop     = "stop"
	chunkID        = "chatcmpl-replay"
)

// Frames returns the exact bytes the server streams for cfg.Answer.
func Frames(cfg Config) []byte {
	return buildFrames(cfg, cfg.Answer, cfg.Model, time.Now().Unix())
}

// buildFrames renders the answer word by word as chat.completion.chunk
// events. The first chunk carries the assistant role, the last one the
// finish reason, and the stream closes with the done sentinel.
func buildFrames(cfg Config, answer, model string, created int64) []byte {
	var sb strings.Builder
	if cfg.KeepAlive {
		sb.WriteString(keepAliveFrame)
	}
	if cfg.Retry > 0 {
		sb.WriteString("retry: " + strconv.Itoa(cfg.Retry) + "\n\n")
	}

	writeChunk := func(delta llm.StreamDelta, finish *string) {
		// StreamChunk only holds strings and numbers; Marshal cannot fail.
		b, _ := json.Marshal(llm.StreamChunk{
			ID:      chunkID,
			Object:  llm.ChunkObject,
			Created: created,
			Model:   model,
			Choices: []llm.StreamChoice{{Delta: delta, FinishReason: finish}},
		})
		sb.WriteString("data: ")
		sb.Write(b)
		sb.WriteString("\n\n")
	}

	writeChunk(llm.StreamDelta{Role: llm.RoleAssistant}, nil)
	for _, word := range words(answer) {
		writeChunk(llm.StreamDelta{Content: word}, nil)
	}
	stop := finishStop
	writeChunk(llm.StreamDelta{}, &stop)

	sb.WriteString(doneFrame)
	return []byte(sb.String())
}

// words splits s after each space so the pieces concatenate back to s.
func words(s string) []string {
	if s == "" {
		return nil
	}
	return strings.SplitAfter(s, " ")
}

// fragments splits b into pieces of at most size bytes.
func fragments(b []byte, size int) [][]byte {
	if size <= 0 || size >= len(b) {
		return [][]byte{b}
	}
	out := make([][]byte, 0, len(b)/size+1)
	for len(b) > size {
		out = append(out, b[:size])
		b = b[size:]
	}
	if len(b) > 0 {
		out = append(out, b)
	}
	return out
}
