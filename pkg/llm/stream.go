package llm

import (
	"encoding/json"
	"strings"
)

// DoneSentinel is the data payload that ends an OpenAI stream.
const DoneSentinel = "[DONE]"

// ChunkObject is the "object" value of a streamed completion chunk.
const ChunkObject = "chat.completion.chunk"

// StreamChunk is the JSON payload of one streamed "data:" event.
type StreamChunk struct {
	ID      string         `json:"id,omitempty"`
	Object  string         `json:"object,omitempty"`
	Created int64          `json:"created,omitempty"`
	Model   string         `json:"model,omitempty"`
	Choices []StreamChoice `json:"choices"`
}

// StreamChoice is one choice of a StreamChunk.
type StreamChoice struct {
	Index        int         `json:"index"`
	Delta        StreamDelta `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

// StreamDelta is the incremental message content of a StreamChoice.
type StreamDelta struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content,omitempty"`
}

// DeltaContent extracts the text carried by one "data:" payload. The content
// of every choice is concatenated in order. A payload that is not JSON is
// returned verbatim; JSON without choices yields "".
func DeltaContent(data string) string {
	var chunk StreamChunk
	if err := json.Unmarshal([]byte(data), &chunk); err != nil {
		return data
	}

	var sb strings.Builder
	for _, choice := range chunk.Choices {
		sb.WriteString(choice.Delta.Content)
	}
	return sb.String()
}
