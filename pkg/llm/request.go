package llm

// ChatCompletionsPath is appended to the configured endpoint.
const ChatCompletionsPath = "/v1/chat/completions"

// ChatRequest is the body of a chat completion request.
type ChatRequest struct {
	Model           string    `json:"model"`
	Messages        []Message `json:"messages"`
	Stream          bool      `json:"stream"`
	MaxTokens       int       `json:"max_tokens,omitempty"`
	Temperature     float64   `json:"temperature"`
	TopP            float64   `json:"top_p"`
	PresencePenalty float64   `json:"presence_penalty"`
}
