package config

import "time"

const (
	defaultEndpoint        = "https://api.openai.com"
	defaultModel           = "gpt-3.5-turbo"
	defaultMaxTokens       = 1000
	defaultTemperature     = 0.8
	defaultTopP            = 1
	defaultPresencePenalty = 1
	defaultTimeout         = 5 * time.Minute

	defaultWordWrap = 80

	defaultReplayListen       = ":8089"
	defaultReplayFragmentSize = 7
	defaultReplayDelay        = 20 * time.Millisecond
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Client: ClientConfig{
			Endpoint:        defaultEndpoint,
			Model:           defaultModel,
			MaxTokens:       defaultMaxTokens,
			Temperature:     defaultTemperature,
			TopP:            defaultTopP,
			PresencePenalty: defaultPresencePenalty,
			Timeout:         defaultTimeout,
		},
		Render: RenderConfig{
			Markdown: true,
			WordWrap: defaultWordWrap,
		},
		Replay: ReplayConfig{
			Listen:       defaultReplayListen,
			FragmentSize: defaultReplayFragmentSize,
			Delay:        defaultReplayDelay,
		},
	}
}
