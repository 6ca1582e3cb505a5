package config

import (
	"fmt"
	"strconv"
	"time"
)

// Config represents the persistent askstream configuration stored as
// config.toml in the .askstream/ directory. The TOML layout uses sections for
// logical grouping.
type Config struct {
	Version int          `toml:"version"`
	Client  ClientConfig `toml:"client"`
	Render  RenderConfig `toml:"render"`
	Replay  ReplayConfig `toml:"replay"`
}

// ClientConfig holds settings for the streaming chat client used by
// "askstream ask" and "askstream chat".
type ClientConfig struct {
	// Endpoint is the base URL of an OpenAI-compatible API
	// (scheme + host + port). The client appends /v1/chat/completions.
	Endpoint string `toml:"endpoint,omitempty"`

	// APIKey is sent as a bearer token. Prefer ASKSTREAM_CLIENT_API_KEY over
	// storing it in the file.
	APIKey string `toml:"api_key,omitempty"`

	Model           string        `toml:"model,omitempty"`
	MaxTokens       int           `toml:"max_tokens"`
	Temperature     float64       `toml:"temperature"`
	TopP            float64       `toml:"top_p"`
	PresencePenalty float64       `toml:"presence_penalty"`
	Timeout         time.Duration `toml:"timeout"`
}

// RenderConfig controls how answers are printed.
type RenderConfig struct {
	Markdown bool `toml:"markdown"`
	WordWrap int  `toml:"word_wrap"`
}

// ReplayConfig holds settings for the local replay server.
type ReplayConfig struct {
	Listen       string        `toml:"listen,omitempty"`
	FragmentSize int           `toml:"fragment_size"`
	Delay        time.Duration `toml:"delay"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

func setInt(key string, target *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		*target = n
		return nil
	}
}

func setFloat(key string, target *float64) func(string) error {
	return func(v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		*target = f
		return nil
	}
}

func setDuration(key string, target *time.Duration) func(string) error {
	return func(v string) error {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", key, err)
		}
		*target = d
		return nil
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"client.endpoint": {
		get: func(c *Config) string { return c.Client.Endpoint },
		set: func(c *Config, v string) error { c.Client.Endpoint = v; return nil },
	},
	"client.api_key": {
		get: func(c *Config) string { return c.Client.APIKey },
		set: func(c *Config, v string) error { c.Client.APIKey = v; return nil },
	},
	"client.model": {
		get: func(c *Config) string { return c.Client.Model },
		set: func(c *Config, v string) error { c.Client.Model = v; return nil },
	},
	"client.max_tokens": {
		get: func(c *Config) string { return strconv.Itoa(c.Client.MaxTokens) },
		set: func(c *Config, v string) error { return setInt("client.max_tokens", &c.Client.MaxTokens)(v) },
	},
	"client.temperature": {
		get: func(c *Config) string { return formatFloat(c.Client.Temperature) },
		set: func(c *Config, v string) error { return setFloat("client.temperature", &c.Client.Temperature)(v) },
	},
	"client.top_p": {
		get: func(c *Config) string { return formatFloat(c.Client.TopP) },
		set: func(c *Config, v string) error { return setFloat("client.top_p", &c.Client.TopP)(v) },
	},
	"client.presence_penalty": {
		get: func(c *Config) string { return formatFloat(c.Client.PresencePenalty) },
		set: func(c *Config, v string) error {
			return setFloat("client.presence_penalty", &c.Client.PresencePenalty)(v)
		},
	},
	"client.timeout": {
		get: func(c *Config) string { return c.Client.Timeout.String() },
		set: func(c *Config, v string) error { return setDuration("client.timeout", &c.Client.Timeout)(v) },
	},
	"render.markdown": {
		get: func(c *Config) string { return strconv.FormatBool(c.Render.Markdown) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid value for render.markdown: %w", err)
			}
			c.Render.Markdown = b
			return nil
		},
	},
	"render.word_wrap": {
		get: func(c *Config) string { return strconv.Itoa(c.Render.WordWrap) },
		set: func(c *Config, v string) error { return setInt("render.word_wrap", &c.Render.WordWrap)(v) },
	},
	"replay.listen": {
		get: func(c *Config) string { return c.Replay.Listen },
		set: func(c *Config, v string) error { c.Replay.Listen = v; return nil },
	},
	"replay.fragment_size": {
		get: func(c *Config) string { return strconv.Itoa(c.Replay.FragmentSize) },
		set: func(c *Config, v string) error { return setInt("replay.fragment_size", &c.Replay.FragmentSize)(v) },
	},
	"replay.delay": {
		get: func(c *Config) string { return c.Replay.Delay.String() },
		set: func(c *Config, v string) error { return setDuration("replay.delay", &c.Replay.Delay)(v) },
	},
}
