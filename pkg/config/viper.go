package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/papercomputeco/askstream/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the ASKSTREAM_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags (once bound via BindRegisteredFlags)
//  2. Environment variables (ASKSTREAM_CLIENT_API_KEY, ASKSTREAM_CLIENT_MODEL, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)

		if err := v.ReadInConfig(); err != nil {
			// Config file not found errors are fine, defaults will apply.
			if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	// 3. Environment variables: ASKSTREAM_CLIENT_ENDPOINT, ASKSTREAM_RENDER_MARKDOWN, etc.
	v.SetEnvPrefix("ASKSTREAM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// FromViper materializes a Config from the resolved viper values.
func FromViper(v *viper.Viper) *Config {
	return &Config{
		Version: v.GetInt("version"),
		Client: ClientConfig{
			Endpoint:        v.GetString("client.endpoint"),
			APIKey:          v.GetString("client.api_key"),
			Model:           v.GetString("client.model"),
			MaxTokens:       v.GetInt("client.max_tokens"),
			Temperature:     v.GetFloat64("client.temperature"),
			TopP:            v.GetFloat64("client.top_p"),
			PresencePenalty: v.GetFloat64("client.presence_penalty"),
			Timeout:         v.GetDuration("client.timeout"),
		},
		Render: RenderConfig{
			Markdown: v.GetBool("render.markdown"),
			WordWrap: v.GetInt("render.word_wrap"),
		},
		Replay: ReplayConfig{
			Listen:       v.GetString("replay.listen"),
			FragmentSize: v.GetInt("replay.fragment_size"),
			Delay:        v.GetDuration("replay.delay"),
		},
	}
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Client
	v.SetDefault("client.endpoint", d.Client.Endpoint)
	v.SetDefault("client.api_key", d.Client.APIKey)
	v.SetDefault("client.model", d.Client.Model)
	v.SetDefault("client.max_tokens", d.Client.MaxTokens)
	v.SetDefault("client.temperature", d.Client.Temperature)
	v.SetDefault("client.top_p", d.Client.TopP)
	v.SetDefault("client.presence_penalty", d.Client.PresencePenalty)
	v.SetDefault("client.timeout", d.Client.Timeout)

	// Render
	v.SetDefault("render.markdown", d.Render.Markdown)
	v.SetDefault("render.word_wrap", d.Render.WordWrap)

	// Replay
	v.SetDefault("replay.listen", d.Replay.Listen)
	v.SetDefault("replay.fragment_size", d.Replay.FragmentSize)
	v.SetDefault("replay.delay", d.Replay.Delay)
}
