package config

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Flag is the single source of truth for a CLI flag.
// Commands reference flags by registry key rather than hard-coding names,
// shorthands, defaults, and descriptions inline. This prevents flag drift
// when the same logical flag appears on multiple commands (e.g., --model
// on both "askstream ask" and "askstream chat").
type Flag struct {
	// Name is the long flag name (e.g. "endpoint").
	Name string

	// Shorthand is the one-letter short flag (e.g. "e"). Empty for no shorthand.
	Shorthand string

	// ViperKey is the dotted config key this flag maps to (e.g. "client.endpoint").
	ViperKey string

	// Description is the help text shown in --help output.
	Description string
}

// FlagSet is a mapping of flag names to Flag structs that hold their name,
// shorthand, viper key, etc.
type FlagSet map[string]Flag

// Flag registry keys.
// Use these constants when calling the Add*Flag helpers and
// BindRegisteredFlags to avoid typos or drift from one command to another.
const (
	FlagEndpoint        = "endpoint"
	FlagAPIKey          = "api-key"
	FlagModel           = "model"
	FlagMaxTokens       = "max-tokens"
	FlagTemperature     = "temperature"
	FlagTopP            = "top-p"
	FlagPresencePenalty = "presence-penalty"
	FlagTimeout         = "timeout"
	FlagMarkdown        = "markdown"
	FlagWordWrap        = "word-wrap"
	FlagReplayListen    = "listen"
	FlagFragmentSize    = "fragment-size"
	FlagDelay           = "delay"
)

// ClientFlags are the flags shared by every command that talks to an endpoint.
var ClientFlags = []string{
	FlagEndpoint,
	FlagAPIKey,
	FlagModel,
	FlagMaxTokens,
	FlagTemperature,
	FlagTopP,
	FlagPresencePenalty,
	FlagTimeout,
	FlagMarkdown,
	FlagWordWrap,
}

// Flags is the registry of every askstream flag.
var Flags = FlagSet{
	FlagEndpoint: {
		Name:        "endpoint",
		Shorthand:   "e",
		ViperKey:    "client.endpoint",
		Description: "Base URL of the OpenAI-compatible API",
	},
	FlagAPIKey: {
		Name:        "api-key",
		ViperKey:    "client.api_key",
		Description: "API key sent as a bearer token",
	},
	FlagModel: {
		Name:        "model",
		Shorthand:   "m",
		ViperKey:    "client.model",
		Description: "Model name",
	},
	FlagMaxTokens: {
		Name:        "max-tokens",
		ViperKey:    "client.max_tokens",
		Description: "Maximum tokens to generate",
	},
	FlagTemperature: {
		Name:        "temperature",
		ViperKey:    "client.temperature",
		Description: "Sampling temperature",
	},
	FlagTopP: {
		Name:        "top-p",
		ViperKey:    "client.top_p",
		Description: "Nucleus sampling probability mass",
	},
	FlagPresencePenalty: {
		Name:        "presence-penalty",
		ViperKey:    "client.presence_penalty",
		Description: "Presence penalty",
	},
	FlagTimeout: {
		Name:        "timeout",
		ViperKey:    "client.timeout",
		Description: "Overall request timeout",
	},
	FlagMarkdown: {
		Name:        "markdown",
		ViperKey:    "render.markdown",
		Description: "Render the final answer as markdown when writing to a terminal",
	},
	FlagWordWrap: {
		Name:        "word-wrap",
		ViperKey:    "render.word_wrap",
		Description: "Column to wrap rendered markdown at",
	},
	FlagReplayListen: {
		Name:        "listen",
		Shorthand:   "l",
		ViperKey:    "replay.listen",
		Description: "Address for the replay server to listen on",
	},
	FlagFragmentSize: {
		Name:        "fragment-size",
		ViperKey:    "replay.fragment_size",
		Description: "Bytes per write when replaying a stream",
	},
	FlagDelay: {
		Name:        "delay",
		ViperKey:    "replay.delay",
		Description: "Pause between replayed writes",
	},
}

// AddStringFlag registers a string flag on cmd from the given FlagSet.
// The flag's name, shorthand, default, and description all come from the
// FlagSet entry so they cannot drift across commands.
func AddStringFlag(cmd *cobra.Command, fs FlagSet, key string, target *string) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetString(def.ViperKey)
	cmd.Flags().StringVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
}

// AddIntFlag registers an int flag on cmd from the given FlagSet.
func AddIntFlag(cmd *cobra.Command, fs FlagSet, key string, target *int) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetInt(def.ViperKey)
	cmd.Flags().IntVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
}

// AddFloatFlag registers a float64 flag on cmd from the given FlagSet.
func AddFloatFlag(cmd *cobra.Command, fs FlagSet, key string, target *float64) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetFloat64(def.ViperKey)
	cmd.Flags().Float64VarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
}

// AddBoolFlag registers a bool flag on cmd from the given FlagSet.
func AddBoolFlag(cmd *cobra.Command, fs FlagSet, key string, target *bool) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetBool(def.ViperKey)
	cmd.Flags().BoolVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
}

// AddDurationFlag registers a time.Duration flag on cmd from the given FlagSet.
func AddDurationFlag(cmd *cobra.Command, fs FlagSet, key string, target *time.Duration) {
	def, ok := fs[key]
	if !ok {
		return
	}

	defaultVal := defaults().GetDuration(def.ViperKey)
	cmd.Flags().DurationVarP(target, def.Name, def.Shorthand, defaultVal, def.Description)
}

// AddClientFlags registers every flag in ClientFlags on cmd, writing into cfg.
func AddClientFlags(cmd *cobra.Command, cfg *Config) {
	AddStringFlag(cmd, Flags, FlagEndpoint, &cfg.Client.Endpoint)
	AddStringFlag(cmd, Flags, FlagAPIKey, &cfg.Client.APIKey)
	AddStringFlag(cmd, Flags, FlagModel, &cfg.Client.Model)
	AddIntFlag(cmd, Flags, FlagMaxTokens, &cfg.Client.MaxTokens)
	AddFloatFlag(cmd, Flags, FlagTemperature, &cfg.Client.Temperature)
	AddFloatFlag(cmd, Flags, FlagTopP, &cfg.Client.TopP)
	AddFloatFlag(cmd, Flags, FlagPresencePenalty, &cfg.Client.PresencePenalty)
	AddDurationFlag(cmd, Flags, FlagTimeout, &cfg.Client.Timeout)
	AddBoolFlag(cmd, Flags, FlagMarkdown, &cfg.Render.Markdown)
	AddIntFlag(cmd, Flags, FlagWordWrap, &cfg.Render.WordWrap)
}

// BindRegisteredFlags binds already-registered flags to viper using definitions
// from the given FlagSet. Call this in PreRunE after InitViper to connect flags
// to the viper precedence chain (flag > env > config file > default).
func BindRegisteredFlags(v *viper.Viper, cmd *cobra.Command, fs FlagSet, registryKeys []string) {
	for _, registryKey := range registryKeys {
		def, ok := fs[registryKey]
		if !ok {
			continue
		}

		f := cmd.Flags().Lookup(def.Name)
		if f == nil {
			continue
		}

		_ = v.BindPFlag(def.ViperKey, f)
	}
}

// defaults returns a viper instance holding only NewDefaultConfig() values.
func defaults() *viper.Viper {
	v := viper.New()
	setViperDefaults(v)
	return v
}
