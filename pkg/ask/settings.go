package ask

import (
	"log/slog"

	"github.com/papercomputeco/askstream/pkg/config"
)

// ConfigFromSettings maps the persisted client settings onto a Config.
func ConfigFromSettings(s config.ClientConfig, log *slog.Logger) Config {
	return Config{
		Endpoint:        s.Endpoint,
		APIKey:          s.APIKey,
		Model:           s.Model,
		MaxTokens:       s.MaxTokens,
		Temperature:     s.Temperature,
		TopP:            s.TopP,
		PresencePenalty: s.PresencePenalty,
		Timeout:         s.Timeout,
		Logger:          log,
	}
}
