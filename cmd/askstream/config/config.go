// Package configcmder provides the config command for managing persistent
// askstream configuration stored in the .askstream/ directory.
package configcmder

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/askstream/pkg/config"
)

const configLongDesc string = `Manage persistent askstream configuration.

Configuration is stored as config.toml in the .askstream/ directory and
provides default values for command flags. CLI flags and ASKSTREAM_*
environment variables always take precedence over config file values.

Keys use dotted notation matching the TOML section structure:
  client.endpoint, client.api_key, client.model, client.max_tokens,
  client.temperature, client.top_p, client.presence_penalty, client.timeout,
  render.markdown, render.word_wrap,
  replay.listen, replay.fragment_size, replay.delay

Use subcommands to get, set, or list configuration values:
  askstream config set <key> <value>    Set a configuration value
  askstream config get <key>            Get a configuration value
  askstream config list                 List all configuration values

Examples:
  askstream config set client.endpoint http://localhost:11434
  askstream config set client.temperature 0.2
  askstream config get client.model
  askstream config list`

const configShortDesc string = "Manage persistent askstream configuration"

const apiKeyConfigKey = "client.api_key"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}

func unknownKeyError(key string) error {
	return fmt.Errorf("unknown config key: %q\n\nValid keys: %s",
		key, strings.Join(config.ValidConfigKeys(), ", "))
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return config.ValidConfigKeys(), cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveNoFileComp
}

// redact hides all but the last four characters of secret values.
func redact(key, value string) string {
	if key != apiKeyConfigKey || value == "" {
		return value
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
