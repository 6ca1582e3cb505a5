package config

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Resolve builds the effective Config for cmd. The registry flags named in
// registryKeys are bound on top of env, config.toml and defaults, so a flag
// the user actually passed always wins.
func Resolve(cmd *cobra.Command, registryKeys []string) (*Config, error) {
	configDir, _ := cmd.Flags().GetString("config-dir")

	v, err := InitViper(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	BindRegisteredFlags(v, cmd, Flags, registryKeys)
	return FromViper(v), nil
}
