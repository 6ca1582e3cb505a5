// Package initcmder provides the init command for initializing a local
// .askstream directory in the current working directory.
package initcmder

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/askstream/pkg/config"
)

const (
	dirName = ".askstream"

	// maxRemoteConfig bounds the size of a config fetched with --preset <url>.
	maxRemoteConfig = 1 << 20

	remoteTimeout = 30 * time.Second
)

const initLongDesc string = `Initialize a new .askstream/ directory in the current working directory.

Creates a local .askstream/ directory that takes precedence over the default
~/.askstream/ directory for configuration and saved chat sessions.

With --preset a config.toml is written as well. The preset is either a
built-in name (openai, ollama, replay) or an http(s) URL serving a
config.toml. Re-running init with a preset overwrites the existing
config.toml; other files are left alone.

Examples:
  askstream init
  askstream init --preset ollama
  askstream init --preset https://example.com/askstream/config.toml`

const initShortDesc string = "Initialize a local .askstream/ directory"

type initCommander struct {
	preset string
}

func NewInitCmd() *cobra.Command {
	cmder := &initCommander{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: initShortDesc,
		Long:  initLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmder.run(cmd.Context(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&cmder.preset, "preset", "",
		fmt.Sprintf("Write a config.toml from a preset (%s) or a URL", strings.Join(config.ValidPresetNames(), ", ")))

	return cmd
}

func (c *initCommander) run(ctx context.Context, out io.Writer) error {
	// Resolve the preset first so a bad name or URL leaves nothing behind.
	var cfg *config.Config
	if c.preset != "" {
		var err error
		cfg, err = c.presetConfig(ctx)
		if err != nil {
			return err
		}
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		fmt.Fprintf(out, "Already initialized: %s\n", dir)
	} else {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating .askstream directory: %w", err)
		}
		fmt.Fprintf(out, "Initialized .askstream directory: %s\n", dir)
	}

	if cfg == nil {
		return nil
	}

	cfger, err := config.NewConfiger(dir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfger.SaveConfig(cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "Wrote %s preset to %s\n", c.preset, cfger.GetTarget())
	return nil
}

func (c *initCommander) presetConfig(ctx context.Context) (*config.Config, error) {
	if !strings.HasPrefix(c.preset, "http://") && !strings.HasPrefix(c.preset, "https://") {
		return config.PresetConfig(c.preset)
	}

	data, err := fetchRemoteConfig(ctx, c.preset)
	if err != nil {
		return nil, fmt.Errorf("fetching remote config: %w", err)
	}

	cfg, err := config.ParseConfigTOML(data)
	if err != nil {
		return nil, fmt.Errorf("parsing remote config: %w", err)
	}
	return cfg, nil
}

func fetchRemoteConfig(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, remoteTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, maxRemoteConfig))
}
