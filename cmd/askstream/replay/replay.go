// Package replaycmder provides the replay server command.
package replaycmder

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/askstream/pkg/config"
	"github.com/papercomputeco/askstream/pkg/logger"
	"github.com/papercomputeco/askstream/pkg/replay"
)

// ReplayFlags are the registry flags the replay command binds.
var ReplayFlags = []string{
	config.FlagReplayListen,
	config.FlagFragmentSize,
	config.FlagDelay,
}

type replayCommander struct {
	flags     config.Config
	resolved  *config.Config
	answer    string
	model     string
	retry     int
	keepAlive bool
	debug     bool
	logFile   string
}

const replayLongDesc string = `Run a local OpenAI-compatible streaming endpoint.

Every POST to /v1/chat/completions is answered with a stream of
chat.completion.chunk events carrying --answer word by word, followed by
"data: [DONE]". Without --answer the last user message is echoed back.

The stream is written --fragment-size bytes at a time with --delay between
writes, so lines, events and multi-byte characters arrive split across
reads. Point "askstream ask" or "askstream chat" at it to exercise the
decoder without network access.

Examples:
  askstream replay --answer "hello from replay"
  askstream replay --fragment-size 1 --delay 5ms --retry 3000
  askstream ask --endpoint http://localhost:8089 ping`

const replayShortDesc string = "Run a local streaming endpoint for testing"

func NewReplayCmd() *cobra.Command {
	return newReplayCmd(&replayCommander{})
}

func newReplayCmd(cmder *replayCommander) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: replayShortDesc,
		Long:  replayLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(cmd, ReplayFlags)
			if err != nil {
				return err
			}
			cmder.resolved = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.logFile, _ = cmd.Flags().GetString("log-file")

			return cmder.run()
		},
	}

	config.AddStringFlag(cmd, config.Flags, config.FlagReplayListen, &cmder.flags.Replay.Listen)
	config.AddIntFlag(cmd, config.Flags, config.FlagFragmentSize, &cmder.flags.Replay.FragmentSize)
	config.AddDurationFlag(cmd, config.Flags, config.FlagDelay, &cmder.flags.Replay.Delay)
	cmd.Flags().StringVar(&cmder.answer, "answer", "", "Answer to stream (default: echo the last user message)")
	cmd.Flags().StringVar(&cmder.model, "model", "replay", "Model name reported when the request names none")
	cmd.Flags().IntVar(&cmder.retry, "retry", 0, "Send a retry directive with this many milliseconds first")
	cmd.Flags().BoolVar(&cmder.keepAlive, "keep-alive", false, "Send a keep-alive comment first")

	return cmd
}

func (c *replayCommander) run() error {
	log, closeLog, err := logger.ForCLI(c.debug, c.logFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	server := replay.New(c.serverConfig(), log)

	// Channel to capture errors from the server goroutine
	errChan := make(chan error, 1)

	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("replay server error: %w", err)
		}
	}()

	// Wait for interrupt signal or error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig.String())
		return server.Shutdown()
	}
}

func (c *replayCommander) serverConfig() replay.Config {
	return replay.Config{
		Listen:       c.resolved.Replay.Listen,
		Answer:       c.answer,
		Model:        c.model,
		FragmentSize: c.resolved.Replay.FragmentSize,
		Delay:        c.resolved.Replay.Delay,
		Retry:        c.retry,
		KeepAlive:    c.keepAlive,
	}
}
