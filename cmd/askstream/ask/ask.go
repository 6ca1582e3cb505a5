// Package askcmder provides the ask command for one-shot questions.
package askcmder

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/askstream/pkg/ask"
	"github.com/papercomputeco/askstream/pkg/cliui"
	"github.com/papercomputeco/askstream/pkg/config"
	"github.com/papercomputeco/askstream/pkg/llm"
	"github.com/papercomputeco/askstream/pkg/logger"
)

type askCommander struct {
	flags    config.Config
	resolved *config.Config
	system   string
	debug    bool
	logFile  string
}

const askLongDesc string = `Ask a single question and stream the answer to stdout.

Text is printed as each event of the response stream is decoded. When stdout
is a terminal and render.markdown is enabled, the finished answer is rendered
as markdown below the streamed text.

Endpoint, model and sampling settings come from flags, ASKSTREAM_* environment
variables, config.toml, and built-in defaults, in that order.

Examples:
  askstream ask "What is an event stream?"
  askstream ask --model gpt-4o-mini --temperature 0 explain io.Pipe
  ASKSTREAM_CLIENT_API_KEY=sk-... askstream ask hello`

const askShortDesc string = "Ask a single question"

func NewAskCmd() *cobra.Command {
	cmder := &askCommander{}

	cmd := &cobra.Command{
		Use:   "ask <question...>",
		Short: askShortDesc,
		Long:  askLongDesc,
		Args:  cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(cmd, config.ClientFlags)
			if err != nil {
				return err
			}
			cmder.resolved = cfg
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.logFile, _ = cmd.Flags().GetString("log-file")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return cmder.run(ctx, cmd.OutOrStdout(), strings.Join(args, " "))
		},
	}

	config.AddClientFlags(cmd, &cmder.flags)
	cmd.Flags().StringVar(&cmder.system, "system", "", "System prompt sent before the question")

	return cmd
}

func (c *askCommander) run(ctx context.Context, out io.Writer, question string) error {
	log, closeLog, err := logger.ForCLI(c.debug, c.logFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	client, err := ask.New(ask.ConfigFromSettings(c.resolved.Client, log))
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	var messages []llm.Message
	if c.system != "" {
		messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: c.system})
	}
	messages = append(messages, llm.NewUserMessage(question))

	render := c.resolved.Render.Markdown && cliui.IsTerminal(out)

	start := time.Now()
	answer, err := client.Ask(ctx, messages, func(delta string) {
		if render {
			delta = cliui.DimStyle.Render(delta)
		}
		fmt.Fprint(out, delta)
	})
	fmt.Fprintln(out)
	if err != nil {
		return err
	}

	log.Debug("answer complete",
		"chars", len(answer),
		"duration", cliui.FormatDuration(time.Since(start)),
	)

	if render && answer != "" {
		rendered, err := cliui.RenderMarkdown(answer, c.resolved.Render.WordWrap)
		if err != nil {
			log.Debug("markdown rendering failed", "error", err)
			return nil
		}
		fmt.Fprint(out, rendered)
	}

	return nil
}
