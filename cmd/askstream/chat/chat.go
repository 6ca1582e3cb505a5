// Package chatcmder provides the chat command for interactive conversations
// with an OpenAI-compatible endpoint.
package chatcmder

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papercomputeco/askstream/pkg/ask"
	"github.com/papercomputeco/askstream/pkg/cliui"
	"github.com/papercomputeco/askstream/pkg/config"
	"github.com/papercomputeco/askstream/pkg/dotdir"
	"github.com/papercomputeco/askstream/pkg/llm"
	"github.com/papercomputeco/askstream/pkg/logger"
	"github.com/papercomputeco/askstream/pkg/utils"
)

const (
	cmdExit  = "/exit"
	cmdReset = "/reset"
)

type chatCommander struct {
	flags     config.Config
	resolved  *config.Config
	system    string
	resume    bool
	configDir string
	debug     bool
	logFile   string

	logger *slog.Logger
}

const chatLongDesc string = `Start an interactive chat session.

Each message is sent together with the conversation so far and the answer is
streamed back as it is decoded. After every answer the conversation is saved
to session.json in the .askstream/ directory; pass --resume to continue it.

Commands inside the session:
  /reset   Forget the conversation and start over
  /exit    Leave (Ctrl+D works too)

Examples:
  askstream chat
  askstream chat --resume
  askstream chat --endpoint http://localhost:11434 --model llama3.2`

const chatShortDesc string = "Interactive streaming chat"

func NewChatCmd() *cobra.Command {
	cmder := &chatCommander{}

	cmd := &cobra.Command{
		Use:   "chat",
		Short: chatShortDesc,
		Long:  chatLongDesc,
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Resolve(cmd, config.ClientFlags)
			if err != nil {
				return err
			}
			cmder.resolved = cfg
			cmder.configDir, _ = cmd.Flags().GetString("config-dir")
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %w", err)
			}
			cmder.logFile, _ = cmd.Flags().GetString("log-file")

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
			defer stop()

			return cmder.run(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	config.AddClientFlags(cmd, &cmder.flags)
	cmd.Flags().StringVar(&cmder.system, "system", "", "System prompt for a new conversation")
	cmd.Flags().BoolVarP(&cmder.resume, "resume", "r", false, "Resume the saved conversation")

	return cmd
}

func (c *chatCommander) run(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	var err error
	var closeLog func() error
	c.logger, closeLog, err = logger.ForCLI(c.debug, c.logFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	client, err := ask.New(ask.ConfigFromSettings(c.resolved.Client, c.logger))
	if err != nil {
		return fmt.Errorf("creating client: %w", err)
	}

	dotdirManager := dotdir.NewManager()
	sessionID, turns, err := c.initialTurns(dotdirManager)
	if err != nil {
		return err
	}
	session := ask.NewSession(client, turns...)

	fmt.Fprintln(out)
	if c.resume && len(turns) > 0 {
		fmt.Fprintf(out, "  %s Resuming %s %s\n",
			cliui.SuccessMark,
			cliui.NameStyle.Render(utils.Truncate(sessionID, 8)),
			cliui.DimStyle.Render(fmt.Sprintf("(%d messages)", len(turns))),
		)
	} else {
		fmt.Fprintf(out, "  %s New conversation\n", cliui.DimStyle.Render("●"))
	}

	fmt.Fprintf(out, "  %s %s\n", cliui.KeyStyle.Render("Model:"), cliui.NameStyle.Render(c.resolved.Client.Model))
	fmt.Fprintf(out, "  %s %s\n\n", cliui.KeyStyle.Render("Endpoint:"), cliui.DimStyle.Render(client.URL()))
	fmt.Fprintf(out, "  %s\n\n", cliui.DimStyle.Render("Type your message and press Enter. /reset to start over, /exit or Ctrl+D to quit."))

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for {
		fmt.Fprint(out, cliui.UserPrompt)
		if !scanner.Scan() {
			break
		}

		input := strings.TrimSpace(scanner.Text())
		switch input {
		case "":
			continue
		case cmdExit:
			fmt.Fprintln(out)
			return nil
		case cmdReset:
			session.Reset()
			sessionID = uuid.NewString()
			if err := dotdirManager.ClearSession(c.configDir); err != nil {
				c.logger.Warn("could not clear saved session", "error", err)
			}
			fmt.Fprintf(out, "  %s Conversation reset\n\n", cliui.SuccessMark)
			continue
		}

		// Interrupting an answer cancels only that request.
		askCtx, cancel := signal.NotifyContext(ctx, os.Interrupt)
		fmt.Fprint(out, cliui.AssistantPrompt)
		_, err := session.Ask(askCtx, input, func(delta string) {
			fmt.Fprint(out, delta)
		})
		cancel()
		fmt.Fprintln(out)

		if err != nil {
			fmt.Fprintf(errOut, "  %s %v\n\n", cliui.FailMark, err)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			continue
		}
		fmt.Fprintln(out)

		if err := c.save(dotdirManager, sessionID, session); err != nil {
			c.logger.Warn("could not save session", "error", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	fmt.Fprintln(out)
	return nil
}

// initialTurns returns the saved conversation when resuming, otherwise a
// fresh one seeded with the system prompt.
func (c *chatCommander) initialTurns(m *dotdir.Manager) (string, []ask.Turn, error) {
	if c.resume {
		state, err := m.LoadSession(c.configDir)
		if err != nil {
			return "", nil, fmt.Errorf("loading session: %w", err)
		}
		if state != nil {
			return state.ID, turnsFromState(state), nil
		}
	}

	var turns []ask.Turn
	if c.system != "" {
		turns = append(turns, ask.Turn{ID: uuid.New(), Role: llm.RoleSystem, Content: c.system})
	}
	return uuid.NewString(), turns, nil
}

func (c *chatCommander) save(m *dotdir.Manager, id string, session *ask.Session) error {
	turns := session.Turns()
	state := &dotdir.SessionState{
		ID:    id,
		Turns: make([]dotdir.SessionTurn, 0, len(turns)),
	}
	for _, t := range turns {
		state.Turns = append(state.Turns, dotdir.SessionTurn{
			ID:      t.ID.String(),
			Role:    t.Role,
			Content: t.Content,
		})
	}

	c.logger.Debug("saving session", "id", id, "turns", len(turns))
	return m.SaveSession(state, c.configDir)
}

func turnsFromState(state *dotdir.SessionState) []ask.Turn {
	turns := make([]ask.Turn, 0, len(state.Turns))
	for _, t := range state.Turns {
		id, err := uuid.Parse(t.ID)
		if err != nil {
			id = uuid.New()
		}
		turns = append(turns, ask.Turn{ID: id, Role: t.Role, Content: t.Content})
	}
	return turns
}
