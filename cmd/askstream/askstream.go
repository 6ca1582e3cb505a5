// Package askstreamcmder is the root askstream command.
package askstreamcmder

import (
	"github.com/spf13/cobra"

	askcmder "github.com/papercomputeco/askstream/cmd/askstream/ask"
	chatcmder "github.com/papercomputeco/askstream/cmd/askstream/chat"
	configcmder "github.com/papercomputeco/askstream/cmd/askstream/config"
	decodecmder "github.com/papercomputeco/askstream/cmd/askstream/decode"
	initcmder "github.com/papercomputeco/askstream/cmd/askstream/init"
	replaycmder "github.com/papercomputeco/askstream/cmd/askstream/replay"
	versioncmder "github.com/papercomputeco/askstream/cmd/version"
	"github.com/papercomputeco/askstream/pkg/cliui"
)

const askstreamLongDesc string = `askstream streams answers from OpenAI-compatible chat completion APIs.

Responses are decoded incrementally as Server-Sent Events, so text appears
as soon as each event is complete no matter how the network splits the bytes.

Commands:
  askstream ask <question>     Ask a single question
  askstream chat               Start an interactive conversation
  askstream decode [file]      Decode a raw event stream into JSON lines
  askstream replay             Run a local streaming endpoint for testing
  askstream config             Manage persistent configuration
  askstream init               Initialize a local .askstream/ directory`

const askstreamShortDesc string = "askstream - streaming chat completions"

func NewAskstreamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "askstream",
		Short:        askstreamShortDesc,
		Long:         askstreamLongDesc,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cliui.ApplyColorEnv()
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Override path to the .askstream/ directory")
	cmd.PersistentFlags().String("log-file", "", "Also append JSON logs to this file")

	// Add subcommands
	cmd.AddCommand(askcmder.NewAskCmd())
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(decodecmder.NewDecodeCmd())
	cmd.AddCommand(replaycmder.NewReplayCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
