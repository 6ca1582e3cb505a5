// Package decodecmder provides the decode command, which runs a raw
// text/event-stream through the decoder and prints each parsed value as a
// JSON line.
package decodecmder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papercomputeco/askstream/pkg/logger"
	"github.com/papercomputeco/askstream/pkg/sse"
)

type decodeCommander struct {
	readSize int
	strict   bool
	debug    bool
	logFile  string

	logger *slog.Logger
}

// eventRecord and retryRecord are the JSON lines written per parsed value.
// Event type and id are written as null when the block set none.
type eventRecord struct {
	Type  string  `json:"type"`
	Event *string `json:"event"`
	ID    *string `json:"id"`
	Data  string  `json:"data"`
}

type retryRecord struct {
	Type  string  `json:"type"`
	Value float64 `json:"value"`
}

const decodeLongDesc string = `Decode a raw event stream into JSON lines.

Reads a text/event-stream from the given file, or stdin when no file or "-"
is given, and prints one JSON object per parsed value:

  {"type":"event","event":null,"id":null,"data":"..."}
  {"type":"retry","value":3000}

Comments, blank lines and unknown fields produce nothing. Lines without a
colon are dropped; with --strict the command fails after decoding if any
were seen.

Examples:
  curl -sN https://example.com/stream | askstream decode
  askstream decode capture.txt --strict`

const decodeShortDesc string = "Decode an event stream into JSON lines"

func NewDecodeCmd() *cobra.Command {
	cmder := &decodeCommander{}

	cmd := &cobra.Command{
		Use:   "decode [file]",
		Short: decodeShortDesc,
		Long:  decodeLongDesc,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmder.debug, _ = cmd.Flags().GetBool("debug")
			cmder.logFile, _ = cmd.Flags().GetString("log-file")

			src := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening stream: %w", err)
				}
				defer f.Close()
				src = f
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return cmder.run(ctx, src, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVar(&cmder.readSize, "read-size", 32*1024, "Bytes requested per read from the source")
	cmd.Flags().BoolVar(&cmder.strict, "strict", false, "Fail if any line without a colon was dropped")

	return cmd
}

func (c *decodeCommander) run(ctx context.Context, src io.Reader, out io.Writer) error {
	var err error
	var closeLog func() error
	c.logger, closeLog, err = logger.ForCLI(c.debug, c.logFile)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)

	var (
		malformed int
		writeErr  error
	)

	emit := func(p sse.Parsed) {
		if writeErr != nil {
			return
		}
		writeErr = c.write(enc, p)
	}

	err = sse.Decode(ctx, src, emit,
		sse.WithLogger(c.logger),
		sse.WithReadSize(c.readSize),
		sse.WithMalformedHandler(func(line string) {
			malformed++
			c.logger.Warn("dropped line without a colon", "line", line)
		}),
	)
	if err != nil {
		return err
	}
	if writeErr != nil {
		return fmt.Errorf("writing output: %w", writeErr)
	}

	if c.strict && malformed > 0 {
		return fmt.Errorf("dropped %d malformed line(s)", malformed)
	}
	return nil
}

func (c *decodeCommander) write(enc *json.Encoder, p sse.Parsed) error {
	switch v := p.(type) {
	case sse.Event:
		return enc.Encode(eventRecord{Type: "event", Event: v.Type, ID: v.ID, Data: v.Data})
	case sse.Retry:
		if math.IsInf(v.Value, 0) {
			// JSON has no representation for infinities.
			c.logger.Warn("skipping infinite retry value")
			return nil
		}
		return enc.Encode(retryRecord{Type: "retry", Value: v.Value})
	}
	return nil
}
