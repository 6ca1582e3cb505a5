// Package replay provides a local OpenAI-compatible streaming endpoint that
// replays a fixed answer as Server-Sent Events. It exists to exercise the
// decoder and client against a real socket without network access, with
// control over how the byte stream is fragmented.
package replay

import (
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/papercomputeco/askstream/pkg/llm"
	"github.com/papercomputeco/askstream/pkg/logger"
)

// Server streams canned chat completions.
type Server struct {
	config Config
	app    *fiber.App
	logger *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

// New creates a new Server.
func New(config Config, log *slog.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New())

	s := &Server{
		config: config,
		app:    app,
		logger: log,
	}

	app.Post(llm.ChatCompletionsPath, s.handleChat)
	app.Get("/healthz", s.handleHealth)

	return s
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting replay server", "listen", s.config.Listen)
	return s.app.Listen(s.config.Listen)
}

// RunWithListener starts the server using the provided listener.
func (s *Server) RunWithListener(listener net.Listener) error {
	s.logger.Info("starting replay server", "listen", listener.Addr().String())
	return s.app.Listener(listener)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleChat(c *fiber.Ctx) error {
	var req llm.ChatRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(errorResponse{Error: "invalid request body"})
	}

	answer := s.config.Answer
	if answer == "" {
		answer = lastUserMessage(req.Messages)
	}
	model := req.Model
	if model == "" {
		model = s.config.Model
	}

	frames := buildFrames(s.config, answer, model, time.Now().Unix())

	s.logger.Debug("replaying answer",
		"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
		"model", model,
		"bytes", len(frames),
		"fragment_size", s.config.FragmentSize,
	)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")

	// pw.Write blocks until fasthttp has consumed the previous piece, so each
	// fragment goes out as its own chunk.
	pr, pw := io.Pipe()
	go s.writeFragments(pw, frames)
	c.Context().Response.SetBodyStream(pr, -1)

	return nil
}

func (s *Server) writeFragments(pw *io.PipeWriter, frames []byte) {
	defer pw.Close()

	for i, frag := range fragments(frames, s.config.FragmentSize) {
		if i > 0 && s.config.Delay > 0 {
			time.Sleep(s.config.Delay)
		}
		if _, err := pw.Write(frag); err != nil {
			s.logger.Debug("client went away", "error", err)
			return
		}
	}
}

func lastUserMessage(messages []llm.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == llm.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}
