// Package ask streams answers from an OpenAI-compatible chat completion
// endpoint. The response body is decoded incrementally with pkg/sse so text
// deltas reach the caller as soon as each event is complete.
package ask

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/papercomputeco/askstream/pkg/llm"
	"github.com/papercomputeco/askstream/pkg/logger"
	"github.com/papercomputeco/askstream/pkg/sse"
	"github.com/papercomputeco/askstream/pkg/utils"
)

const (
	// RequestIDHeader carries a per-request uuid for correlating logs.
	RequestIDHeader = "X-Request-Id"

	// maxErrorBody bounds how much of a non-200 response body is kept.
	maxErrorBody = 64 * 1024

	defaultTimeout = 5 * time.Minute
)

// ErrNoEndpoint is returned by New when Config.Endpoint is empty.
var ErrNoEndpoint = errors.New("endpoint is required")

// Config configures a Client.
type Config struct {
	// Endpoint is the base URL of the API, e.g. "https://api.openai.com".
	Endpoint string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	Model           string
	MaxTokens       int
	Temperature     float64
	TopP            float64
	PresencePenalty float64

	// Timeout bounds a whole request including the streamed body.
	// Ignored when HTTPClient is set.
	Timeout time.Duration

	Logger     *slog.Logger
	HTTPClient *http.Client
}

// StatusError is returned when the endpoint answers with a non-200 status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("endpoint returned status %d", e.Code)
	}
	return fmt.Sprintf("endpoint returned status %d: %s", e.Code, utils.Truncate(body, 200))
}

// Client sends chat requests and streams the answers back.
type Client struct {
	config     Config
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// New validates cfg and returns a Client.
func New(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}

	u, err := url.Parse(strings.TrimRight(cfg.Endpoint, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint must be an http or https URL: %q", cfg.Endpoint)
	}
	u = u.JoinPath(llm.ChatCompletionsPath)

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Client{
		config:     cfg,
		url:        u.String(),
		httpClient: httpClient,
		logger:     log,
	}, nil
}

// URL returns the chat completion URL requests are sent to.
func (c *Client) URL() string {
	return c.url
}

// Ask sends messages and streams the answer. onDelta, if non-nil, receives
// each text fragment as it is decoded. The returned string is the full
// answer; when the stream fails part way it holds what arrived before the
// failure, alongside the error.
func (c *Client) Ask(ctx context.Context, messages []llm.Message, onDelta func(string)) (string, error) {
	body, err := json.Marshal(llm.ChatRequest{
		Model:           c.config.Model,
		Messages:        messages,
		Stream:          true,
		MaxTokens:       c.config.MaxTokens,
		Temperature:     c.config.Temperature,
		TopP:            c.config.TopP,
		PresencePenalty: c.config.PresencePenalty,
	})
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("User-Agent", utils.UserAgent())
	if c.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	}

	log := c.logger.With("request_id", requestID)
	log.Debug("sending chat request",
		"url", c.url,
		"model", c.config.Model,
		"message_count", len(messages),
	)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Debug("chat request rejected",
			"status", resp.StatusCode,
			"body", utils.Truncate(string(respBody), 200),
		)
		return "", &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	var answer strings.Builder
	events := 0
	for parsed, err := range sse.Stream(ctx, resp.Body, sse.WithLogger(log)) {
		if err != nil {
			return answer.String(), fmt.Errorf("streaming answer: %w", err)
		}

		switch p := parsed.(type) {
		case sse.Event:
			events++
			if p.Data == llm.DoneSentinel {
				log.Debug("chat stream done",
					"events", events,
					"duration", time.Since(start),
				)
				return answer.String(), nil
			}

			delta := llm.DeltaContent(p.Data)
			if delta == "" {
				continue
			}
			answer.WriteString(delta)
			if onDelta != nil {
				onDelta(delta)
			}
		case sse.Retry:
			// Reconnection is not attempted; the hint is only recorded.
			log.Debug("server sent retry hint", "retry_ms", p.Value)
		}
	}

	log.Debug("chat stream ended without done sentinel",
		"events", events,
		"duration", time.Since(start),
	)
	return answer.String(), nil
}
