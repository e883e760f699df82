// Package claude implements the Interpreter interface over Anthropic's
// Messages API.
package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/nadzzz/devicely/internal/interpreter"
	"github.com/nadzzz/devicely/internal/provider"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1"
	apiVersion     = "2023-06-01"
)

// Interpreter sends prompts to the Claude Messages API.
type Interpreter struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

// New creates a Claude interpreter.
func New(d provider.Descriptor, cfg interpreter.Config) (*Interpreter, error) {
	if cfg.Credential == "" {
		return nil, fmt.Errorf("%s: credential is required", d.ID)
	}
	base := cfg.Endpoint(d)
	if base == "" {
		base = defaultBaseURL
	}
	return &Interpreter{
		apiKey:   cfg.Credential,
		endpoint: strings.TrimSuffix(base, "/") + "/messages",
		client:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Build adapts New to interpreter.Builder.
func Build(d provider.Descriptor, cfg interpreter.Config) (interpreter.Interpreter, error) {
	return New(d, cfg)
}

// Name returns the provider identifier.
func (i *Interpreter) Name() string { return string(provider.Claude) }

type messagesRequest struct {
	Model       string    `json:"model"`
	System      string    `json:"system,omitempty"`
	Messages    []message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the prompt as the system field and the user text as the
// single user message.
func (i *Interpreter) Complete(ctx context.Context, systemPrompt, userText string, opts interpreter.Options) (string, error) {
	maxTokens := opts.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = interpreter.DefaultMaxOutputTokens
	}

	body, err := json.Marshal(messagesRequest{
		Model:       opts.Model,
		System:      systemPrompt,
		Messages:    []message{{Role: "user", Content: userText}},
		MaxTokens:   maxTokens,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshalling claude request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating claude request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", i.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := i.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("claude request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading claude response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := string(respBody)
		var er errorResponse
		if err := json.Unmarshal(respBody, &er); err == nil && er.Error.Message != "" {
			msg = er.Error.Type + ": " + er.Error.Message
		}
		return "", &interpreter.StatusError{Backend: "claude", StatusCode: resp.StatusCode, Body: msg}
	}

	var mr messagesResponse
	if err := json.Unmarshal(respBody, &mr); err != nil {
		return "", fmt.Errorf("decoding claude response: %w", err)
	}

	var sb strings.Builder
	for _, c := range mr.Content {
		if c.Type == "text" {
			sb.WriteString(c.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", fmt.Errorf("claude (%s): %w", opts.Model, interpreter.ErrEmptyReply)
	}

	slog.Debug("claude message done", "model", opts.Model, "stop_reason", mr.StopReason, "reply_length", len(text))
	return text, nil
}

// Close releases idle connections.
func (i *Interpreter) Close() error {
	i.client.CloseIdleConnections()
	return nil
}
