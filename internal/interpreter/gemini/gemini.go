// Package gemini implements the Interpreter interface over the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/nadzzz/devicely/internal/interpreter"
	"github.com/nadzzz/devicely/internal/provider"
)

// Interpreter sends prompts to Gemini through the genai SDK.
type Interpreter struct {
	client *genai.Client
}

// New creates a Gemini interpreter.
func New(ctx context.Context, d provider.Descriptor, cfg interpreter.Config) (*Interpreter, error) {
	if cfg.Credential == "" {
		return nil, fmt.Errorf("%s: credential is required", d.ID)
	}

	cc := &genai.ClientConfig{
		APIKey:  cfg.Credential,
		Backend: genai.BackendGeminiAPI,
	}
	if base := cfg.Endpoint(d); base != "" {
		cc.HTTPOptions.BaseURL = base
	}
	if cfg.Timeout > 0 {
		timeout := cfg.Timeout
		cc.HTTPOptions.Timeout = &timeout
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Interpreter{client: client}, nil
}

// Build adapts New to interpreter.Builder.
func Build(d provider.Descriptor, cfg interpreter.Config) (interpreter.Interpreter, error) {
	return New(context.Background(), d, cfg)
}

// Name returns the provider identifier.
func (i *Interpreter) Name() string { return string(provider.Gemini) }

// Complete sends a single-turn request. The assembled prompt already
// carries the user text, so it is sent alone as the content; userText is
// used only when no prompt is given.
func (i *Interpreter) Complete(ctx context.Context, systemPrompt, userText string, opts interpreter.Options) (string, error) {
	content := systemPrompt
	if strings.TrimSpace(content) == "" {
		content = userText
	}

	gc := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(opts.Temperature)),
	}
	if opts.MaxOutputTokens > 0 {
		gc.MaxOutputTokens = int32(opts.MaxOutputTokens)
	}

	resp, err := i.client.Models.GenerateContent(ctx, opts.Model, genai.Text(content), gc)
	if err != nil {
		return "", fmt.Errorf("gemini generate content (%s): %w", opts.Model, err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini (%s): %w", opts.Model, interpreter.ErrEmptyReply)
	}

	slog.Debug("gemini generation done", "model", opts.Model, "reply_length", len(text))
	return text, nil
}

// Close is a no-op.
func (i *Interpreter) Close() error { return nil }
