// Package openai implements the Interpreter interface over the Chat
// Completions API.
//
// The same backend serves every provider that exposes an OpenAI-compatible
// endpoint: OpenAI itself, GitHub Copilot, Groq, Cohere and Mistral differ
// only in base URL and credential.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/nadzzz/devicely/internal/interpreter"
	"github.com/nadzzz/devicely/internal/provider"
)

// Interpreter sends prompts to an OpenAI-compatible chat endpoint.
type Interpreter struct {
	name   string
	client openai.Client
}

// New creates an interpreter for the provider d.
func New(d provider.Descriptor, cfg interpreter.Config) (*Interpreter, error) {
	if cfg.Credential == "" {
		return nil, fmt.Errorf("%s: credential is required", d.ID)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.Credential),
		// Retries are the caller's concern.
		option.WithMaxRetries(0),
	}
	if base := cfg.Endpoint(d); base != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(base, "/")+"/"))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &Interpreter{
		name:   string(d.ID),
		client: openai.NewClient(opts...),
	}, nil
}

// Build adapts New to interpreter.Builder.
func Build(d provider.Descriptor, cfg interpreter.Config) (interpreter.Interpreter, error) {
	return New(d, cfg)
}

// Name returns the provider identifier.
func (i *Interpreter) Name() string { return i.name }

// Complete sends the system prompt and user text as a two-message chat.
func (i *Interpreter) Complete(ctx context.Context, systemPrompt, userText string, opts interpreter.Options) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(opts.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userText),
		},
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxOutputTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxOutputTokens))
	}

	resp, err := i.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("%s chat completion: %w", i.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w", i.name, interpreter.ErrEmptyReply)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("%s: %w", i.name, interpreter.ErrEmptyReply)
	}

	slog.Debug("chat completion done", "provider", i.name, "model", opts.Model, "reply_length", len(content))
	return content, nil
}

// Close is a no-op; the SDK client holds no resources.
func (i *Interpreter) Close() error { return nil }
