// Package interpreter defines the boundary between devicely and the
// language-model backends that turn a prompt into a raw command reply.
//
// Every backend implements the same Interpreter contract regardless of the
// wire protocol it speaks. Devicely ships with four implementations:
// OpenAI-compatible chat (OpenAI, Copilot, Groq, Cohere, Mistral), Gemini,
// Claude and a self-hosted Ollama endpoint. Backends are built lazily by a
// Factory from provider descriptors.
package interpreter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nadzzz/devicely/internal/provider"
)

// Generation defaults. Low temperature keeps replies terse and repeatable.
const (
	DefaultTemperature     = 0.3
	DefaultMaxOutputTokens = 500
)

// ErrEmptyReply is returned when a backend answers with no text.
var ErrEmptyReply = errors.New("empty reply from model")

// Options controls a single completion.
type Options struct {
	Model           string
	Temperature     float64
	MaxOutputTokens int
}

// Interpreter is a language-model backend.
type Interpreter interface {
	// Name returns the provider identifier (e.g., "openai", "gemini").
	Name() string

	// Complete sends systemPrompt and userText to the model and returns
	// the raw reply text.
	Complete(ctx context.Context, systemPrompt, userText string, opts Options) (string, error)

	// Close releases any resources held by the backend.
	Close() error
}

// Config is what a Builder needs to construct a backend.
type Config struct {
	// Credential is the API key, token or, for self-hosted backends, the
	// endpoint URL.
	Credential string
	// BaseURL overrides the descriptor's endpoint when set.
	BaseURL string
	Timeout time.Duration
}

// Endpoint returns cfg.BaseURL, or d.BaseURL when no override is set.
func (cfg Config) Endpoint(d provider.Descriptor) string {
	if cfg.BaseURL != "" {
		return cfg.BaseURL
	}
	return d.BaseURL
}

// StatusError is an HTTP-level failure reported by a provider API.
type StatusError struct {
	Backend    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Backend, e.StatusCode, e.Body)
}
