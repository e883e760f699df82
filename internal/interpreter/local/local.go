// Package local implements the Interpreter interface for self-hosted models.
//
// It speaks both Ollama's native /api/generate endpoint and any
// OpenAI-compatible /v1/chat/completions server (Ollama, vLLM, llama.cpp
// server). The flavor is chosen from the endpoint path.
package local

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/nadzzz/devicely/internal/interpreter"
	"github.com/nadzzz/devicely/internal/provider"
)

const (
	chatPath     = "/v1/chat/completions"
	generatePath = "/api/generate"
)

// Interpreter sends prompts to a self-hosted LLM server.
type Interpreter struct {
	endpoint string
	client   *http.Client
}

// New creates a local interpreter. The credential for a self-hosted
// provider is its host URL (OLLAMA_HOST); a bare host gets the chat
// completions path appended.
func New(d provider.Descriptor, cfg interpreter.Config) (*Interpreter, error) {
	endpoint := cfg.BaseURL
	if endpoint == "" && strings.Contains(cfg.Credential, "://") {
		endpoint = cfg.Credential
	}
	if endpoint == "" {
		endpoint = d.BaseURL
	}
	if endpoint == "" {
		return nil, fmt.Errorf("%s: no endpoint configured", d.ID)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid endpoint %q: %w", d.ID, endpoint, err)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = chatPath
	}

	return &Interpreter{
		endpoint: u.String(),
		client:   &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Build adapts New to interpreter.Builder.
func Build(d provider.Descriptor, cfg interpreter.Config) (interpreter.Interpreter, error) {
	return New(d, cfg)
}

// Name returns the provider identifier.
func (i *Interpreter) Name() string { return string(provider.Ollama) }

// Endpoint returns the resolved URL requests are sent to.
func (i *Interpreter) Endpoint() string { return i.endpoint }

// Complete sends the prompt to the local LLM endpoint.
func (i *Interpreter) Complete(ctx context.Context, systemPrompt, userText string, opts interpreter.Options) (string, error) {
	var reqBody map[string]any
	if strings.HasSuffix(i.endpoint, generatePath) {
		reqBody = map[string]any{
			"model":  opts.Model,
			"system": systemPrompt,
			"prompt": userText,
			"stream": false,
			"options": map[string]any{
				"temperature": opts.Temperature,
				"num_predict": opts.MaxOutputTokens,
			},
		}
	} else {
		reqBody = map[string]any{
			"model": opts.Model,
			"messages": []map[string]string{
				{"role": "system", "content": systemPrompt},
				{"role": "user", "content": userText},
			},
			"temperature": opts.Temperature,
			"max_tokens":  opts.MaxOutputTokens,
			"stream":      false,
		}
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshalling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, i.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := i.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("local LLM request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", &interpreter.StatusError{Backend: "ollama", StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	respData, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("reading LLM response: %w", err)
	}

	content := strings.TrimSpace(extractContent(respData))
	if content == "" {
		return "", fmt.Errorf("local LLM: %w", interpreter.ErrEmptyReply)
	}

	slog.Debug("local completion done", "model", opts.Model, "reply_length", len(content))
	return content, nil
}

// Close releases idle connections.
func (i *Interpreter) Close() error {
	i.client.CloseIdleConnections()
	return nil
}

func extractContent(data []byte) string {
	// OpenAI-compatible: {"choices": [{"message": {"content": "..."}}]}
	var chatResp struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(data, &chatResp); err == nil && len(chatResp.Choices) > 0 {
		return chatResp.Choices[0].Message.Content
	}

	// Ollama: {"response": "..."}
	var ollamaResp struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(data, &ollamaResp); err == nil && ollamaResp.Response != "" {
		return ollamaResp.Response
	}

	return ""
}
