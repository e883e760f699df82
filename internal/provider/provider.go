// Package provider holds the catalog of language-model providers and the
// registry that tracks which of them are usable and which one is active.
//
// A provider is available only when its credential is present in the
// environment. The registry is an ordinary value: callers construct it,
// initialize it from credentials and pass it to whatever needs it.
package provider

import (
	"fmt"
	"regexp"
	"strings"
)

// ID identifies a provider ("openai", "gemini", ...).
type ID string

// Protocol names the wire protocol a backend speaks.
type Protocol string

const (
	// ProtocolOpenAI is the Chat Completions API, spoken by OpenAI and by
	// the OpenAI-compatible endpoints of Copilot, Groq, Cohere and Mistral.
	ProtocolOpenAI Protocol = "openai"
	ProtocolGemini Protocol = "gemini"
	ProtocolClaude Protocol = "claude"
	// ProtocolOllama is a self-hosted Ollama or llama.cpp server.
	ProtocolOllama Protocol = "ollama"
)

// Model describes one model offered by a provider.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default,omitempty"`
}

// Descriptor is the static description of a provider. Descriptors are not
// modified after the catalog is built.
type Descriptor struct {
	ID          ID       `json:"id"`
	DisplayName string   `json:"name"`
	Protocol    Protocol `json:"protocol"`
	Models      []Model  `json:"models"`

	// CredentialEnv is the environment variable whose presence makes the
	// provider available.
	CredentialEnv string `json:"credential_env"`

	// APIKeyPattern validates the shape of a credential. Nil accepts anything.
	APIKeyPattern *regexp.Regexp `json:"-"`

	// BaseURL overrides the SDK's default endpoint.
	BaseURL string `json:"base_url,omitempty"`

	// FallbackModel, when set, is retried once after the resolved model fails.
	FallbackModel string `json:"fallback_model,omitempty"`

	DocsURL string `json:"docs_url,omitempty"`
}

// DefaultModel returns the model marked default, else the first listed.
func (d Descriptor) DefaultModel() string {
	for _, m := range d.Models {
		if m.Default {
			return m.ID
		}
	}
	if len(d.Models) > 0 {
		return d.Models[0].ID
	}
	return ""
}

// HasModel reports whether id is one of the listed models.
func (d Descriptor) HasModel(id string) bool {
	for _, m := range d.Models {
		if m.ID == id {
			return true
		}
	}
	return false
}

// ValidateAPIKey checks key against the descriptor's pattern.
func (d Descriptor) ValidateAPIKey(key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%s: api key is empty", d.ID)
	}
	if d.APIKeyPattern != nil && !d.APIKeyPattern.MatchString(key) {
		return fmt.Errorf("%s: api key does not match the expected format", d.ID)
	}
	return nil
}

var aliases = map[string]ID{
	"anthropic": Claude,
	"google":    Gemini,
	"github":    Copilot,
	"mistralai": Mistral,
	"local":     Ollama,
}

// NormalizeID lowercases and trims name and resolves common aliases.
func NormalizeID(name string) ID {
	n := strings.ToLower(strings.TrimSpace(name))
	if id, ok := aliases[n]; ok {
		return id
	}
	return ID(n)
}
