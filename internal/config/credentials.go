package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/nadzzz/devicely/internal/provider"
)

// Credentials holds the provider secrets read from the environment.
// Secrets never go through the config file.
type Credentials struct {
	OpenAI  string `envconfig:"OPENAI_API_KEY"`
	Gemini  string `envconfig:"GEMINI_API_KEY"`
	Claude  string `envconfig:"CLAUDE_API_KEY"`
	Copilot string `envconfig:"GITHUB_TOKEN"`
	Groq    string `envconfig:"GROQ_API_KEY"`
	Cohere  string `envconfig:"COHERE_API_KEY"`
	Mistral string `envconfig:"MISTRAL_API_KEY"`
	Ollama  string `envconfig:"OLLAMA_HOST"`
}

// LoadCredentials reads provider secrets from the environment. The listed
// dotenv files (or ./.env and $HOME/.devicely/.env when none are given) are
// loaded first; variables already set in the process win over file values.
func LoadCredentials(envFiles ...string) (*Credentials, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
		if home, err := os.UserHomeDir(); err == nil {
			envFiles = append(envFiles, filepath.Join(home, ".devicely", ".env"))
		}
	}
	for _, f := range envFiles {
		// Missing files are fine.
		_ = godotenv.Load(f)
	}

	var c Credentials
	if err := envconfig.Process("", &c); err != nil {
		return nil, fmt.Errorf("processing credentials: %w", err)
	}
	return &c, nil
}

// ByProvider returns the credentials keyed by provider ID.
func (c *Credentials) ByProvider() provider.Credentials {
	return provider.Credentials{
		provider.OpenAI:  c.OpenAI,
		provider.Gemini:  c.Gemini,
		provider.Claude:  c.Claude,
		provider.Copilot: c.Copilot,
		provider.Groq:    c.Groq,
		provider.Cohere:  c.Cohere,
		provider.Mistral: c.Mistral,
		provider.Ollama:  c.Ollama,
	}
}

// For returns the credential for one provider.
func (c *Credentials) For(id provider.ID) string {
	return c.ByProvider()[id]
}
