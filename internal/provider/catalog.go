package provider

import "regexp"

// Provider identifiers in canonical order.
const (
	OpenAI  ID = "openai"
	Gemini  ID = "gemini"
	Claude  ID = "claude"
	Copilot ID = "copilot"
	Groq    ID = "groq"
	Cohere  ID = "cohere"
	Mistral ID = "mistral"
	Ollama  ID = "ollama"
)

// DefaultActive is the provider selected when nothing is configured.
const DefaultActive = Gemini

// Catalog returns the built-in descriptors in canonical order. Each call
// returns fresh values.
func Catalog() []Descriptor {
	return []Descriptor{
		{
			ID:            OpenAI,
			DisplayName:   "OpenAI",
			Protocol:      ProtocolOpenAI,
			CredentialEnv: "OPENAI_API_KEY",
			APIKeyPattern: regexp.MustCompile(`^sk-(proj-)?[A-Za-z0-9]{32,}$`),
			DocsURL:       "https://platform.openai.com/api-keys",
			Models: []Model{
				{ID: "gpt-4o", Name: "GPT-4o", Description: "Most capable, multimodal", Default: true},
				{ID: "gpt-4o-mini", Name: "GPT-4o Mini", Description: "Fast and affordable"},
				{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Description: "Previous generation flagship"},
				{ID: "gpt-4", Name: "GPT-4", Description: "Original GPT-4"},
				{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Fast, cheapest"},
			},
		},
		{
			ID:            Gemini,
			DisplayName:   "Google Gemini",
			Protocol:      ProtocolGemini,
			CredentialEnv: "GEMINI_API_KEY",
			APIKeyPattern: regexp.MustCompile(`^AIza[A-Za-z0-9_-]{35}$`),
			DocsURL:       "https://aistudio.google.com/app/apikey",
			FallbackModel: "gemini-2.5-flash",
			Models: []Model{
				{ID: "gemini-3-flash-preview", Name: "Gemini 3 Flash (Preview)", Description: "Latest fast model", Default: true},
				{ID: "gemini-3-pro-preview", Name: "Gemini 3 Pro (Preview)", Description: "Latest reasoning model"},
				{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash", Description: "Stable fast model"},
				{ID: "gemini-2.5-pro", Name: "Gemini 2.5 Pro", Description: "Stable reasoning model"},
				{ID: "gemini-2.0-flash", Name: "Gemini 2.0 Flash", Description: "Previous generation"},
				{ID: "gemini-2.0-flash-001", Name: "Gemini 2.0 Flash 001", Description: "Pinned 2.0 Flash"},
				{ID: "gemini-flash-latest", Name: "Gemini Flash Latest", Description: "Rolling alias"},
				{ID: "gemini-pro-latest", Name: "Gemini Pro Latest", Description: "Rolling alias"},
			},
		},
		{
			ID:            Claude,
			DisplayName:   "Anthropic Claude",
			Protocol:      ProtocolClaude,
			CredentialEnv: "CLAUDE_API_KEY",
			APIKeyPattern: regexp.MustCompile(`^sk-ant-[A-Za-z0-9_-]{95,}$`),
			BaseURL:       "https://api.anthropic.com/v1",
			DocsURL:       "https://console.anthropic.com/settings/keys",
			Models: []Model{
				{ID: "claude-3-5-sonnet-20241022", Name: "Claude 3.5 Sonnet", Description: "Best balance", Default: true},
				{ID: "claude-3-5-sonnet-20240620", Name: "Claude 3.5 Sonnet (June)", Description: "Previous version"},
				{ID: "claude-3-5-haiku-20241022", Name: "Claude 3.5 Haiku", Description: "Fastest"},
				{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus", Description: "Most capable 3.x"},
				{ID: "claude-3-sonnet-20240229", Name: "Claude 3 Sonnet", Description: "Balanced 3.x"},
				{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku", Description: "Compact 3.x"},
			},
		},
		{
			ID:            Copilot,
			DisplayName:   "GitHub Copilot",
			Protocol:      ProtocolOpenAI,
			CredentialEnv: "GITHUB_TOKEN",
			APIKeyPattern: regexp.MustCompile(`^(ghp_|gho_|ghu_|ghs_|ghr_)[A-Za-z0-9]{36,}$`),
			BaseURL:       "https://api.githubcopilot.com",
			DocsURL:       "https://github.com/settings/tokens",
			Models: []Model{
				{ID: "gpt-4o", Name: "GPT-4o", Description: "Copilot default", Default: true},
				{ID: "gpt-4", Name: "GPT-4", Description: "Original GPT-4"},
				{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Description: "Fastest"},
			},
		},
		{
			ID:            Groq,
			DisplayName:   "Groq",
			Protocol:      ProtocolOpenAI,
			CredentialEnv: "GROQ_API_KEY",
			APIKeyPattern: regexp.MustCompile(`^gsk_[A-Za-z0-9]{52}$`),
			BaseURL:       "https://api.groq.com/openai/v1",
			DocsURL:       "https://console.groq.com/keys",
			Models: []Model{
				{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B", Description: "Versatile", Default: true},
				{ID: "llama-3.1-8b-instant", Name: "Llama 3.1 8B", Description: "Instant"},
				{ID: "mixtral-8x7b-32768", Name: "Mixtral 8x7B", Description: "Long context"},
				{ID: "gemma2-9b-it", Name: "Gemma 2 9B", Description: "Instruction tuned"},
			},
		},
		{
			ID:            Cohere,
			DisplayName:   "Cohere",
			Protocol:      ProtocolOpenAI,
			CredentialEnv: "COHERE_API_KEY",
			APIKeyPattern: regexp.MustCompile(`^[A-Za-z0-9]{40}$`),
			BaseURL:       "https://api.cohere.ai/v1",
			DocsURL:       "https://dashboard.cohere.com/api-keys",
			Models: []Model{
				{ID: "command-r-plus", Name: "Command R+", Description: "Most capable", Default: true},
				{ID: "command-r", Name: "Command R", Description: "Balanced"},
				{ID: "command", Name: "Command", Description: "Legacy"},
			},
		},
		{
			ID:            Mistral,
			DisplayName:   "Mistral AI",
			Protocol:      ProtocolOpenAI,
			CredentialEnv: "MISTRAL_API_KEY",
			APIKeyPattern: regexp.MustCompile(`^[A-Za-z0-9]{32,}$`),
			BaseURL:       "https://api.mistral.ai/v1",
			DocsURL:       "https://console.mistral.ai/api-keys",
			Models: []Model{
				{ID: "mistral-large-latest", Name: "Mistral Large", Description: "Flagship", Default: true},
				{ID: "mistral-small-latest", Name: "Mistral Small", Description: "Fast"},
				{ID: "codestral-latest", Name: "Codestral", Description: "Code tuned"},
				{ID: "mistral-embed", Name: "Mistral Embed", Description: "Embeddings"},
			},
		},
		{
			// Self-hosted; the credential is the endpoint URL.
			ID:            Ollama,
			DisplayName:   "Ollama (local)",
			Protocol:      ProtocolOllama,
			CredentialEnv: "OLLAMA_HOST",
			BaseURL:       "http://localhost:11434/v1/chat/completions",
			DocsURL:       "https://ollama.com/library",
			Models: []Model{
				{ID: "llama3.2", Name: "Llama 3.2", Default: true},
				{ID: "qwen2.5", Name: "Qwen 2.5"},
			},
		},
	}
}
