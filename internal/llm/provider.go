package llm

import (
	"fmt"
	"strings"
)

const ollamaDefaultBaseURL = "http://localhost:11434/v1"

// NewClient constructs the completion client for the configured provider.
// Supported providers: "openai", "anthropic", "ollama" and
// "openai-compatible" (requires a base URL).
func NewClient(provider, apiKey, model, baseURL string) (Client, error) {
	switch strings.TrimSpace(strings.ToLower(provider)) {
	case "openai":
		if strings.TrimSpace(baseURL) != "" {
			return NewOpenAICompatibleClient(apiKey, baseURL, model)
		}
		return NewOpenAIClient(apiKey, model)
	case "anthropic":
		return NewAnthropicClient(apiKey, model)
	case "ollama", "":
		if strings.TrimSpace(baseURL) == "" {
			baseURL = ollamaDefaultBaseURL
		}
		return NewOpenAICompatibleClient(apiKey, baseURL, model)
	case "openai-compatible":
		return NewOpenAICompatibleClient(apiKey, baseURL, model)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", provider)
	}
}
