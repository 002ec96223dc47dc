// Package config loads the application configuration from
// ~/.notizfix/config.json, with environment variables overriding the API
// credentials.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ProviderConfig selects and configures the completion provider.
type ProviderConfig struct {
	Name    string `json:"name"`     // "anthropic", "openai", "ollama" or "openai-compatible"
	Model   string `json:"model"`
	APIKey  string `json:"api_key,omitempty"`
	BaseURL string `json:"base_url,omitempty"` // only for ollama / openai-compatible
}

// Config represents application configuration
type Config struct {
	Provider    ProviderConfig `json:"provider"`
	EntitiesDir string         `json:"entities_dir"` // knowledge base root
	LogLevel    string         `json:"log_level"`    // debug, info, warn, error, none
	LogPath     string         `json:"log_path,omitempty"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens,omitempty"`
}

// DefaultConfigPath returns the default location of the config file.
func DefaultConfigPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".notizfix", "config.json")
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	return &Config{
		Provider: ProviderConfig{
			Name:  "anthropic",
			Model: "claude-sonnet-4-20250514",
		},
		EntitiesDir: filepath.Join(homeDir, ".notizfix", "entities"),
		LogLevel:    "info",
		Temperature: 0.2,
		MaxTokens:   4096,
	}
}

// Load loads configuration from path, falling back to defaults when the file
// does not exist. Environment variables override the stored API key.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			config.applyEnv()
			return config, nil
		}
		return nil, err
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if config.Provider.Name == "" {
		config.Provider.Name = "anthropic"
	}
	if config.LogLevel == "" {
		config.LogLevel = "info"
	}
	if config.EntitiesDir == "" {
		homeDir, _ := os.UserHomeDir()
		config.EntitiesDir = filepath.Join(homeDir, ".notizfix", "entities")
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 4096
	}

	config.applyEnv()
	return config, nil
}

// applyEnv overrides credentials from the environment. The provider-specific
// variable wins over the generic one.
func (c *Config) applyEnv() {
	generic := strings.TrimSpace(os.Getenv("NOTIZFIX_API_KEY"))

	var specific string
	switch c.Provider.Name {
	case "anthropic":
		specific = strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	case "openai":
		specific = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}

	if specific != "" {
		c.Provider.APIKey = specific
	} else if generic != "" {
		c.Provider.APIKey = generic
	}
}

// Save writes the configuration to path, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
