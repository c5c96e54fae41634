// Package config holds all user-facing configuration for the market context
// generator. Configuration is loaded from <state dir>/config.json with
// environment variables as a fallback for API keys.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// StateDirName is the directory under $HOME holding config and logs.
const StateDirName = ".mktcontext"

// UserConfig holds all configuration from config.json.
// This is the single source of truth for configuration.
//
// Supported models by provider:
//   - openai:    gpt-4o-mini (default), gpt-4o, gpt-4-turbo
//   - anthropic: claude-sonnet-4-20250514, claude-3-5-sonnet-20241022
//   - gemini:    gemini-2.0-flash (default), gemini-2.5-pro
type UserConfig struct {
	// Provider selection (openai, anthropic, gemini)
	Provider string `json:"provider,omitempty"`

	// API keys for each provider
	OpenAIAPIKey    string `json:"openai_api_key,omitempty"`
	AnthropicAPIKey string `json:"anthropic_api_key,omitempty"`
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`

	// Optional model override (see supported models above)
	Model string `json:"model,omitempty"`

	// Quality loop settings
	Agent *AgentConfig `json:"agent,omitempty"`

	// Logging settings (read separately by the logging package)
	Logging *LoggingConfig `json:"logging,omitempty"`

	// Optional YAML file with prompt template overrides
	PromptsFile string `json:"prompts_file,omitempty"`
}

// AgentConfig configures the quality-improvement loop.
type AgentConfig struct {
	// ScoreThreshold is the review score (0-10) at which a commentary is
	// accepted without further iterations. Default 9.0.
	ScoreThreshold float64 `json:"score_threshold,omitempty"`

	// MaxIterations caps the generate/review cycles per job. Default 5.
	MaxIterations int `json:"max_iterations,omitempty"`

	// WordCount is the target commentary length. Default 400.
	WordCount int `json:"word_count,omitempty"`
}

// LoggingConfig mirrors the logging package's expectations.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories,omitempty"`
	Level      string          `json:"level,omitempty"`
}

// Defaults for the quality loop.
const (
	DefaultScoreThreshold = 9.0
	DefaultMaxIterations  = 5
	DefaultWordCount      = 400
	DefaultBenchmark      = "S&P 500"
)

// DefaultStateDir returns the state directory ($HOME/.mktcontext).
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return StateDirName
	}
	return filepath.Join(home, StateDirName)
}

// DefaultUserConfigPath returns the default path to config.json.
func DefaultUserConfigPath() string {
	return filepath.Join(DefaultStateDir(), "config.json")
}

// LoadUserConfig loads configuration from the given path.
// A missing file yields an empty config, not an error.
func LoadUserConfig(path string) (*UserConfig, error) {
	cfg := &UserConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read user config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse user config: %w", err)
	}

	return cfg, nil
}

// Load loads configuration from the default path.
func Load() (*UserConfig, error) {
	return LoadUserConfig(DefaultUserConfigPath())
}

// Save writes configuration to the given path, creating the directory.
func (c *UserConfig) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal user config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write user config: %w", err)
	}
	return nil
}

// GetActiveProvider resolves the provider and API key.
// If a provider is explicitly set, only that provider's key is considered.
// Otherwise config keys are checked in priority order, then environment
// variables (OPENAI_API_KEY > ANTHROPIC_API_KEY > GEMINI_API_KEY).
func (c *UserConfig) GetActiveProvider() (provider string, apiKey string) {
	if c.Provider != "" {
		switch c.Provider {
		case "openai":
			if c.OpenAIAPIKey != "" {
				return "openai", c.OpenAIAPIKey
			}
			if key := os.Getenv("OPENAI_API_KEY"); key != "" {
				return "openai", key
			}
		case "anthropic":
			if c.AnthropicAPIKey != "" {
				return "anthropic", c.AnthropicAPIKey
			}
			if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
				return "anthropic", key
			}
		case "gemini":
			if c.GeminiAPIKey != "" {
				return "gemini", c.GeminiAPIKey
			}
			if key := os.Getenv("GEMINI_API_KEY"); key != "" {
				return "gemini", key
			}
		}
		return "", ""
	}

	if c.OpenAIAPIKey != "" {
		return "openai", c.OpenAIAPIKey
	}
	if c.AnthropicAPIKey != "" {
		return "anthropic", c.AnthropicAPIKey
	}
	if c.GeminiAPIKey != "" {
		return "gemini", c.GeminiAPIKey
	}

	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return "openai", key
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return "anthropic", key
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return "gemini", key
	}

	return "", ""
}

// GetAgentConfig returns the agent settings with defaults applied.
func (c *UserConfig) GetAgentConfig() AgentConfig {
	out := AgentConfig{
		ScoreThreshold: DefaultScoreThreshold,
		MaxIterations:  DefaultMaxIterations,
		WordCount:      DefaultWordCount,
	}
	if c.Agent == nil {
		return out
	}
	if c.Agent.ScoreThreshold > 0 {
		out.ScoreThreshold = c.Agent.ScoreThreshold
	}
	if c.Agent.MaxIterations > 0 {
		out.MaxIterations = c.Agent.MaxIterations
	}
	if c.Agent.WordCount > 0 {
		out.WordCount = c.Agent.WordCount
	}
	return out
}
