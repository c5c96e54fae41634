package llm

import (
	"fmt"

	"mktcontext/internal/config"
)

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "gemini"
)

// ProviderConfig holds the resolved provider and API key.
type ProviderConfig struct {
	Provider Provider
	APIKey   string
	Model    string // Optional model override
}

// DetectProvider resolves a provider from the user config, falling back to
// environment variables. A missing credential is an error here, not later:
// client construction must not succeed without a key.
func DetectProvider(cfg *config.UserConfig) (*ProviderConfig, error) {
	provider, apiKey := cfg.GetActiveProvider()
	if apiKey == "" {
		return nil, fmt.Errorf("no API key found; configure %s or set one of: OPENAI_API_KEY, ANTHROPIC_API_KEY, GEMINI_API_KEY", config.DefaultUserConfigPath())
	}

	return &ProviderConfig{
		Provider: Provider(provider),
		APIKey:   apiKey,
		Model:    cfg.Model,
	}, nil
}

// NewClientFromConfig creates an LLM client from a provider config.
func NewClientFromConfig(pc *ProviderConfig) (Client, error) {
	switch pc.Provider {
	case ProviderOpenAI:
		client := NewOpenAIClient(pc.APIKey)
		if pc.Model != "" {
			client.SetModel(pc.Model)
		}
		return client, nil

	case ProviderAnthropic:
		client := NewAnthropicClient(pc.APIKey)
		if pc.Model != "" {
			client.SetModel(pc.Model)
		}
		return client, nil

	case ProviderGemini:
		client, err := NewGeminiClient(pc.APIKey)
		if err != nil {
			return nil, err
		}
		if pc.Model != "" {
			client.SetModel(pc.Model)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unknown provider: %s", pc.Provider)
	}
}

// NewClient resolves the provider from config and environment and builds
// the client in one step.
func NewClient(cfg *config.UserConfig) (Client, error) {
	pc, err := DetectProvider(cfg)
	if err != nil {
		return nil, err
	}
	return NewClientFromConfig(pc)
}
