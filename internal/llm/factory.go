package llm

import (
	"fmt"
	"strings"

	"github.com/harshith-ashok/insurance-llm/internal/model"
)

// NewProvider creates a new provider based on configuration.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai, ollama)", config.Provider)
	}
}

// ConfigFromModel converts model.LLMConfig to llm.Config.
func ConfigFromModel(cfg model.LLMConfig) Config {
	return Config{
		Provider:           cfg.Provider,
		Model:              cfg.Model,
		EmbeddingModel:     cfg.EmbeddingModel,
		APIKey:             cfg.APIKey,
		BaseURL:            cfg.BaseURL,
		Timeout:            cfg.Timeout,
		MaxTokens:          cfg.MaxTokens,
		EmbeddingBatchSize: 10,
	}
}
