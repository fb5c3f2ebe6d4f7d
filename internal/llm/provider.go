package llm

import "context"

// Provider defines the external language-model capability the pipeline
// consumes: text embedding plus grounded completion. Implementations must be
// safe for concurrent use; every call is bounded by the configured timeout.
type Provider interface {
	// Name returns the provider name
	Name() string

	// Embed converts text into a fixed-dimension vector
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch converts texts into vectors, order-preserving, one per input.
	// A failed batch substitutes zero vectors for the affected texts instead
	// of aborting, so one bad call cannot empty the whole clause set.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Complete generates free text for a prompt (expected to embed JSON)
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// IsAvailable checks if the provider is properly configured and reachable
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a completion call.
type CompletionRequest struct {
	// System sets the assistant role (if empty, use the default analyzer role)
	System string

	// Prompt is the full grounding prompt
	Prompt string

	// Model overrides the configured completion model
	Model string

	// MaxTokens bounds the response length
	MaxTokens int

	// Temperature controls sampling; the pipeline always passes a low value
	Temperature float32
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model is the completion model (provider-specific)
	Model string

	// EmbeddingModel is the embedding model (provider-specific)
	EmbeddingModel string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama, proxies)
	BaseURL string

	// Timeout for API requests, seconds
	Timeout int

	// MaxTokens for response generation
	MaxTokens int

	// EmbeddingBatchSize caps how many texts go into one embeddings call
	EmbeddingBatchSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:           "",
		Model:              "gpt-4",
		EmbeddingModel:     "text-embedding-ada-002",
		Timeout:            30,
		MaxTokens:          1000,
		EmbeddingBatchSize: 10,
	}
}
