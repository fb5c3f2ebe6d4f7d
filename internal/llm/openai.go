package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harshith-ashok/insurance-llm/internal/model"
	"github.com/sashabaranov/go-openai"
)

// ada-002 vectors; used for zero-vector substitution when a batch call fails
const adaEmbeddingDim = 1536

// OpenAIProvider implements the Provider interface for OpenAI models
type OpenAIProvider struct {
	client *openai.Client
	config Config
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		config: config,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the provider is properly configured
func (p *OpenAIProvider) IsAvailable(ctx context.Context) bool {
	_, err := p.client.ListModels(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenAI API check failed: %v\n", err)
		return false
	}
	return true
}

// Embed converts a single text into an embedding vector
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := p.embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch embeds texts in chunks. If a chunk fails, each of its texts gets
// a zero vector so the result stays order-aligned with the input.
func (p *OpenAIProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	batchSize := p.config.EmbeddingBatchSize
	if batchSize <= 0 {
		batchSize = 10
	}

	vectors := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += batchSize {
		end := start + batchSize
		if end > len(texts) {
			end = len(texts)
		}

		batch, err := p.embed(ctx, texts[start:end])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: embedding batch failed, substituting zero vectors: %v\n", err)
			for range texts[start:end] {
				vectors = append(vectors, make([]float32, adaEmbeddingDim))
			}
			continue
		}
		vectors = append(vectors, batch...)
	}

	return vectors, nil
}

func (p *OpenAIProvider) embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddingModel := p.config.EmbeddingModel
	if embeddingModel == "" {
		embeddingModel = string(openai.AdaEmbeddingV2)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	resp, err := p.client.CreateEmbeddings(ctxWithTimeout, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(embeddingModel),
	})
	if err != nil {
		return nil, &model.ProviderError{Provider: "openai", Op: "embedding", Err: err}
	}

	if len(resp.Data) != len(texts) {
		return nil, &model.ProviderError{
			Provider: "openai",
			Op:       "embedding",
			Err:      fmt.Errorf("expected %d vectors, got %d", len(texts), len(resp.Data)),
		}
	}

	vectors := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		vectors[i] = d.Embedding
	}
	return vectors, nil
}

// Complete generates a completion using OpenAI's Chat Completions API
func (p *OpenAIProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	completionModel := req.Model
	if completionModel == "" {
		completionModel = p.config.Model
	}
	if completionModel == "" {
		completionModel = openai.GPT4
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}
	if maxTokens == 0 {
		maxTokens = 1000
	}

	system := req.System
	if system == "" {
		system = "You are an expert document analyzer that provides structured JSON responses."
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.timeout())
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: completionModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", &model.ProviderError{Provider: "openai", Op: "completion", Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &model.ProviderError{
			Provider: "openai",
			Op:       "completion",
			Err:      fmt.Errorf("no choices in response"),
		}
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (p *OpenAIProvider) timeout() time.Duration {
	if p.config.Timeout > 0 {
		return time.Duration(p.config.Timeout) * time.Second
	}
	return 30 * time.Second
}
