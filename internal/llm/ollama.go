package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/harshith-ashok/insurance-llm/internal/model"
)

// OllamaProvider implements the Provider interface for Ollama local models.
// Both the embeddings and generate endpoints are used, so a local deployment
// needs no API key.
type OllamaProvider struct {
	baseURL    string
	httpClient *http.Client
	config     Config
}

// Ollama API structures
type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	System  string        `json:"system,omitempty"`
	Stream  bool          `json:"stream"`
	Options ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float32 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"` // Max tokens
}

type ollamaGenerateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config Config) (*OllamaProvider, error) {
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	timeout := time.Duration(config.Timeout) * time.Second
	if timeout == 0 {
		timeout = 60 * time.Second // local models can be slow
	}

	return &OllamaProvider{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		config:     config,
	}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// IsAvailable checks if Ollama is running
func (p *OllamaProvider) IsAvailable(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Ollama availability check failed (connection to %s): %v\n", p.baseURL, err)
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// Embed converts a single text into an embedding vector
func (p *OllamaProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	body, err := p.post(ctx, "/api/embeddings", ollamaEmbedRequest{
		Model:  p.embeddingModel(),
		Prompt: text,
	})
	if err != nil {
		return nil, &model.ProviderError{Provider: "ollama", Op: "embedding", Err: err}
	}

	var embedResp ollamaEmbedResponse
	if err := json.Unmarshal(body, &embedResp); err != nil {
		return nil, &model.ProviderError{Provider: "ollama", Op: "embedding", Err: err}
	}
	if len(embedResp.Embedding) == 0 {
		return nil, &model.ProviderError{
			Provider: "ollama",
			Op:       "embedding",
			Err:      fmt.Errorf("empty embedding for model %s", p.embeddingModel()),
		}
	}

	return embedResp.Embedding, nil
}

// EmbedBatch embeds texts one at a time (Ollama has no batch endpoint).
// Once a vector dimension is known, failed items degrade to zero vectors
// so the result stays order-aligned with the input.
func (p *OllamaProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, 0, len(texts))
	dimension := 0

	for _, text := range texts {
		vec, err := p.Embed(ctx, text)
		if err != nil {
			if dimension == 0 {
				return nil, err
			}
			fmt.Fprintf(os.Stderr, "Warning: embedding failed, substituting zero vector: %v\n", err)
			vectors = append(vectors, make([]float32, dimension))
			continue
		}
		dimension = len(vec)
		vectors = append(vectors, vec)
	}

	return vectors, nil
}

// Complete generates a completion using Ollama's generate API
func (p *OllamaProvider) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	completionModel := req.Model
	if completionModel == "" {
		completionModel = p.config.Model
	}
	if completionModel == "" {
		completionModel = "llama3"
	}

	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = p.config.MaxTokens
	}

	system := req.System
	if system == "" {
		system = "You are an expert document analyzer that provides structured JSON responses."
	}

	body, err := p.post(ctx, "/api/generate", ollamaGenerateRequest{
		Model:  completionModel,
		Prompt: req.Prompt,
		System: system,
		Stream: false,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			NumPredict:  maxTokens,
		},
	})
	if err != nil {
		return "", &model.ProviderError{Provider: "ollama", Op: "completion", Err: err}
	}

	var genResp ollamaGenerateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", &model.ProviderError{Provider: "ollama", Op: "completion", Err: err}
	}

	return strings.TrimSpace(genResp.Response), nil
}

func (p *OllamaProvider) embeddingModel() string {
	if p.config.EmbeddingModel != "" {
		return p.config.EmbeddingModel
	}
	return "nomic-embed-text"
}

func (p *OllamaProvider) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ollama request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr ollamaError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("ollama API error: %s", apiErr.Error)
		}
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	return body, nil
}
