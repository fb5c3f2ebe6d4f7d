package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/harshith-ashok/insurance-llm/internal/model"
	"github.com/sashabaranov/go-openai"
)

// newOpenAIStub serves the embeddings and chat endpoints of the OpenAI API.
// failEmbeddings makes every embeddings call return 500.
func newOpenAIStub(t *testing.T, failEmbeddings bool) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/embeddings"):
			if failEmbeddings {
				http.Error(w, `{"error": {"message": "overloaded"}}`, http.StatusInternalServerError)
				return
			}
			var req struct {
				Input []string `json:"input"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("decode embeddings request: %v", err)
			}
			data := make([]openai.Embedding, len(req.Input))
			for i := range data {
				data[i] = openai.Embedding{
					Index:     i,
					Embedding: []float32{float32(i), 1},
				}
			}
			if err := json.NewEncoder(w).Encode(openai.EmbeddingResponse{Data: data}); err != nil {
				t.Errorf("encode embeddings response: %v", err)
			}

		case strings.HasSuffix(r.URL.Path, "/chat/completions"):
			resp := openai.ChatCompletionResponse{
				Choices: []openai.ChatCompletionChoice{
					{Message: openai.ChatCompletionMessage{Content: `  {"answer": "yes"}  `}},
				},
			}
			if err := json.NewEncoder(w).Encode(resp); err != nil {
				t.Errorf("encode chat response: %v", err)
			}

		default:
			http.NotFound(w, r)
		}
	}))
}

func newTestOpenAI(t *testing.T, baseURL string) *OpenAIProvider {
	t.Helper()

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: baseURL})
	if err != nil {
		t.Fatalf("NewOpenAIProvider failed: %v", err)
	}
	return p
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Fatal("Expected error when API key is missing")
	}
}

func TestOpenAIEmbed(t *testing.T) {
	server := newOpenAIStub(t, false)
	defer server.Close()

	p := newTestOpenAI(t, server.URL)
	vec, err := p.Embed(context.Background(), "some clause text")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(vec) != 2 {
		t.Errorf("Expected 2-dim vector from stub, got %d", len(vec))
	}
}

func TestOpenAIEmbed_ServerError(t *testing.T) {
	server := newOpenAIStub(t, true)
	defer server.Close()

	p := newTestOpenAI(t, server.URL)
	_, err := p.Embed(context.Background(), "some clause text")

	var provErr *model.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("Expected ProviderError, got %v", err)
	}
	if provErr.Provider != "openai" || provErr.Op != "embedding" {
		t.Errorf("Unexpected error fields: provider=%s op=%s", provErr.Provider, provErr.Op)
	}
}

func TestOpenAIEmbedBatch(t *testing.T) {
	server := newOpenAIStub(t, false)
	defer server.Close()

	p := newTestOpenAI(t, server.URL)
	texts := []string{"clause one text", "clause two text", "clause three text"}

	vecs, err := p.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("Expected %d vectors, got %d", len(texts), len(vecs))
	}
}

func TestOpenAIEmbedBatch_ZeroVectorFallback(t *testing.T) {
	server := newOpenAIStub(t, true)
	defer server.Close()

	p := newTestOpenAI(t, server.URL)
	texts := []string{"clause one", "clause two", "clause three"}

	vecs, err := p.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch must not fail on batch errors, got %v", err)
	}
	if len(vecs) != len(texts) {
		t.Fatalf("Expected %d vectors, got %d", len(texts), len(vecs))
	}
	for i, vec := range vecs {
		if len(vec) != adaEmbeddingDim {
			t.Errorf("Vector %d: expected zero vector of dim %d, got %d", i, adaEmbeddingDim, len(vec))
		}
		for _, v := range vec {
			if v != 0 {
				t.Errorf("Vector %d: expected all zeros, found %f", i, v)
				break
			}
		}
	}
}

func TestOpenAIEmbedBatch_ChunksRequests(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		var req struct {
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		data := make([]openai.Embedding, len(req.Input))
		for i := range data {
			data[i] = openai.Embedding{Index: i, Embedding: []float32{1}}
		}
		if err := json.NewEncoder(w).Encode(openai.EmbeddingResponse{Data: data}); err != nil {
			t.Errorf("encode: %v", err)
		}
	}))
	defer server.Close()

	p, err := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, EmbeddingBatchSize: 10})
	if err != nil {
		t.Fatalf("NewOpenAIProvider failed: %v", err)
	}

	texts := make([]string, 25)
	for i := range texts {
		texts[i] = "clause"
	}

	vecs, err := p.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch failed: %v", err)
	}
	if len(vecs) != 25 {
		t.Errorf("Expected 25 vectors, got %d", len(vecs))
	}
	if calls != 3 {
		t.Errorf("Expected 3 chunked calls for 25 texts, got %d", calls)
	}
}

func TestOpenAIComplete(t *testing.T) {
	server := newOpenAIStub(t, false)
	defer server.Close()

	p := newTestOpenAI(t, server.URL)
	got, err := p.Complete(context.Background(), CompletionRequest{Prompt: "analyze this"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	// response whitespace is trimmed
	if got != `{"answer": "yes"}` {
		t.Errorf("Unexpected completion: %q", got)
	}
}
