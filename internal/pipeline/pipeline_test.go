package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/harshith-ashok/insurance-llm/internal/llm"
	"github.com/harshith-ashok/insurance-llm/internal/model"
)

const policyText = "Section A covers knee surgery and all related surgical procedures performed in network hospitals.\n\nSection B excludes maternity expenses incurred during the first nine months after enrollment."

// scriptedProvider returns embeddings keyed by text content so ranking
// outcomes are fully deterministic.
type scriptedProvider struct {
	embeds      atomic.Int32
	batches     atomic.Int32
	completions atomic.Int32
	failEmbeds  bool // fail single-text embeddings containing "fail"
}

func (p *scriptedProvider) Name() string { return "scripted" }

func (p *scriptedProvider) vectorFor(text string) []float32 {
	switch {
	case strings.Contains(text, "Section A"):
		return []float32{0.9, 0.43588989}
	case strings.Contains(text, "Section B"):
		return []float32{0.4, 0.9165151}
	case strings.Contains(text, "nothing relevant"):
		return []float32{0, 0}
	default:
		return []float32{1, 0}
	}
}

func (p *scriptedProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	p.embeds.Add(1)
	if p.failEmbeds && strings.Contains(text, "fail") {
		return nil, &model.ProviderError{Provider: "scripted", Op: "embedding", Err: errors.New("simulated outage")}
	}
	return p.vectorFor(text), nil
}

func (p *scriptedProvider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	p.batches.Add(1)
	vecs := make([][]float32, len(texts))
	for i, text := range texts {
		vecs[i] = p.vectorFor(text)
	}
	return vecs, nil
}

func (p *scriptedProvider) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	p.completions.Add(1)
	return `{"answer": "Yes, knee surgery is covered.", "rationale": "Clause 1 provides for knee surgery.", "confidence": 0.9}`, nil
}

func (p *scriptedProvider) IsAvailable(ctx context.Context) bool { return true }

func testConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.LLM.RequestsPerSecond = 1000
	cfg.LLM.Burst = 100
	cfg.Server.QuestionWorkers = 2
	return cfg
}

func newPolicyServer(t *testing.T, fetches *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fetches != nil {
			fetches.Add(1)
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(policyText))
	}))
}

func TestPipeline_EndToEnd(t *testing.T) {
	server := newPolicyServer(t, nil)
	defer server.Close()

	provider := &scriptedProvider{}
	p := NewPipelineWithProvider(testConfig(), provider)

	answers, err := p.Run(context.Background(), server.URL, []string{"Is knee surgery covered?"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(answers) != 1 {
		t.Fatalf("Expected 1 answer, got %d", len(answers))
	}

	a := answers[0]
	if a.Question != "Is knee surgery covered?" {
		t.Errorf("Unexpected question: %q", a.Question)
	}
	if a.Answer != "Yes, knee surgery is covered." {
		t.Errorf("Unexpected answer: %q", a.Answer)
	}
	if a.Confidence != 0.9 {
		t.Errorf("Unexpected confidence: %f", a.Confidence)
	}

	if len(a.RelevantClauses) != 2 {
		t.Fatalf("Expected 2 relevant clauses, got %d", len(a.RelevantClauses))
	}
	first, second := a.RelevantClauses[0], a.RelevantClauses[1]
	if first.Category != model.CategoryCoverage {
		t.Errorf("Expected coverage clause ranked first, got %s", first.Category)
	}
	if second.Category != model.CategoryExclusion {
		t.Errorf("Expected exclusion clause ranked second, got %s", second.Category)
	}
	if first.Rank != 1 || second.Rank != 2 {
		t.Errorf("Unexpected ranks: %d, %d", first.Rank, second.Rank)
	}
	if first.SimilarityScore <= second.SimilarityScore {
		t.Errorf("Expected coverage clause scored higher: %f vs %f", first.SimilarityScore, second.SimilarityScore)
	}

	if got := provider.completions.Load(); got != 1 {
		t.Errorf("Expected 1 completion call, got %d", got)
	}
}

func TestPipeline_NoRelevantClauses(t *testing.T) {
	server := newPolicyServer(t, nil)
	defer server.Close()

	provider := &scriptedProvider{}
	p := NewPipelineWithProvider(testConfig(), provider)

	// zero question vector scores 0 against everything, below threshold
	answers, err := p.Run(context.Background(), server.URL, []string{"nothing relevant here"})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	a := answers[0]
	if a.Answer != "No relevant information found in the document." {
		t.Errorf("Unexpected answer: %q", a.Answer)
	}
	if a.Rationale != "The document does not contain information relevant to the question." {
		t.Errorf("Unexpected rationale: %q", a.Rationale)
	}
	if a.Confidence != 0.0 {
		t.Errorf("Expected confidence 0.0, got %f", a.Confidence)
	}
	if len(a.RelevantClauses) != 0 {
		t.Errorf("Expected no relevant clauses, got %d", len(a.RelevantClauses))
	}
	if got := provider.completions.Load(); got != 0 {
		t.Errorf("Expected no completion call on short-circuit, got %d", got)
	}
}

func TestPipeline_QuestionIsolation(t *testing.T) {
	server := newPolicyServer(t, nil)
	defer server.Close()

	provider := &scriptedProvider{failEmbeds: true}
	p := NewPipelineWithProvider(testConfig(), provider)

	questions := []string{
		"Is knee surgery covered?",
		"this one will fail",
		"Is maternity excluded?",
	}
	answers, err := p.Run(context.Background(), server.URL, questions)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("Expected 3 answers, got %d", len(answers))
	}

	if answers[1].Answer != "Error processing the question." {
		t.Errorf("Expected degraded answer for failing question, got %q", answers[1].Answer)
	}
	if !strings.HasPrefix(answers[1].Rationale, "Technical error: ") {
		t.Errorf("Unexpected rationale: %q", answers[1].Rationale)
	}
	if answers[1].Confidence != 0.0 {
		t.Errorf("Expected confidence 0.0, got %f", answers[1].Confidence)
	}

	for _, i := range []int{0, 2} {
		if answers[i].Answer != "Yes, knee surgery is covered." {
			t.Errorf("Question %d should not be affected by its sibling: %q", i, answers[i].Answer)
		}
	}
}

func TestPipeline_FetchFailureFatal(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	p := NewPipelineWithProvider(testConfig(), &scriptedProvider{})
	_, err := p.Run(context.Background(), server.URL, []string{"Is knee surgery covered?"})

	var fetchErr *model.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected FetchError, got %v", err)
	}
}

func TestPipeline_ExtractionFailureFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("not a real pdf"))
	}))
	defer server.Close()

	p := NewPipelineWithProvider(testConfig(), &scriptedProvider{})
	_, err := p.Run(context.Background(), server.URL, []string{"Is knee surgery covered?"})

	var extErr *model.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("Expected ExtractionError, got %v", err)
	}
}

func TestPipeline_CacheSkipsRefetch(t *testing.T) {
	var fetches atomic.Int32
	server := newPolicyServer(t, &fetches)
	defer server.Close()

	cfg := testConfig()
	cfg.Cache.Enabled = true

	provider := &scriptedProvider{}
	p := NewPipelineWithProvider(cfg, provider)

	for i := 0; i < 2; i++ {
		if _, err := p.Run(context.Background(), server.URL, []string{"Is knee surgery covered?"}); err != nil {
			t.Fatalf("Run %d failed: %v", i, err)
		}
	}

	if got := fetches.Load(); got != 1 {
		t.Errorf("Expected 1 document fetch across runs, got %d", got)
	}
	if got := provider.batches.Load(); got != 1 {
		t.Errorf("Expected 1 embedding batch across runs, got %d", got)
	}
}
