package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/harshith-ashok/insurance-llm/internal/cache"
	"github.com/harshith-ashok/insurance-llm/internal/decide"
	"github.com/harshith-ashok/insurance-llm/internal/docfetch"
	"github.com/harshith-ashok/insurance-llm/internal/extract"
	"github.com/harshith-ashok/insurance-llm/internal/llm"
	"github.com/harshith-ashok/insurance-llm/internal/model"
	"github.com/harshith-ashok/insurance-llm/internal/search"
	"github.com/harshith-ashok/insurance-llm/internal/worker"
)

// Pipeline orchestrates the full question-answering flow: fetch document,
// extract clauses, then per question embed, rank, and synthesize.
type Pipeline struct {
	fetcher   *docfetch.Fetcher
	extractor *extract.Extractor
	ranker    *search.Ranker
	synth     *decide.Synthesizer
	provider  llm.Provider
	cache     cache.Cache // nil when caching is disabled
	limiter   *worker.Limiter
	config    *model.Config
}

// NewPipeline creates a pipeline from configuration.
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, fmt.Errorf("create provider: %w", err)
	}
	return NewPipelineWithProvider(cfg, provider), nil
}

// NewPipelineWithProvider creates a pipeline around an existing provider
// (tests inject a deterministic fake here).
func NewPipelineWithProvider(cfg *model.Config, provider llm.Provider) *Pipeline {
	var store cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			store = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			store = cache.NewMemoryCache(cfg.Cache.MemoryTTL)
		}
	}

	return &Pipeline{
		fetcher:   docfetch.NewFetcher(cfg.HTTP),
		extractor: extract.NewExtractor(),
		ranker:    search.NewRanker(),
		synth:     decide.NewSynthesizer(provider),
		provider:  provider,
		cache:     store,
		limiter:   worker.NewLimiter(cfg.LLM.RequestsPerSecond, cfg.LLM.Burst),
		config:    cfg,
	}
}

// Run answers every question against the document at docURL. Answers come
// back in question order. Fetch and extraction failures are fatal for the
// whole request; provider failures degrade only the affected question.
func (p *Pipeline) Run(ctx context.Context, docURL string, questions []string) ([]model.Answer, error) {
	doc, err := p.loadDocument(ctx, docURL)
	if err != nil {
		return nil, err
	}

	session := &questionSession{pipeline: p, doc: doc}
	batch := worker.NewBatchProcessor(session, p.config.Server.QuestionWorkers)
	return batch.Process(ctx, questions), nil
}

// cachedDocument is the serialized cache payload: the extraction result plus
// the clause embeddings, so a cache hit skips both fetch and embedding.
type cachedDocument struct {
	Document   model.Document `json:"document"`
	Embeddings [][]float32    `json:"embeddings"`
}

// loadDocument fetches, extracts, and embeds the document, consulting the
// cache first.
func (p *Pipeline) loadDocument(ctx context.Context, docURL string) (*cachedDocument, error) {
	key := cache.DocumentKey(docURL)
	if p.cache != nil {
		if data, found := p.cache.Get(key); found {
			var cached cachedDocument
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
			// Corrupt entry: drop it and reload
			_ = p.cache.Delete(key)
		}
	}

	fetched, err := p.fetcher.FetchWithRetry(ctx, docURL)
	if err != nil {
		return nil, err
	}

	docType := extract.DetectType(docURL, fetched.ContentType)
	doc, err := p.extractor.Extract(fetched.Body, docType)
	if err != nil {
		return nil, err
	}

	embeddings, err := p.embedClauses(ctx, doc.Clauses)
	if err != nil {
		return nil, err
	}

	cached := &cachedDocument{Document: *doc, Embeddings: embeddings}
	if p.cache != nil {
		if data, err := json.Marshal(cached); err == nil {
			if err := p.cache.Set(key, data, 0); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: cache write failed: %v\n", err)
			}
		}
	}

	return cached, nil
}

// embedClauses embeds all clause contents in one rate-limited batch pass.
// Batch-level provider failures already degrade to zero vectors inside the
// provider, so this only fails when the provider is completely unreachable.
func (p *Pipeline) embedClauses(ctx context.Context, clauses []model.Clause) ([][]float32, error) {
	if len(clauses) == 0 {
		return [][]float32{}, nil
	}

	if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
		return nil, err
	}

	texts := make([]string, len(clauses))
	for i, clause := range clauses {
		texts[i] = clause.Content
	}
	return p.provider.EmbedBatch(ctx, texts)
}

// questionSession answers questions against one loaded document.
type questionSession struct {
	pipeline *Pipeline
	doc      *cachedDocument
}

// AnswerQuestion runs one question end to end. It never returns an error:
// every failure path is captured as a degraded decision so sibling questions
// keep going.
func (s *questionSession) AnswerQuestion(ctx context.Context, question string) model.Answer {
	p := s.pipeline

	if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
		return model.AnswerFromDecision(question, degradedDecision(err))
	}

	questionVec, err := p.provider.Embed(ctx, question)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: question embedding failed: %v\n", err)
		return model.AnswerFromDecision(question, degradedDecision(err))
	}

	ranked, err := p.ranker.Rank(questionVec, s.doc.Document.Clauses, s.doc.Embeddings)
	if err != nil {
		return model.AnswerFromDecision(question, degradedDecision(err))
	}

	// The completion call is throttled under the same provider key; the
	// empty-clause short-circuit makes no external call, so skip the wait.
	if len(ranked) > 0 {
		if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
			return model.AnswerFromDecision(question, degradedDecision(err))
		}
	}

	return model.AnswerFromDecision(question, p.synth.Synthesize(ctx, question, ranked))
}

// degradedDecision is the per-question failure outcome: confidence zero and
// an explanatory rationale, never a propagated error.
func degradedDecision(err error) model.Decision {
	return model.Decision{
		Answer:            "Error processing the question.",
		Rationale:         fmt.Sprintf("Technical error: %v", err),
		SupportingClauses: []model.RankedClause{},
		Confidence:        0.0,
	}
}
