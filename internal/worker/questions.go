package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/harshith-ashok/insurance-llm/internal/model"
)

// Answerer runs one question through the pipeline. It never returns an
// error: provider failures degrade into the decision itself, so one bad
// question cannot abort its siblings.
type Answerer interface {
	AnswerQuestion(ctx context.Context, question string) model.Answer
}

// QuestionJob answers a single question from a request batch.
type QuestionJob struct {
	Index    int // Position in the request, used to restore order
	Question string
	Answerer Answerer
}

// Execute runs the question through the pipeline.
func (j *QuestionJob) Execute(ctx context.Context) Result {
	return &QuestionResult{
		Index:  j.Index,
		Answer: j.Answerer.AnswerQuestion(ctx, j.Question),
	}
}

// QuestionResult is the outcome of one question job.
type QuestionResult struct {
	Index  int
	Answer model.Answer
	Err    error
}

// GetError returns the error from the question result
func (r *QuestionResult) GetError() error {
	return r.Err
}

// BatchProcessor answers independent questions concurrently. Questions share
// no mutable state, so no synchronization beyond the pool is needed.
type BatchProcessor struct {
	answerer    Answerer
	concurrency int
}

// NewBatchProcessor creates a new batch processor
func NewBatchProcessor(answerer Answerer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		answerer:    answerer,
		concurrency: concurrency,
	}
}

// Process answers all questions and returns answers in request order.
func (b *BatchProcessor) Process(ctx context.Context, questions []string) []model.Answer {
	if len(questions) == 0 {
		return []model.Answer{}
	}

	pool := NewPoolWithContext(ctx, b.concurrency, len(questions))
	pool.Start()

	for i, question := range questions {
		pool.Submit(&QuestionJob{
			Index:    i,
			Question: question,
			Answerer: b.answerer,
		})
	}

	answers := make([]model.Answer, len(questions))
	done := make([]bool, len(questions))
	for _, result := range pool.Wait() {
		qr := result.(*QuestionResult)
		answers[qr.Index] = qr.Answer
		done[qr.Index] = true
	}

	// A cancelled context stops the batch before every job runs (or before a
	// finished job delivers its result). Those questions still get a degraded
	// answer, never a zero value.
	for i, ok := range done {
		if !ok {
			answers[i] = unprocessedAnswer(questions[i], ctx.Err())
		}
	}

	return answers
}

// unprocessedAnswer reports a question the batch never completed, typically
// because the request context ended first.
func unprocessedAnswer(question string, err error) model.Answer {
	if err == nil {
		err = errors.New("question was not processed")
	}
	return model.Answer{
		Question:        question,
		Answer:          "Error processing the question.",
		Rationale:       fmt.Sprintf("Technical error: %v", err),
		RelevantClauses: []model.RankedClause{},
		Confidence:      0.0,
	}
}
