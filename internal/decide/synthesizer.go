package decide

import (
	"context"
	"fmt"
	"strings"

	"github.com/harshith-ashok/insurance-llm/internal/llm"
	"github.com/harshith-ashok/insurance-llm/internal/model"
)

const (
	// contextClauses caps how many ranked clauses are shown to the model
	contextClauses = 5

	// supportingClauses caps how many clauses the decision exposes as evidence
	supportingClauses = 3

	// completionTemperature keeps output focused and reproducible
	completionTemperature = 0.1
)

// Synthesizer turns a question plus ranked clauses into a structured decision
// via the completion capability. Every failure path yields a valid Decision;
// synthesis never returns an error to its caller.
type Synthesizer struct {
	provider llm.Provider
}

// NewSynthesizer creates a new synthesizer
func NewSynthesizer(provider llm.Provider) *Synthesizer {
	return &Synthesizer{provider: provider}
}

// Synthesize evaluates a question against its ranked clauses.
func (s *Synthesizer) Synthesize(ctx context.Context, question string, ranked []model.RankedClause) model.Decision {
	if len(ranked) == 0 {
		return model.Decision{
			Answer:            "No relevant information found in the document.",
			Rationale:         "The document does not contain information relevant to the question.",
			SupportingClauses: []model.RankedClause{},
			Confidence:        0.0,
		}
	}

	prompt := BuildPrompt(question, BuildContext(ranked))

	raw, err := s.provider.Complete(ctx, llm.CompletionRequest{
		Prompt:      prompt,
		Temperature: completionTemperature,
	})
	if err != nil {
		return model.Decision{
			Answer:            "Error processing the question.",
			Rationale:         fmt.Sprintf("Technical error: %v", err),
			SupportingClauses: truncate(ranked, supportingClauses),
			Confidence:        0.0,
		}
	}

	parsed := ParseResponse(raw)
	return model.Decision{
		Answer:            parsed.Answer,
		Rationale:         parsed.Rationale,
		SupportingClauses: truncate(ranked, supportingClauses),
		Confidence:        parsed.Confidence,
	}
}

// BuildContext renders the grounding context from at most the first five
// ranked clauses, in rank order.
func BuildContext(ranked []model.RankedClause) string {
	parts := make([]string, 0, contextClauses)
	for i, clause := range truncate(ranked, contextClauses) {
		parts = append(parts, fmt.Sprintf("Clause %d (Type: %s): %s", i+1, clause.Category, clause.Content))
	}
	return strings.Join(parts, "\n\n")
}

// BuildPrompt fills the fixed analyzer template with the question and its
// grounding context.
func BuildPrompt(question, context string) string {
	return fmt.Sprintf(`You are an expert insurance and legal document analyzer. Based on the provided document clauses, answer the question with a structured response.

Document Clauses:
%s

Question: %s

Please provide a JSON response with the following structure:
{
    "answer": "Direct answer to the question based on the clauses",
    "rationale": "Detailed explanation of how the clauses support the answer",
    "confidence": 0.0-1.0
}

Focus on specific details like:
- Grace periods
- Waiting periods
- Coverage limits
- Exclusions
- Conditions
- Specific medical procedures mentioned
- Policy terms and definitions

If the clauses don't contain relevant information, state that clearly in the answer.`, context, question)
}

func truncate(ranked []model.RankedClause, n int) []model.RankedClause {
	if len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}
