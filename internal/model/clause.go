package model

// ClauseCategory classifies a clause by the dominant policy language it contains
type ClauseCategory string

const (
	CategoryCoverage  ClauseCategory = "coverage"
	CategoryExclusion ClauseCategory = "exclusion"
	CategoryCondition ClauseCategory = "condition"
	CategoryLimit     ClauseCategory = "limit"
	CategoryGeneral   ClauseCategory = "general"
)

// Clause is a segmented unit of document text, the atomic candidate for
// relevance ranking. Clauses are immutable once created and live only as
// long as the document they came from.
type Clause struct {
	ID       string         `json:"id"`      // Unique within a document (clause_0, clause_1, ...)
	Content  string         `json:"content"` // Trimmed section text, never empty
	Category ClauseCategory `json:"type"`    // Keyword-derived classification
	Length   int            `json:"length"`  // Length of Content in bytes
}

// RankedClause is a clause scored against a question. Created fresh per
// (question, document) ranking and never persisted.
type RankedClause struct {
	Clause
	SimilarityScore float64 `json:"similarity_score"` // Cosine similarity in [-1, 1]
	Rank            int     `json:"rank"`             // 1-based, unique within a ranking result
}

// Decision is the structured outcome for a single question.
type Decision struct {
	Answer            string         `json:"answer"`
	Rationale         string         `json:"rationale"`
	SupportingClauses []RankedClause `json:"relevant_clauses"` // At most 3, prefix of the ranking
	Confidence        float64        `json:"confidence"`       // 0.0 - 1.0
}

// Answer pairs a question with its decision for the response payload.
type Answer struct {
	Question        string         `json:"question"`
	Answer          string         `json:"answer"`
	Rationale       string         `json:"rationale"`
	RelevantClauses []RankedClause `json:"relevant_clauses"`
	Confidence      float64        `json:"confidence"`
}

// AnswerFromDecision builds the response entry for a question.
func AnswerFromDecision(question string, d Decision) Answer {
	clauses := d.SupportingClauses
	if clauses == nil {
		clauses = []RankedClause{}
	}
	return Answer{
		Question:        question,
		Answer:          d.Answer,
		Rationale:       d.Rationale,
		RelevantClauses: clauses,
		Confidence:      d.Confidence,
	}
}
