package search

import (
	"fmt"
	"math"
	"sort"

	"github.com/harshith-ashok/insurance-llm/internal/model"
)

const (
	// topK caps how many candidates survive a ranking
	topK = 5

	// scoreThreshold filters weak matches; strictly-greater semantics
	scoreThreshold = 0.3
)

// Ranker scores clauses against a question vector using exact brute-force
// cosine similarity. Clause sets are small and change per document, so a flat
// linear scan beats building any index per query.
type Ranker struct{}

// NewRanker creates a new ranker
func NewRanker() *Ranker {
	return &Ranker{}
}

// Rank returns at most 5 clauses whose cosine similarity with the question
// vector exceeds 0.3, ranked 1..N in descending similarity. Ties keep their
// original clause order. Empty inputs rank to an empty result.
func (r *Ranker) Rank(questionVec []float32, clauses []model.Clause, clauseVecs [][]float32) ([]model.RankedClause, error) {
	if len(clauses) != len(clauseVecs) {
		return nil, fmt.Errorf("clauses and vectors length mismatch: %d != %d", len(clauses), len(clauseVecs))
	}
	if len(clauses) == 0 {
		return []model.RankedClause{}, nil
	}

	indices := make([]int, len(clauses))
	scores := make([]float64, len(clauses))
	for i := range clauses {
		indices[i] = i
		scores[i] = CosineSimilarity(questionVec, clauseVecs[i])
	}

	sort.SliceStable(indices, func(a, b int) bool {
		return scores[indices[a]] > scores[indices[b]]
	})

	limit := topK
	if len(indices) < limit {
		limit = len(indices)
	}

	ranked := make([]model.RankedClause, 0, limit)
	for _, idx := range indices[:limit] {
		if scores[idx] <= scoreThreshold {
			continue
		}
		ranked = append(ranked, model.RankedClause{
			Clause:          clauses[idx],
			SimilarityScore: scores[idx],
			Rank:            len(ranked) + 1,
		})
	}

	return ranked, nil
}

// CosineSimilarity computes the normalized inner product of two vectors.
// A zero-norm vector scores 0 against everything.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
