package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/harshith-ashok/insurance-llm/internal/model"
)

// Sections are split on blank-line boundaries: two or more newlines with any
// whitespace in between.
var sectionBoundary = regexp.MustCompile(`\n\s*\n`)

// Sections at or below this trimmed length are noise (headers, page numbers).
const minClauseLength = 50

// categoryRule maps keywords to a clause category. Rules are evaluated in
// order; the first rule with a matching keyword wins.
type categoryRule struct {
	category model.ClauseCategory
	keywords []string
}

// Segmenter splits raw document text into candidate clauses.
type Segmenter struct {
	rules []categoryRule
}

// NewSegmenter creates a segmenter with the fixed policy-language rules.
func NewSegmenter() *Segmenter {
	return &Segmenter{
		rules: []categoryRule{
			{model.CategoryCoverage, []string{"coverage", "cover", "policy"}},
			{model.CategoryExclusion, []string{"exclusion", "exclude", "not covered"}},
			{model.CategoryCondition, []string{"condition", "requirement", "must"}},
			{model.CategoryLimit, []string{"limit", "maximum", "cap"}},
		},
	}
}

// Segment splits text into clauses in document order. Sections whose trimmed
// length is at most 50 characters are discarded. Deterministic for identical
// input.
func (s *Segmenter) Segment(text string) []model.Clause {
	sections := sectionBoundary.Split(text, -1)

	var clauses []model.Clause
	for _, section := range sections {
		trimmed := strings.TrimSpace(section)
		if len(trimmed) <= minClauseLength {
			continue
		}

		clauses = append(clauses, model.Clause{
			ID:       fmt.Sprintf("clause_%d", len(clauses)),
			Content:  trimmed,
			Category: s.classify(trimmed),
			Length:   len(trimmed),
		})
	}

	return clauses
}

// classify picks the first rule whose keyword appears in the section,
// case-insensitive.
func (s *Segmenter) classify(text string) model.ClauseCategory {
	lower := strings.ToLower(text)
	for _, rule := range s.rules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lower, keyword) {
				return rule.category
			}
		}
	}
	return model.CategoryGeneral
}
