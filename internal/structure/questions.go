package structure

import (
	"fmt"
	"strings"

	"github.com/hyperifyio/goseocheck/internal/guideline"
)

// coverageThreshold is the fraction of a question's key terms that must
// appear in the content for the question to count as addressed. This is a
// coarse lexical-overlap heuristic, not semantic matching; the constant is
// deliberately kept as-is for behavior parity with existing guidelines.
const coverageThreshold = 0.6

// stopwords are question words and filler dropped before extracting key
// terms. Remaining words longer than three characters become key terms.
var stopwords = map[string]struct{}{
	"is": {}, "are": {}, "can": {}, "does": {}, "do": {},
	"what": {}, "how": {}, "why": {}, "where": {}, "when": {},
	"a": {}, "an": {}, "the": {},
}

// Questions checks each guideline question for lexical coverage: a question
// passes when at least 60% of its key terms occur somewhere in the content.
func (v *Validator) Questions(content string) []Check {
	folded := guideline.Fold(content)
	checks := make([]Check, 0, len(v.req.Questions))
	for _, q := range v.req.Questions {
		checks = append(checks, questionCheck(q, folded))
	}
	return checks
}

func questionCheck(question, foldedContent string) Check {
	terms := keyTerms(question)
	matches := 0
	for _, t := range terms {
		if strings.Contains(foldedContent, t) {
			matches++
		}
	}

	// A question with no extractable key terms cannot fail the heuristic.
	passed := len(terms) == 0 || float64(matches) >= float64(len(terms))*coverageThreshold

	pct := 0.0
	if len(terms) > 0 {
		pct = float64(matches) / float64(len(terms)) * 100
	}
	c := Check{
		Metric:       "Q: " + truncate(question, 50),
		Category:     CategoryQuestion,
		Passed:       passed,
		Current:      matches,
		Expected:     guideline.Range{Min: 0, Max: len(terms)},
		CurrentLabel: fmt.Sprintf("%d/%d terms", matches, len(terms)),
		Details:      fmt.Sprintf("key terms found: %d/%d (%.0f%%)", matches, len(terms), pct),
	}
	if !passed {
		c.Feedback = fmt.Sprintf("Address question: '%s'", question)
	}
	return c
}

// keyTerms folds the question, strips punctuation and stopwords, and keeps
// the remaining words longer than three characters.
func keyTerms(question string) []string {
	folded := guideline.Fold(question)
	folded = strings.Map(func(r rune) rune {
		switch r {
		case '?', '!', '.', ',', ';', ':', '\'', '"':
			return ' '
		}
		return r
	}, folded)

	var terms []string
	for _, w := range strings.Fields(folded) {
		if _, stop := stopwords[w]; stop {
			continue
		}
		if len(w) > 3 {
			terms = append(terms, w)
		}
	}
	return terms
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
