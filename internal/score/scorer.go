// Package score grades how well search results corroborate a claim.
package score

import (
	"strings"

	"github.com/ppiankov/postfactum/internal/model"
)

// Discrete confidence grades mapped from the corroboration hit count.
// These four values are the complete scoring policy.
const (
	ConfidenceNone   = 0.40 // no result corroborates the claim
	ConfidenceWeak   = 0.65 // one result
	ConfidenceMedium = 0.85 // two results
	ConfidenceStrong = 0.95 // three or more results
)

// punctuation stripped from both ends of each claim token
const punctuation = `.,:;!?()[]'"`

// Scorer computes corroboration confidence by term overlap.
// It is pure and deterministic; no I/O, no state.
type Scorer struct{}

// NewScorer creates a new scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score grades a claim against a set of search results.
//
// The claim is split on whitespace; each token is stripped of surrounding
// punctuation, lowercased, and kept only when longer than 3 characters.
// A result counts as a hit when at least max(1, terms/4) of those terms
// appear as substrings of its lowercased title+snippet. Neither result
// order nor the url/source fields influence the grade.
func (s *Scorer) Score(claim string, results []model.SearchResult) float64 {
	terms := claimTerms(claim)
	threshold := len(terms) / 4
	if threshold < 1 {
		threshold = 1
	}

	hits := 0
	for _, r := range results {
		haystack := strings.ToLower(r.Title + " " + r.Snippet)
		overlap := 0
		for term := range terms {
			if strings.Contains(haystack, term) {
				overlap++
			}
		}
		if overlap >= threshold {
			hits++
		}
	}

	// A claim with no significant terms can never overlap, so it always
	// lands here with zero hits. Keep that behavior as is.
	switch {
	case hits >= 3:
		return ConfidenceStrong
	case hits == 2:
		return ConfidenceMedium
	case hits == 1:
		return ConfidenceWeak
	default:
		return ConfidenceNone
	}
}

// claimTerms collects the significant claim tokens into a set
func claimTerms(claim string) map[string]struct{} {
	terms := make(map[string]struct{})
	for _, word := range strings.Fields(claim) {
		term := strings.ToLower(strings.Trim(word, punctuation))
		if len(term) > 3 {
			terms[term] = struct{}{}
		}
	}
	return terms
}
