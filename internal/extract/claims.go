// Package extract pulls short verifiable claims out of free text via an LLM.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/postfactum/internal/llm"
)

// DefaultMaxClaims bounds extraction when the caller does not
const DefaultMaxClaims = 8

// ClaimExtractor extracts factual claims from text using an LLM provider
type ClaimExtractor struct {
	provider llm.Provider
	model    string
}

// NewClaimExtractor creates a new claim extractor
func NewClaimExtractor(provider llm.Provider, model string) *ClaimExtractor {
	return &ClaimExtractor{
		provider: provider,
		model:    model,
	}
}

// Extract asks the LLM for up to maxClaims short factual claims and
// normalizes its output: trimmed, no empties, no "Sources:" lines,
// deduplicated with first-seen order kept.
//
// A transport or API failure propagates. A response that arrived but does
// not parse degrades to an empty claim list instead; the two failure modes
// are never conflated.
func (e *ClaimExtractor) Extract(ctx context.Context, text string, maxClaims int) ([]string, error) {
	if maxClaims <= 0 {
		maxClaims = DefaultMaxClaims
	}

	content, err := e.provider.CompleteJSON(ctx, e.model, buildPrompt(text, maxClaims))
	if err != nil {
		return nil, fmt.Errorf("extract claims: %w", err)
	}

	items, ok := parseItems(content)
	if !ok {
		// LLM answered but unparseably; the audit degrades to zero claims
		items = nil
	}

	return normalize(items), nil
}

// buildPrompt composes the extraction instruction for one text
func buildPrompt(text string, maxClaims int) string {
	return fmt.Sprintf(`You extract short factual claims (<= 15 words) that must be true in the real world.
- Claims should be atomic and concrete (dates, numbers, named facts, achievements).
- Ignore opinions, advice, and generic statements.
- Ignore any line beginning with "Sources:".
- Return a JSON OBJECT with this exact shape:
{
  "items": ["claim 1", "claim 2", ...]
}
If there are no factual claims, return {"items":[]}.
Extract up to %d claims.

TEXT:
"""%s"""
`, maxClaims, text)
}

// parseItems is the explicit two-outcome parse step: either the content
// decodes into an object whose "items" key is a list of strings, or it
// does not. A missing key decodes to an empty list.
func parseItems(content string) ([]string, bool) {
	var data struct {
		Items []string `json:"items"`
	}
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, false
	}
	return data.Items, true
}

// normalize trims, drops empties and "sources:" lines, and dedupes by
// exact string match preserving first-seen order.
func normalize(items []string) []string {
	uniq := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))

	for _, item := range items {
		claim := strings.TrimSpace(item)
		if claim == "" {
			continue
		}
		if strings.HasPrefix(strings.ToLower(claim), "sources:") {
			continue
		}
		if _, dup := seen[claim]; dup {
			continue
		}
		seen[claim] = struct{}{}
		uniq = append(uniq, claim)
	}

	return uniq
}
