package model

// Topic is the subject a draft is written about
type Topic struct {
	Title string `json:"title"`
	Angle string `json:"angle,omitempty"`
}

// DraftVariant is one generated post candidate
type DraftVariant struct {
	Variant   int    `json:"variant"`             // 1-based variant number
	Text      string `json:"text"`                // Post body
	Rationale string `json:"rationale,omitempty"` // Why the model thinks this works
}

// SearchResult is one normalized web search hit.
// Field order is provider order and is preserved end to end.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"` // Originating provider tag (e.g., "serpapi")
}

// AuditRecord pairs one extracted claim with its corroboration grade
// and up to three supporting search results.
type AuditRecord struct {
	Claim      string         `json:"claim"`
	Confidence float64        `json:"confidence"` // One of 0.40, 0.65, 0.85, 0.95 (rounded to 2 decimals)
	Sources    []SearchResult `json:"sources"`    // First 3 results for the claim, provider order
}

// PublishResult is the outcome of a publish attempt
type PublishResult struct {
	OK        bool   `json:"ok"`
	Permalink string `json:"permalink,omitempty"`
	Message   string `json:"message,omitempty"`
}
