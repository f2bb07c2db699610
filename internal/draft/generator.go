// Package draft generates social post variants from a topic or a
// personal story via an LLM.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ppiankov/postfactum/internal/llm"
	"github.com/ppiankov/postfactum/internal/model"
)

const styleGuide = `Tone: crisp, helpful, optimistic. Avoid hype.
Structure: HOOK on first line, short paragraphs (<=2 sentences), 1 CTA line.
No false claims; prefer concrete examples and numbers.
Audience: engineering leaders & ambitious students.
`

var ctaBank = []string{
	"What's your take?",
	"Would you try this?",
	"Save this for later.",
	"Share with a teammate.",
}

var lengthRules = map[string]string{
	"short":  "90-140 words",
	"medium": "140-220 words",
	"long":   "220-350 words",
}

// Request describes one draft generation call
type Request struct {
	Topic           model.Topic
	Platform        string // linkedin, bluesky
	N               int    // number of variants, default 3
	Mode            string // "topical" or "personal"
	Background      string // raw material for personal mode
	Length          string // short, medium, long
	ResearchSources []model.SearchResult
}

// Generator produces post drafts, falling back to a secondary model when
// the primary fails. This is the one LLM caller with a fallback chain;
// claim extraction deliberately has none.
type Generator struct {
	provider llm.Provider
	config   llm.Config
}

// NewGenerator creates a new draft generator
func NewGenerator(provider llm.Provider, config llm.Config) *Generator {
	return &Generator{provider: provider, config: config}
}

// Generate returns up to req.N draft variants. Each configured model is
// tried in order; an error is returned only when every model fails or
// answers unusably, naming the models tried.
func (g *Generator) Generate(ctx context.Context, req Request) ([]model.DraftVariant, error) {
	if req.N <= 0 {
		req.N = 3
	}
	prompt := buildPrompt(req)

	models := []string{g.config.Model}
	if fb := g.config.FallbackModel; fb != "" && fb != g.config.Model {
		models = append(models, fb)
	}

	var lastErr error
	for _, m := range models {
		content, err := g.provider.CompleteJSON(ctx, m, prompt)
		if err != nil {
			lastErr = err
			continue
		}

		variants, err := parseVariants(content, req.N)
		if err != nil {
			lastErr = err
			continue
		}
		if len(variants) > 0 {
			return variants, nil
		}
		lastErr = fmt.Errorf("model %s returned no variants", m)
	}

	return nil, fmt.Errorf("draft generation failed (models tried: %v): %w", models, lastErr)
}

// buildPrompt assembles the complete generation prompt
func buildPrompt(req Request) string {
	length := lengthRules[req.Length]
	if length == "" {
		length = "140-220 words"
	}

	var researchBlock string
	if len(req.ResearchSources) > 0 {
		refs := make([]string, 0, 5)
		for i, s := range req.ResearchSources {
			if i >= 5 {
				break
			}
			refs = append(refs, fmt.Sprintf("[%d] %s — %s", i+1, s.Title, s.URL))
		}
		researchBlock = "RESEARCH PACK:\n" + strings.Join(refs, "\n")
	}

	var bodyRules string
	if req.Mode == "personal" {
		background := req.Background
		if background == "" {
			background = "N/A"
		}
		bodyRules = fmt.Sprintf(`Write %d %s posts in first person using the C-C-A-R-L frame:
- Context -> Challenge -> Action -> Result (with a number if possible) -> Lesson.
Use the user BACKGROUND below as raw material.
Length: %s.
End with 1 CTA from: %v.
Avoid hyperbole; keep it grounded.
BACKGROUND:
%s
`, req.N, req.Platform, length, ctaBank, background)
	} else {
		bodyRules = fmt.Sprintf(`Write %d %s posts that deliver practical insight on the topic.
Include 2-3 concrete, verifiable facts (numbers/dates/names). Use the RESEARCH PACK for grounding if provided.
Do NOT include bracketed citation markers like [1] or [2].
After the post body, add a single line that starts with "Sources:" followed by up to 3 concise domains (e.g., nasa.gov; jpl.nasa.gov; space.com). No extra commentary.
Length: %s.
End with 1 CTA from: %v.
Avoid hashtags for now.
`, req.N, req.Platform, length, ctaBank)
	}

	return fmt.Sprintf(`Return ONLY valid JSON with key "items" -> list of variants.

You are an expert %s content writer.
Follow this STYLE_GUIDE:
%s

TOPIC: "%s"
ANGLE (optional): "%s"

%s

%s

JSON shape:
{
  "items": [
    {"variant": 1, "text": "TEXT", "rationale": "WHY THIS WORKS"},
    ...
  ]
}
`, req.Platform, styleGuide, req.Topic.Title, req.Topic.Angle, bodyRules, researchBlock)
}

// parseVariants decodes the LLM response and normalizes variant numbering
func parseVariants(content string, n int) ([]model.DraftVariant, error) {
	var data struct {
		Items []struct {
			Variant   int    `json:"variant"`
			Text      string `json:"text"`
			Rationale string `json:"rationale"`
		} `json:"items"`
	}
	if err := json.Unmarshal([]byte(content), &data); err != nil {
		return nil, fmt.Errorf("parse draft response: %w", err)
	}

	items := data.Items
	if len(items) > n {
		items = items[:n]
	}

	variants := make([]model.DraftVariant, 0, len(items))
	for i, item := range items {
		variant := item.Variant
		if variant == 0 {
			variant = i + 1
		}
		text := strings.TrimSpace(item.Text)
		if text == "" {
			continue
		}
		variants = append(variants, model.DraftVariant{
			Variant:   variant,
			Text:      text,
			Rationale: item.Rationale,
		})
	}

	return variants, nil
}
