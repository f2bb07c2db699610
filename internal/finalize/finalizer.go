// Package finalize prepares a draft for publishing: strips citation
// markers, appends a sources line and hashtags, and trims to the
// platform length limit.
package finalize

import (
	"regexp"
	"strings"
)

// Platform character limits
const (
	blueskyMaxLen  = 280
	linkedinMaxLen = 2800
)

var hashtags = map[string][]string{
	"linkedin": {"#AI", "#EngineeringLeadership", "#Productivity", "#Learning"},
	"bluesky":  {"#AI", "#buildinpublic"},
}

// inline citation markers like [1], [12], [a]
var inlineRefPattern = regexp.MustCompile(`\s*\[(?:\d{1,2}|[A-Za-z])\]`)

// MaxLen returns the character limit for a platform
func MaxLen(platform string) int {
	if strings.ToLower(platform) == "bluesky" {
		return blueskyMaxLen
	}
	return linkedinMaxLen
}

// Finalize normalizes a draft for the given platform. sources is an
// optional "; "-separated domain list appended as a "Sources:" line when
// it fits. The text is hard-trimmed to the platform limit with a trailing
// ellipsis as a last resort.
func Finalize(text, platform, sources string) string {
	maxLen := MaxLen(platform)

	final := strings.TrimSpace(text)
	final = stripInlineRefs(final)
	final = appendSourcesLine(final, sources, maxLen)

	// add 2 hashtags if not present
	if tags := strings.Join(firstTwo(hashtags[strings.ToLower(platform)]), " "); tags != "" {
		if len(final)+len(tags)+2 <= maxLen && !strings.Contains(final, tags) {
			final = final + "\n\n" + tags
		}
	}

	if runes := []rune(final); len(runes) > maxLen {
		final = string(runes[:maxLen-1]) + "…"
	}

	return final
}

func stripInlineRefs(text string) string {
	return inlineRefPattern.ReplaceAllString(text, "")
}

// appendSourcesLine adds a de-duped "Sources: d1; d2" line when the text
// has none and the result stays within the platform limit
func appendSourcesLine(text, sources string, maxLen int) string {
	if sources == "" {
		return text
	}

	var domains []string
	seen := make(map[string]struct{})
	for _, d := range strings.Split(sources, ";") {
		d = strings.TrimSpace(d)
		if d == "" {
			continue
		}
		if _, dup := seen[d]; dup {
			continue
		}
		seen[d] = struct{}{}
		domains = append(domains, d)
	}
	if len(domains) == 0 {
		return text
	}

	if strings.Contains(text, "Sources:") {
		return text
	}

	candidate := text + "\n\n" + "Sources: " + strings.Join(domains, "; ")
	if len(candidate) <= maxLen {
		return candidate
	}
	return text
}

func firstTwo(tags []string) []string {
	if len(tags) > 2 {
		return tags[:2]
	}
	return tags
}
