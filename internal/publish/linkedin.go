package publish

import "github.com/ppiankov/postfactum/internal/model"

// ExportLinkedIn returns the text for manual posting. The LinkedIn
// publishing API needs partner access, so the UI offers copy-and-paste
// into the composer instead.
func ExportLinkedIn(text string) model.PublishResult {
	return model.PublishResult{
		OK:      true,
		Message: "Copy this text and paste into LinkedIn composer.",
	}
}
