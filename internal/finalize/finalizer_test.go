package finalize

import (
	"strings"
	"testing"
)

func TestFinalize_StripsInlineRefs(t *testing.T) {
	got := Finalize("Widgets grew 40% [1] and churn fell [a].", "linkedin", "")
	if strings.Contains(got, "[1]") || strings.Contains(got, "[a]") {
		t.Errorf("Inline refs not stripped: %q", got)
	}
	if !strings.HasPrefix(got, "Widgets grew 40% and churn fell.") {
		t.Errorf("Unexpected body: %q", got)
	}
}

func TestFinalize_AppendsSourcesLine(t *testing.T) {
	got := Finalize("A post body.", "linkedin", "nasa.gov; jpl.nasa.gov; nasa.gov; ")
	if !strings.Contains(got, "Sources: nasa.gov; jpl.nasa.gov") {
		t.Errorf("Expected de-duped sources line, got %q", got)
	}
	if strings.Count(got, "nasa.gov") != 2 { // once standalone, once inside jpl.nasa.gov
		t.Errorf("Duplicate domain kept: %q", got)
	}
}

func TestFinalize_SkipsSourcesWhenPresent(t *testing.T) {
	text := "A post.\n\nSources: already.here"
	got := Finalize(text, "linkedin", "nasa.gov")
	if strings.Count(got, "Sources:") != 1 {
		t.Errorf("Sources line duplicated: %q", got)
	}
}

func TestFinalize_AppendsHashtags(t *testing.T) {
	got := Finalize("A short post.", "linkedin", "")
	if !strings.Contains(got, "#AI #EngineeringLeadership") {
		t.Errorf("Expected first two linkedin hashtags, got %q", got)
	}
	if strings.Contains(got, "#Productivity") {
		t.Errorf("Expected only two hashtags, got %q", got)
	}

	got = Finalize("A short post.", "bluesky", "")
	if !strings.Contains(got, "#AI #buildinpublic") {
		t.Errorf("Expected bluesky hashtags, got %q", got)
	}
}

func TestFinalize_SkipsHashtagsWhenTheyDoNotFit(t *testing.T) {
	long := strings.Repeat("x", 270)
	got := Finalize(long, "bluesky", "")
	if strings.Contains(got, "#AI") {
		t.Errorf("Hashtags must not push past the limit: %q", got)
	}
}

func TestFinalize_HardTrimsWithEllipsis(t *testing.T) {
	long := strings.Repeat("word ", 100) // 500 chars
	got := Finalize(long, "bluesky", "")

	if len(got) > blueskyMaxLen+2 { // ellipsis is multi-byte
		t.Errorf("Result too long: %d bytes", len(got))
	}
	if !strings.HasSuffix(got, "…") {
		t.Errorf("Expected trailing ellipsis, got %q", got[len(got)-10:])
	}
}

func TestFinalize_LinkedInLimit(t *testing.T) {
	long := strings.Repeat("a", 3000)
	got := Finalize(long, "linkedin", "")
	if !strings.HasSuffix(got, "…") {
		t.Error("Expected linkedin trim with ellipsis")
	}
}

func TestFinalize_SourcesSkippedWhenTooLong(t *testing.T) {
	body := strings.Repeat("y", 270)
	got := Finalize(body, "bluesky", "some-very-long-domain.example.org")
	if strings.Contains(got, "Sources:") {
		t.Errorf("Sources line must be dropped when it does not fit: %q", got)
	}
}

func TestMaxLen(t *testing.T) {
	if MaxLen("bluesky") != 280 || MaxLen("Bluesky") != 280 {
		t.Error("bluesky limit wrong")
	}
	if MaxLen("linkedin") != 2800 || MaxLen("anything") != 2800 {
		t.Error("default limit wrong")
	}
}
