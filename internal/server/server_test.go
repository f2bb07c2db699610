package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/postfactum/internal/draft"
	"github.com/ppiankov/postfactum/internal/model"
)

type stubDrafter struct {
	variants []model.DraftVariant
	err      error
	lastReq  draft.Request
}

func (s *stubDrafter) Generate(ctx context.Context, req draft.Request) ([]model.DraftVariant, error) {
	s.lastReq = req
	return s.variants, s.err
}

type stubAuditor struct {
	records []model.AuditRecord
	err     error
}

func (s *stubAuditor) Audit(ctx context.Context, text string) ([]model.AuditRecord, error) {
	return s.records, s.err
}

type stubSearcher struct {
	results []model.SearchResult
	err     error
	queries []string
}

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	s.queries = append(s.queries, query)
	return s.results, s.err
}

type stubPublisher struct {
	result model.PublishResult
	texts  []string
}

func (s *stubPublisher) Publish(ctx context.Context, text string) model.PublishResult {
	s.texts = append(s.texts, text)
	return s.result
}

func newTestServer(drafter *stubDrafter, auditor *stubAuditor, searcher *stubSearcher, publisher *stubPublisher) *Server {
	if drafter == nil {
		drafter = &stubDrafter{}
	}
	if auditor == nil {
		auditor = &stubAuditor{}
	}
	if searcher == nil {
		searcher = &stubSearcher{}
	}
	if publisher == nil {
		publisher = &stubPublisher{}
	}
	return New(drafter, auditor, searcher, publisher, nil)
}

func postForm(t *testing.T, s *Server, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, s *Server, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHome(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "postfactum")
}

func TestHealthz(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUIGenerate_WithoutResearch(t *testing.T) {
	drafter := &stubDrafter{variants: []model.DraftVariant{{Variant: 1, Text: "Draft body text"}}}
	searcher := &stubSearcher{}
	s := newTestServer(drafter, nil, searcher, nil)

	rec := postForm(t, s, "/ui/generate", url.Values{
		"topic":    {"AI adoption"},
		"platform": {"linkedin"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Draft body text")
	assert.Empty(t, searcher.queries, "research search must be opt-in")
	assert.Equal(t, "AI adoption", drafter.lastReq.Topic.Title)
	assert.Equal(t, 3, drafter.lastReq.N)
}

func TestUIGenerate_WithResearch(t *testing.T) {
	drafter := &stubDrafter{variants: []model.DraftVariant{{Variant: 1, Text: "Grounded draft"}}}
	searcher := &stubSearcher{results: []model.SearchResult{
		{Title: "One", URL: "https://www.nasa.gov/a"},
		{Title: "Two", URL: "https://jpl.nasa.gov/b"},
		{Title: "Dup", URL: "https://www.nasa.gov/c"},
		{Title: "Three", URL: "https://space.com/d"},
		{Title: "Four", URL: "https://example.org/e"},
	}}
	s := newTestServer(drafter, nil, searcher, nil)

	rec := postForm(t, s, "/ui/generate", url.Values{
		"topic":        {"Mars rovers"},
		"angle":        {"budget"},
		"use_research": {"1"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, searcher.queries, 1)
	assert.Equal(t, "Mars rovers budget", searcher.queries[0])
	// de-duped, www-stripped, capped at 3
	assert.Contains(t, rec.Body.String(), "nasa.gov; jpl.nasa.gov; space.com")
	assert.Len(t, drafter.lastReq.ResearchSources, 5)
}

func TestUIGenerate_DraftErrorRendersInline(t *testing.T) {
	drafter := &stubDrafter{err: errors.New("draft generation failed (models tried: [gpt-5-mini])")}
	s := newTestServer(drafter, nil, nil, nil)

	rec := postForm(t, s, "/ui/generate", url.Values{"topic": {"T"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "draft generation failed")
}

func TestUIFactcheck_RendersAudits(t *testing.T) {
	auditor := &stubAuditor{records: []model.AuditRecord{
		{
			Claim:      "Acme was founded in 1999",
			Confidence: 0.95,
			Sources:    []model.SearchResult{{Title: "Src", URL: "https://a.example", Snippet: "snip"}},
		},
	}}
	s := newTestServer(nil, auditor, nil, nil)

	rec := postForm(t, s, "/ui/factcheck", url.Values{
		"text":     {"Acme was founded in 1999."},
		"platform": {"linkedin"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Acme was founded in 1999")
	assert.Contains(t, body, "0.95")
	assert.Contains(t, body, "1 claims")
}

func TestUIFactcheck_ErrorShowsEmptyAuditList(t *testing.T) {
	auditor := &stubAuditor{err: errors.New("missing SERPAPI_KEY")}
	s := newTestServer(nil, auditor, nil, nil)

	rec := postForm(t, s, "/ui/factcheck", url.Values{"text": {"some text"}, "platform": {"linkedin"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "missing SERPAPI_KEY")
	assert.Contains(t, body, "0 claims")
}

func TestUIFinalize(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	rec := postForm(t, s, "/ui/finalize", url.Values{
		"text":     {"Body [1] here."},
		"platform": {"linkedin"},
		"sources":  {"nasa.gov"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Body here.")
	assert.Contains(t, body, "Sources: nasa.gov")
}

func TestUIPublishBluesky(t *testing.T) {
	publisher := &stubPublisher{result: model.PublishResult{OK: true, Permalink: "https://bsky.app/profile/a/post/1"}}
	s := newTestServer(nil, nil, nil, publisher)

	rec := postForm(t, s, "/ui/publish/bluesky", url.Values{"text": {"final text"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://bsky.app/profile/a/post/1")
	assert.Equal(t, []string{"final text"}, publisher.texts)
}

func TestAPIDraft(t *testing.T) {
	drafter := &stubDrafter{variants: []model.DraftVariant{{Variant: 1, Text: "v1"}}}
	s := newTestServer(drafter, nil, nil, nil)

	rec := postJSON(t, s, "/api/draft", map[string]interface{}{
		"topic": map[string]string{"title": "T"},
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Variants []model.DraftVariant `json:"variants"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Variants, 1)
	assert.Equal(t, "v1", resp.Variants[0].Text)
	assert.Equal(t, "linkedin", drafter.lastReq.Platform, "platform defaults to linkedin")
}

func TestAPIDraft_BadRequest(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	rec := postJSON(t, s, "/api/draft", map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIFactcheck_ErrorIsBadGateway(t *testing.T) {
	auditor := &stubAuditor{err: errors.New("search upstream: HTTP 502")}
	s := newTestServer(nil, auditor, nil, nil)

	rec := postJSON(t, s, "/api/factcheck", map[string]string{"text": "t"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "search upstream")
}

func TestAPIFinalize(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	rec := postJSON(t, s, "/api/finalize", map[string]string{
		"text":     "Short post.",
		"platform": "bluesky",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "#buildinpublic")
}

func TestAPIPublish_UnsupportedPlatform(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	rec := postJSON(t, s, "/api/publish", map[string]string{"platform": "mastodon", "text": "t"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPIPublish_LinkedInExport(t *testing.T) {
	s := newTestServer(nil, nil, nil, nil)

	rec := postJSON(t, s, "/api/publish", map[string]string{"platform": "linkedin", "text": "t"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "LinkedIn composer")
}
