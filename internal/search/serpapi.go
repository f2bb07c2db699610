// Package search adapts the SerpApi web search API into a uniform result set.
package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/ppiankov/postfactum/internal/model"
	"github.com/ppiankov/postfactum/internal/worker"
)

const defaultBaseURL = "https://serpapi.com/search.json"

// SourceTag marks results as coming from this provider
const SourceTag = "serpapi"

// Client issues web search queries against SerpApi.
// Every call is a fresh network round-trip; results are never cached.
type Client struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	baseURL    string
	config     model.SerpAPIConfig
}

// NewClient creates a new search client from the injected configuration
func NewClient(cfg model.SerpAPIConfig, limiter *worker.Limiter) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    limiter,
		baseURL:    strings.TrimSuffix(baseURL, "?"),
		config:     cfg,
	}
}

// serpResponse covers the two result-list shapes SerpApi returns.
// Organic results are the primary shape; some engines answer with a
// plain "results" list instead.
type serpResponse struct {
	OrganicResults []serpItem `json:"organic_results"`
	Results        []serpItem `json:"results"`
}

type serpItem struct {
	Title                   string   `json:"title"`
	Link                    string   `json:"link"`
	URL                     string   `json:"url"`
	Snippet                 string   `json:"snippet"`
	SnippetHighlightedWords []string `json:"snippet_highlighted_words"`
}

// Search runs one query and returns at most limit normalized results.
// limit <= 0 means the configured default count. Missing fields map to
// empty strings, never to absent entries, and provider order is kept.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]model.SearchResult, error) {
	if c.config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if limit <= 0 {
		limit = c.config.Num
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx, hostOf(c.baseURL)); err != nil {
			return nil, &UpstreamError{Err: err}
		}
	}

	params := url.Values{}
	params.Set("engine", c.config.Engine)
	params.Set("q", query)
	params.Set("api_key", c.config.APIKey)
	params.Set("location", c.config.Location)
	params.Set("num", strconv.Itoa(limit))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &UpstreamError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &UpstreamError{Err: err}
	}

	var data serpResponse
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, &UpstreamError{Err: fmt.Errorf("decode search response: %w", err)}
	}

	return normalize(data, limit), nil
}

// normalize maps provider items to the uniform record set, preferring the
// organic list and falling back to the plain results list when it is empty.
func normalize(data serpResponse, limit int) []model.SearchResult {
	results := make([]model.SearchResult, 0, limit)

	for _, item := range data.OrganicResults {
		snippet := item.Snippet
		if snippet == "" {
			snippet = strings.Join(item.SnippetHighlightedWords, " ")
		}
		results = append(results, model.SearchResult{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: snippet,
			Source:  SourceTag,
		})
	}

	if len(results) == 0 {
		fallback := data.Results
		if len(fallback) > limit {
			fallback = fallback[:limit]
		}
		for _, item := range fallback {
			link := item.Link
			if link == "" {
				link = item.URL
			}
			results = append(results, model.SearchResult{
				Title:   item.Title,
				URL:     link,
				Snippet: item.Snippet,
				Source:  SourceTag,
			})
		}
	}

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

func hostOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return parsed.Host
}
