// Package publish posts finalized text to social networks.
package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/ppiankov/postfactum/internal/model"
)

const sessionCacheKey = "bluesky:session"

// BlueskyClient publishes posts over the ATProto XRPC API.
// The access token from createSession is cached with a TTL so repeated
// publishes reuse the session instead of logging in every time.
type BlueskyClient struct {
	httpClient *http.Client
	sessions   *gocache.Cache
	config     model.BlueskyConfig
}

// NewBlueskyClient creates a new Bluesky client
func NewBlueskyClient(cfg model.BlueskyConfig) *BlueskyClient {
	ttl := cfg.SessionTTL
	if ttl == 0 {
		ttl = 90 * time.Minute
	}

	return &BlueskyClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		sessions:   gocache.New(ttl, 10*time.Minute),
		config:     cfg,
	}
}

type blueskySession struct {
	AccessJwt string `json:"accessJwt"`
	Did       string `json:"did"`
	Handle    string `json:"handle"`
}

type createRecordRequest struct {
	Repo       string      `json:"repo"`
	Collection string      `json:"collection"`
	Record     interface{} `json:"record"`
}

type postRecord struct {
	Type      string `json:"$type"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

type createRecordResponse struct {
	URI string `json:"uri"`
	CID string `json:"cid"`
}

// Publish posts text to Bluesky. Failures come back as a result with
// OK=false and a message, never as an error; the UI renders them inline.
func (c *BlueskyClient) Publish(ctx context.Context, text string) model.PublishResult {
	session, err := c.session(ctx)
	if err != nil {
		return model.PublishResult{OK: false, Message: fmt.Sprintf("Bluesky error: %v", err)}
	}

	uri, err := c.createPost(ctx, session, text)
	if err != nil {
		// Session may have expired early; retry once with a fresh login
		c.sessions.Delete(sessionCacheKey)
		session, err = c.session(ctx)
		if err != nil {
			return model.PublishResult{OK: false, Message: fmt.Sprintf("Bluesky error: %v", err)}
		}
		uri, err = c.createPost(ctx, session, text)
		if err != nil {
			return model.PublishResult{OK: false, Message: fmt.Sprintf("Bluesky error: %v", err)}
		}
	}

	return model.PublishResult{
		OK:        true,
		Permalink: fmt.Sprintf("https://bsky.app/profile/%s/post/%s", c.config.Handle, rkeyOf(uri)),
	}
}

// session returns a cached session or logs in for a new one
func (c *BlueskyClient) session(ctx context.Context) (*blueskySession, error) {
	if cached, found := c.sessions.Get(sessionCacheKey); found {
		return cached.(*blueskySession), nil
	}

	if c.config.Handle == "" || c.config.AppPassword == "" {
		return nil, fmt.Errorf("bluesky handle and app password are required")
	}

	payload := map[string]string{
		"identifier": c.config.Handle,
		"password":   c.config.AppPassword,
	}

	var session blueskySession
	if err := c.xrpc(ctx, "com.atproto.server.createSession", "", payload, &session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	c.sessions.Set(sessionCacheKey, &session, gocache.DefaultExpiration)
	return &session, nil
}

func (c *BlueskyClient) createPost(ctx context.Context, session *blueskySession, text string) (string, error) {
	req := createRecordRequest{
		Repo:       session.Did,
		Collection: "app.bsky.feed.post",
		Record: postRecord{
			Type:      "app.bsky.feed.post",
			Text:      text,
			CreatedAt: time.Now().UTC().Format(time.RFC3339),
		},
	}

	var resp createRecordResponse
	if err := c.xrpc(ctx, "com.atproto.repo.createRecord", session.AccessJwt, req, &resp); err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	return resp.URI, nil
}

// xrpc posts one JSON body to an XRPC procedure and decodes the response
func (c *BlueskyClient) xrpc(ctx context.Context, method, token string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	url := strings.TrimSuffix(c.config.Host, "/") + "/xrpc/" + method
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s: HTTP %d: %s", method, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// rkeyOf extracts the record key from an at:// URI
func rkeyOf(uri string) string {
	if uri == "" {
		return ""
	}
	parts := strings.Split(uri, "/")
	return parts[len(parts)-1]
}
