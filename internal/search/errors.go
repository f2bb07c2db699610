package search

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey indicates no SerpApi key is configured.
// Not retryable; callers surface it immediately.
var ErrMissingAPIKey = errors.New("missing SERPAPI_KEY")

// UpstreamError indicates the search provider call failed at the network
// level or returned a non-success status. The client never retries it;
// retry policy belongs to the caller.
type UpstreamError struct {
	StatusCode int   // 0 when the request never completed
	Err        error // Underlying transport error, if any
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("search upstream: %v", e.Err)
	}
	return fmt.Sprintf("search upstream: HTTP %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
