package llm

import (
	"context"
	"time"
)

// Provider defines the interface for LLM backends.
//
// Every completion requests a JSON-object response format so callers can
// rely on receiving an object, never a bare list or prose. An error from
// CompleteJSON is always a transport or API failure; a response that
// arrived but does not parse is the caller's to recover from.
type Provider interface {
	// Name returns the provider name
	Name() string

	// CompleteJSON sends a single user-role prompt to the given model and
	// returns the raw completion content.
	CompleteJSON(ctx context.Context, model, prompt string) (string, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// Config holds LLM provider configuration
type Config struct {
	// APIKey for the hosted API
	APIKey string

	// Model is the primary model name
	Model string

	// FallbackModel is tried when the primary model fails (draft path only)
	FallbackModel string

	// BaseURL for custom endpoints (tests, proxies)
	BaseURL string

	// Timeout per API request
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Model:         "gpt-5-mini",
		FallbackModel: "gpt-5-nano",
		Timeout:       60 * time.Second,
	}
}
