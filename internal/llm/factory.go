package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/postfactum/internal/model"
)

// NewProvider creates a new LLM provider based on configuration.
// Only OpenAI is supported today; the factory exists so a second backend
// can be added without touching callers.
func NewProvider(name string, config Config) (Provider, error) {
	switch strings.ToLower(name) {
	case "", "openai":
		return NewOpenAIProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: openai)", name)
	}
}

// ConfigFromModel converts model.OpenAIConfig to llm.Config
func ConfigFromModel(mc model.OpenAIConfig) Config {
	return Config{
		APIKey:        mc.APIKey,
		Model:         mc.Model,
		FallbackModel: mc.FallbackModel,
		BaseURL:       mc.BaseURL,
		Timeout:       mc.Timeout,
	}
}
