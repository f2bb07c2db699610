package model

import "time"

// Config is the process-wide configuration. It is built once at startup
// (defaults -> config file -> environment -> flags) and handed to each
// component constructor; nothing reads ambient state after that.
type Config struct {
	OpenAI      OpenAIConfig      `yaml:"openai" mapstructure:"openai"`
	SerpAPI     SerpAPIConfig     `yaml:"serpapi" mapstructure:"serpapi"`
	Bluesky     BlueskyConfig     `yaml:"bluesky" mapstructure:"bluesky"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
}

// OpenAIConfig configures the LLM provider
type OpenAIConfig struct {
	APIKey        string        `yaml:"api_key" mapstructure:"api_key"`
	Model         string        `yaml:"model" mapstructure:"model"`
	FallbackModel string        `yaml:"fallback_model" mapstructure:"fallback_model"`
	BaseURL       string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// SerpAPIConfig configures the web search provider
type SerpAPIConfig struct {
	APIKey   string        `yaml:"api_key" mapstructure:"api_key"`
	Engine   string        `yaml:"engine" mapstructure:"engine"`     // google, duckduckgo, yahoo, ...
	Location string        `yaml:"location" mapstructure:"location"` // Location hint passed to the engine
	Num      int           `yaml:"num" mapstructure:"num"`           // Default result count per query
	BaseURL  string        `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RateRPS  float64       `yaml:"rate_rps" mapstructure:"rate_rps"` // Outbound requests per second
	Burst    int           `yaml:"burst" mapstructure:"burst"`
}

// BlueskyConfig configures ATProto publishing
type BlueskyConfig struct {
	Handle      string        `yaml:"handle" mapstructure:"handle"`
	AppPassword string        `yaml:"app_password" mapstructure:"app_password"`
	Host        string        `yaml:"host" mapstructure:"host"`
	SessionTTL  time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
}

// ServerConfig configures the web UI
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// ConcurrencyConfig bounds the per-claim fan-out during an audit
type ConcurrencyConfig struct {
	SearchWorkers int `yaml:"search_workers" mapstructure:"search_workers"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		OpenAI: OpenAIConfig{
			Model:         "gpt-5-mini",
			FallbackModel: "gpt-5-nano",
			Timeout:       60 * time.Second,
		},
		SerpAPI: SerpAPIConfig{
			Engine:   "google",
			Location: "India",
			Num:      5,
			Timeout:  20 * time.Second,
			RateRPS:  2,
			Burst:    5,
		},
		Bluesky: BlueskyConfig{
			Host:       "https://bsky.social",
			SessionTTL: 90 * time.Minute,
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
		Concurrency: ConcurrencyConfig{
			SearchWorkers: 4,
		},
	}
}
