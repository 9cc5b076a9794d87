package llm

import (
	"fmt"
	"os"
	"time"
)

const (
	DefaultEndpoint = "http://localhost:3001/api/generate"
	DefaultModel    = "llama-3.1-8b-instant"
)

// missingRelayConfig is shown verbatim when the relay endpoint or key is unset.
const missingRelayConfig = "AI endpoint or API key missing. Use .env or set USE_MOCK=true"

// Config holds all LLM provider configuration for the client side.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "relay", "openai", "anthropic", "gemini"
	Provider string

	Relay     RelayConfig
	OpenAI    OpenAIConfig
	Anthropic AnthropicConfig
	Gemini    GeminiConfig

	// Timeout bounds a single HTTP request to the provider. Default: 60s.
	Timeout time.Duration
}

// RelayConfig points the client at a relay backend speaking the
// chat-completions contract.
type RelayConfig struct {
	Endpoint string
	APIKey   string
	Model    string
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-haiku"
	BaseURL string
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string // Optional. Any OpenAI-compatible API, e.g. Groq.
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey string
	Model  string // Default: "gemini-flash"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "relay",
		Relay: RelayConfig{
			Endpoint: DefaultEndpoint,
			Model:    DefaultModel,
		},
		OpenAI: OpenAIConfig{
			Model: DefaultModel,
		},
		Anthropic: AnthropicConfig{
			Model: "claude-haiku",
		},
		Gemini: GeminiConfig{
			Model: "gemini-flash",
		},
		Timeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values. AI_API_KEY and MODEL apply to whichever
// provider AI_PROVIDER selects.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("AI_PROVIDER"); p != "" {
		cfg.Provider = p
	}

	// An explicitly empty AI_ENDPOINT counts as missing.
	if u, ok := os.LookupEnv("AI_ENDPOINT"); ok {
		cfg.Relay.Endpoint = u
	}

	key := os.Getenv("AI_API_KEY")
	cfg.Relay.APIKey = key
	cfg.OpenAI.APIKey = key
	cfg.Anthropic.APIKey = key
	cfg.Gemini.APIKey = key

	if m := os.Getenv("MODEL"); m != "" {
		cfg.Relay.Model = m
		cfg.OpenAI.Model = m
		cfg.Anthropic.Model = m
		cfg.Gemini.Model = m
	}

	if u := os.Getenv("AI_BASE_URL"); u != "" {
		cfg.OpenAI.BaseURL = u
		cfg.Anthropic.BaseURL = u
	}

	if t := os.Getenv("AI_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}

	return cfg
}

// Validate checks that the selected provider has what it needs to make a
// request. All failures are *ErrConfiguration.
func (c Config) Validate() error {
	switch c.Provider {
	case "relay":
		if c.Relay.Endpoint == "" || c.Relay.APIKey == "" {
			return &ErrConfiguration{Msg: missingRelayConfig}
		}
	case "openai":
		if c.OpenAI.APIKey == "" {
			return &ErrConfiguration{Msg: "AI_API_KEY is required for the openai provider"}
		}
	case "anthropic":
		if c.Anthropic.APIKey == "" {
			return &ErrConfiguration{Msg: "AI_API_KEY is required for the anthropic provider"}
		}
	case "gemini":
		if c.Gemini.APIKey == "" {
			return &ErrConfiguration{Msg: "AI_API_KEY is required for the gemini provider"}
		}
	default:
		return &ErrConfiguration{Msg: fmt.Sprintf("unknown AI provider: %q", c.Provider)}
	}
	return nil
}
