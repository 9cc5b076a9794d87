package relay

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abhisek/aiquiz/internal/llm"
)

// DefaultUpstreamURL is the chat-completions endpoint used in passthrough mode.
const DefaultUpstreamURL = "https://api.groq.com/openai/v1/chat/completions"

// Upstream modes.
const (
	UpstreamPassthrough = "passthrough"
	UpstreamOpenAI      = "openai"
	UpstreamAnthropic   = "anthropic"
	UpstreamGemini      = "gemini"
)

// Config holds the relay server configuration.
type Config struct {
	Port string

	// ProviderKey is injected into every upstream request. Clients never
	// see it.
	ProviderKey string

	// Model fills requests that name none. Translated upstreams always
	// use it.
	Model string

	// Upstream selects how requests reach the provider.
	// Values: "passthrough", "openai", "anthropic", "gemini"
	Upstream string

	// UpstreamURL is the passthrough target.
	UpstreamURL string

	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// UpstreamTimeout bounds a single upstream call.
	UpstreamTimeout time.Duration
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Port:            "3001",
		Model:           llm.DefaultModel,
		Upstream:        UpstreamPassthrough,
		UpstreamURL:     DefaultUpstreamURL,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    90 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		UpstreamTimeout: 60 * time.Second,
	}
}

// ConfigFromEnv builds a Config from environment variables, falling back
// to defaults for unset values.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	if p := os.Getenv("PORT"); p != "" {
		cfg.Port = p
	}
	cfg.ProviderKey = os.Getenv("GROQ_API_KEY")

	// GROQ_MODEL is what older deployments set; MODEL wins when both are.
	if m := os.Getenv("GROQ_MODEL"); m != "" {
		cfg.Model = m
	}
	if m := os.Getenv("MODEL"); m != "" {
		cfg.Model = m
	}

	if u := os.Getenv("RELAY_UPSTREAM"); u != "" {
		cfg.Upstream = u
	}
	if u := os.Getenv("RELAY_UPSTREAM_URL"); u != "" {
		cfg.UpstreamURL = u
	}
	if o := os.Getenv("RELAY_ALLOWED_ORIGINS"); o != "" {
		for _, origin := range strings.Split(o, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
			}
		}
	}

	return cfg
}

// Validate checks the upstream selection. A missing provider key is not an
// error in passthrough mode; the upstream rejects the call and the relay
// mirrors that status.
func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	switch c.Upstream {
	case UpstreamPassthrough:
		if c.UpstreamURL == "" {
			return fmt.Errorf("RELAY_UPSTREAM_URL must not be empty")
		}
	case UpstreamOpenAI, UpstreamAnthropic, UpstreamGemini:
		if c.ProviderKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required for the %s upstream", c.Upstream)
		}
	default:
		return fmt.Errorf("unknown relay upstream: %q", c.Upstream)
	}
	return nil
}

// llmConfig maps a translated upstream onto the client-side provider config.
func (c Config) llmConfig() llm.Config {
	cfg := llm.DefaultConfig()
	cfg.Provider = c.Upstream
	cfg.Timeout = c.UpstreamTimeout
	cfg.OpenAI.APIKey = c.ProviderKey
	cfg.OpenAI.Model = c.Model
	cfg.OpenAI.BaseURL = strings.TrimSuffix(c.UpstreamURL, "/chat/completions")
	cfg.Anthropic.APIKey = c.ProviderKey
	cfg.Gemini.APIKey = c.ProviderKey
	// The default model names a Groq model, which only the OpenAI-compatible
	// path can serve.
	if c.Model != llm.DefaultModel {
		cfg.Anthropic.Model = c.Model
		cfg.Gemini.Model = c.Model
	}
	return cfg
}
