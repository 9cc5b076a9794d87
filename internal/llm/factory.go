package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/aiquiz/internal/store"
)

// NewProvider creates a Provider from configuration, wrapped with the
// logging decorator. Retries are left to callers, which retry the whole
// request-and-validate cycle rather than the transport alone.
func NewProvider(ctx context.Context, cfg Config, eventRepo store.EventRepo) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case "relay":
		base, err = NewRelayProvider(cfg.Relay, cfg.Timeout)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	default:
		return nil, &ErrConfiguration{Msg: fmt.Sprintf("unknown AI provider: %q", cfg.Provider)}
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	return WithLogging(base, cfg.Provider, eventRepo), nil
}

// Unconfigured is a Provider that fails every call with err, so a missing
// key surfaces when the user asks for a quiz rather than at startup.
type Unconfigured struct {
	Err error
}

func (u Unconfigured) Generate(context.Context, Request) (*Response, error) {
	return nil, u.Err
}

func (u Unconfigured) ModelID() string { return "unconfigured" }
