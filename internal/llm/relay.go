package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	openai "github.com/sashabaranov/go-openai"
)

// RelayProvider posts chat-completion requests to the relay backend, which
// injects the real provider key server-side. The relay path is fixed
// (e.g. /api/generate), so the request is sent with resty and only the
// wire types come from go-openai.
type RelayProvider struct {
	client   *resty.Client
	endpoint string
	model    string
}

// NewRelayProvider creates a provider for the given relay endpoint.
func NewRelayProvider(cfg RelayConfig, timeout time.Duration) (*RelayProvider, error) {
	if cfg.Endpoint == "" || cfg.APIKey == "" {
		return nil, &ErrConfiguration{Msg: missingRelayConfig}
	}

	client := resty.New().
		SetTimeout(timeout).
		SetAuthToken(cfg.APIKey).
		SetHeader("Content-Type", "application/json")

	return &RelayProvider{
		client:   client,
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
	}, nil
}

// relayRequest is the body the relay accepts. Temperature is always sent,
// including zero.
type relayRequest struct {
	Messages    []openai.ChatCompletionMessage `json:"messages"`
	Model       string                         `json:"model,omitempty"`
	Temperature float64                        `json:"temperature"`
	MaxTokens   int                            `json:"max_tokens,omitempty"`
}

func (p *RelayProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	body := relayRequest{
		Messages:    buildOpenAIMessages(req),
		Model:       p.model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(p.endpoint)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ErrProviderUnavailable{Err: err}
	}

	if !resp.IsSuccess() {
		if resp.StatusCode() == http.StatusTooManyRequests {
			return nil, &ErrRateLimit{Err: &ErrTransport{StatusCode: resp.StatusCode(), Body: resp.String()}}
		}
		return nil, &ErrTransport{StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var completion openai.ChatCompletionResponse
	if err := json.Unmarshal(resp.Body(), &completion); err != nil {
		return nil, &ErrInvalidResponse{
			Content: resp.Body(),
			Err:     fmt.Errorf("decode completion: %w", err),
		}
	}

	out, err := openAIResponse(req, completion)
	if err != nil {
		return nil, err
	}
	if out.Model == "" {
		out.Model = p.model
	}
	return out, nil
}

func (p *RelayProvider) ModelID() string {
	return p.model
}
