package relay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/abhisek/aiquiz/internal/llm"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// Upstream forwards a validated chat request and returns the provider's
// chat-completion JSON.
type Upstream interface {
	Forward(ctx context.Context, req *ChatRequest) ([]byte, error)
}

// UpstreamError is a non-success answer from the provider. The relay
// mirrors its status.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.StatusCode, e.Body)
}

// Passthrough posts the client's body, model filled in, to an
// OpenAI-compatible endpoint.
type Passthrough struct {
	client *resty.Client
	url    string
}

// NewPassthrough creates a passthrough upstream.
func NewPassthrough(url, key string, timeout time.Duration) *Passthrough {
	client := resty.New().
		SetTimeout(timeout).
		SetAuthToken(key).
		SetHeader("Content-Type", "application/json")
	return &Passthrough{client: client, url: url}
}

func (p *Passthrough) Forward(ctx context.Context, req *ChatRequest) ([]byte, error) {
	body, err := req.Body()
	if err != nil {
		return nil, err
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(body).
		Post(p.url)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, &UpstreamError{StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return resp.Body(), nil
}

// Translated serves requests through an llm.Provider and wraps the
// completion text in an OpenAI chat.completion envelope, so clients see
// the same contract whatever the provider.
type Translated struct {
	provider llm.Provider
}

func NewTranslated(p llm.Provider) *Translated {
	return &Translated{provider: p}
}

func (t *Translated) Forward(ctx context.Context, req *ChatRequest) ([]byte, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeRelay)

	// A provider SDK would reject these itself; answer the way an
	// OpenAI-compatible upstream does.
	msgs, err := req.ChatMessages()
	if err != nil {
		return nil, &UpstreamError{StatusCode: http.StatusBadRequest, Body: err.Error()}
	}

	lreq := llm.Request{
		Messages:  make([]llm.Message, 0, len(msgs)),
		MaxTokens: req.MaxTokens(),
	}
	for _, m := range msgs {
		lreq.Messages = append(lreq.Messages, llm.Message{Role: llm.Role(m.Role), Content: m.Content})
	}
	if t, ok := req.Temperature(); ok {
		lreq.Temperature = t
	}

	resp, err := t.provider.Generate(ctx, lreq)
	if err != nil {
		return nil, translateError(err)
	}

	finish := openai.FinishReasonStop
	if resp.StopReason == "max_tokens" {
		finish = openai.FinishReasonLength
	}

	out := openai.ChatCompletionResponse{
		ID:      "chatcmpl-" + uuid.NewString(),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   resp.Model,
		Choices: []openai.ChatCompletionChoice{{
			Index:        0,
			Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: resp.Text},
			FinishReason: finish,
		}},
		Usage: openai.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
		},
	}
	return json.Marshal(out)
}

// translateError maps provider failures onto the status the relay mirrors.
func translateError(err error) error {
	var (
		te  *llm.ErrTransport
		rl  *llm.ErrRateLimit
		un  *llm.ErrProviderUnavailable
		inv *llm.ErrInvalidResponse
	)
	switch {
	case errors.As(err, &rl):
		return &UpstreamError{StatusCode: http.StatusTooManyRequests, Body: err.Error()}
	case errors.As(err, &te):
		return &UpstreamError{StatusCode: te.StatusCode, Body: te.Body}
	case errors.As(err, &un), errors.As(err, &inv):
		return &UpstreamError{StatusCode: http.StatusBadGateway, Body: err.Error()}
	}
	return err
}
