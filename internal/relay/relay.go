// Package relay is the thin server that forwards chat-completion requests
// to the AI provider, injecting the provider key server-side.
package relay

import (
	"context"
	"fmt"
	"net/http"

	"github.com/abhisek/aiquiz/internal/llm"
	"github.com/abhisek/aiquiz/internal/store"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// NewUpstream builds the upstream cfg selects. Translated upstreams log
// every call to events; events may be nil.
func NewUpstream(ctx context.Context, cfg Config, events store.EventRepo) (Upstream, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Upstream == UpstreamPassthrough {
		return NewPassthrough(cfg.UpstreamURL, cfg.ProviderKey, cfg.UpstreamTimeout), nil
	}
	p, err := llm.NewProvider(ctx, cfg.llmConfig(), events)
	if err != nil {
		return nil, fmt.Errorf("relay upstream: %w", err)
	}
	return NewTranslated(p), nil
}

// New builds the complete relay HTTP handler.
func New(ctx context.Context, cfg Config, events store.EventRepo) (http.Handler, error) {
	up, err := NewUpstream(ctx, cfg, events)
	if err != nil {
		return nil, err
	}
	return NewRouter(NewHandler(up, cfg.Model), cfg.AllowedOrigins), nil
}

// StartLambda serves handler behind API Gateway. It never returns.
func StartLambda(handler http.Handler) {
	lambda.Start(httpadapter.New(handler).ProxyWithContext)
}
