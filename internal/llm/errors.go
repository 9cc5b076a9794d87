package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrNoContent means the completion carried no text. It is wrapped in
// *ErrInvalidResponse.
var ErrNoContent = errors.New("no content in AI response")

// ErrConfiguration means the client is missing an endpoint, key or
// provider selection. Its message is meant to be shown to the user as is.
type ErrConfiguration struct {
	Msg string
}

func (e *ErrConfiguration) Error() string { return e.Msg }

// ErrTransport is a non-success HTTP status from the relay or upstream.
type ErrTransport struct {
	StatusCode int
	Body       string
}

func (e *ErrTransport) Error() string {
	return fmt.Sprintf("upstream %d: %s", e.StatusCode, e.Body)
}

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the provider answered but the answer had no
// usable content or failed the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid LLM response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down or unreachable.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("LLM provider unavailable: %v", e.Err)
	}
	return "LLM provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }
