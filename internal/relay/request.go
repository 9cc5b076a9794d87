package relay

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ChatMessage is one entry of a chat-completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body accepted by POST /api/generate. Only the
// presence of messages is checked here; every other field goes upstream
// as sent and the upstream decides whether it is acceptable.
type ChatRequest struct {
	Messages []json.RawMessage `json:"messages" validate:"required"`

	// Model is the requested model, empty when the client named none or
	// sent something other than a string.
	Model string `json:"-"`

	// fields keeps every key the client sent so passthrough forwards the
	// body unchanged apart from the model.
	fields map[string]json.RawMessage
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DecodeChatRequest parses a request body. It fails only when the body is
// not a JSON object or messages is missing or not an array.
func DecodeChatRequest(body []byte) (*ChatRequest, error) {
	var req ChatRequest
	if err := json.Unmarshal(body, &req.fields); err != nil {
		return nil, fmt.Errorf("decode request: %w", err)
	}
	if raw, ok := req.fields["messages"]; ok {
		if err := json.Unmarshal(raw, &req.Messages); err != nil {
			return nil, fmt.Errorf("decode messages: %w", err)
		}
	}
	if raw, ok := req.fields["model"]; ok {
		json.Unmarshal(raw, &req.Model)
	}
	if err := validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("validate request: %w", err)
	}
	return &req, nil
}

// SetDefaultModel fills Model when the client named none.
func (r *ChatRequest) SetDefaultModel(model string) {
	if r.Model != "" {
		return
	}
	r.Model = model
	if r.fields == nil {
		r.fields = map[string]json.RawMessage{}
	}
	b, _ := json.Marshal(model)
	r.fields["model"] = b
}

// ChatMessages decodes the messages for upstreams that need them typed.
func (r *ChatRequest) ChatMessages() ([]ChatMessage, error) {
	out := make([]ChatMessage, 0, len(r.Messages))
	for i, raw := range r.Messages {
		var m ChatMessage
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("messages[%d]: %w", i, err)
		}
		if m.Role == "" {
			return nil, fmt.Errorf("messages[%d]: role is required", i)
		}
		out = append(out, m)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("messages must not be empty")
	}
	return out, nil
}

// Temperature returns the requested temperature if it is a number.
func (r *ChatRequest) Temperature() (float64, bool) {
	var t float64
	raw, ok := r.fields["temperature"]
	if !ok || json.Unmarshal(raw, &t) != nil {
		return 0, false
	}
	return t, true
}

// MaxTokens returns the requested token budget, zero when absent or not
// an integer.
func (r *ChatRequest) MaxTokens() int {
	var n int
	if raw, ok := r.fields["max_tokens"]; ok {
		json.Unmarshal(raw, &n)
	}
	return n
}

// Body is the JSON forwarded upstream.
func (r *ChatRequest) Body() ([]byte, error) {
	return json.Marshal(r.fields)
}
