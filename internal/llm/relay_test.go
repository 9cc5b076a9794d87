package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestRelayProvider(t *testing.T, handler http.HandlerFunc) *RelayProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewRelayProvider(RelayConfig{
		Endpoint: server.URL + "/api/generate",
		APIKey:   "test-key",
		Model:    DefaultModel,
	}, 5*time.Second)
	if err != nil {
		t.Fatalf("new relay provider: %v", err)
	}
	return p
}

func writeCompletion(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   DefaultModel,
		"choices": []map[string]any{
			{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
		"usage": map[string]any{
			"prompt_tokens":     12,
			"completion_tokens": 34,
			"total_tokens":      46,
		},
	})
}

func TestRelayProvider_SendsChatBody(t *testing.T) {
	var got map[string]any
	var auth, path string
	p := newTestRelayProvider(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		writeCompletion(w, "hello")
	})

	resp, err := p.Generate(context.Background(), Request{
		Messages:    UserMessage("Generate a quiz"),
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if auth != "Bearer test-key" {
		t.Errorf("authorization = %q", auth)
	}
	if path != "/api/generate" {
		t.Errorf("path = %q", path)
	}
	if got["model"] != DefaultModel {
		t.Errorf("model = %v", got["model"])
	}
	if got["temperature"] != 0.2 {
		t.Errorf("temperature = %v", got["temperature"])
	}
	msgs, _ := got["messages"].([]any)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %v", got["messages"])
	}
	msg := msgs[0].(map[string]any)
	if msg["role"] != "user" || msg["content"] != "Generate a quiz" {
		t.Errorf("unexpected message: %v", msg)
	}

	if resp.Text != "hello" {
		t.Errorf("text = %q", resp.Text)
	}
	if resp.Usage.InputTokens != 12 || resp.Usage.OutputTokens != 34 {
		t.Errorf("unexpected usage: %+v", resp.Usage)
	}
}

func TestRelayProvider_ZeroTemperatureIsSent(t *testing.T) {
	var got map[string]any
	p := newTestRelayProvider(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		writeCompletion(w, "x")
	})

	if _, err := p.Generate(context.Background(), Request{Messages: UserMessage("x")}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got["temperature"]; !ok {
		t.Fatal("expected temperature in body")
	}
}

func TestRelayProvider_NonSuccessStatus(t *testing.T) {
	p := newTestRelayProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"Failed to fetch from Groq"}`))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("x")})
	var te *ErrTransport
	if !errors.As(err, &te) {
		t.Fatalf("expected ErrTransport, got %T (%v)", err, err)
	}
	if te.StatusCode != http.StatusBadGateway {
		t.Errorf("status = %d", te.StatusCode)
	}
	if te.Error() != `upstream 502: {"error":"Failed to fetch from Groq"}` {
		t.Errorf("message = %q", te.Error())
	}
}

func TestRelayProvider_RateLimitKeepsStatus(t *testing.T) {
	p := newTestRelayProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("x")})
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got %T", err)
	}
	var te *ErrTransport
	if !errors.As(err, &te) || te.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected wrapped ErrTransport with 429, got %v", err)
	}
}

func TestRelayProvider_MissingContent(t *testing.T) {
	p := newTestRelayProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("x")})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
}

func TestRelayProvider_MalformedBody(t *testing.T) {
	p := newTestRelayProvider(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>oops</html>`))
	})

	_, err := p.Generate(context.Background(), Request{Messages: UserMessage("x")})
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %T", err)
	}
}

func TestRelayProvider_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	p, err := NewRelayProvider(RelayConfig{Endpoint: url, APIKey: "k"}, time.Second)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	_, err = p.Generate(context.Background(), Request{Messages: UserMessage("x")})
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got %T (%v)", err, err)
	}
}

func TestNewRelayProvider_RequiresConfig(t *testing.T) {
	_, err := NewRelayProvider(RelayConfig{Endpoint: DefaultEndpoint}, time.Second)
	var cfgErr *ErrConfiguration
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}
