package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/abhisek/aiquiz/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completion = `{"id":"chatcmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"topic\":\"X\"}"},"finish_reason":"stop"}]}`

// fakeUpstream answers with a fixed body or error and records requests.
type fakeUpstream struct {
	mu   sync.Mutex
	body []byte
	err  error
	got  []*ChatRequest
}

func (f *fakeUpstream) Forward(_ context.Context, req *ChatRequest) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.got = append(f.got, req)
	return f.body, f.err
}

func newTestServer(t *testing.T, up Upstream) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewHandler(up, "llama-3.1-8b-instant"), nil))
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url, body string) (*http.Response, string) {
	t.Helper()
	resp, err := http.Post(url+"/api/generate", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeUpstream{})

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "AI Backend is running", string(body))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

func TestGenerate_Success(t *testing.T) {
	up := &fakeUpstream{body: []byte(completion)}
	srv := newTestServer(t, up)

	resp, body := post(t, srv.URL, `{"messages":[{"role":"user","content":"quiz me"}],"temperature":0.2}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.Equal(t, completion, body, "upstream JSON must be forwarded unchanged")

	require.Len(t, up.got, 1)
	assert.Equal(t, "llama-3.1-8b-instant", up.got[0].Model, "default model is filled in")
	temp, ok := up.got[0].Temperature()
	require.True(t, ok)
	assert.Equal(t, 0.2, temp)
}

func TestGenerate_KeepsClientModel(t *testing.T) {
	up := &fakeUpstream{body: []byte(completion)}
	srv := newTestServer(t, up)

	post(t, srv.URL, `{"messages":[{"role":"user","content":"hi"}],"model":"gpt-4o-mini"}`)
	require.Len(t, up.got, 1)
	assert.Equal(t, "gpt-4o-mini", up.got[0].Model)
}

func TestGenerate_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing messages", `{"model":"x"}`},
		{"null messages", `{"messages":null}`},
		{"null body", `null`},
		{"malformed json", `{"messages":`},
		{"messages not an array", `{"messages":"hi"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUpstream{body: []byte(completion)}
			srv := newTestServer(t, up)

			resp, body := post(t, srv.URL, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var out map[string]string
			require.NoError(t, json.Unmarshal([]byte(body), &out))
			assert.NotEmpty(t, out["error"])
			assert.Empty(t, up.got, "upstream must not be called")
		})
	}
}

// Anything beyond a missing messages array is the upstream's call.
func TestGenerate_ForwardsLooseBodies(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty messages", `{"messages":[]}`},
		{"message without role", `{"messages":[{"content":"hi"}]}`},
		{"temperature out of range", `{"messages":[{"role":"user","content":"hi"}],"temperature":3}`},
		{"temperature not a number", `{"messages":[{"role":"user","content":"hi"}],"temperature":"warm"}`},
		{"model not a string", `{"messages":[{"role":"user","content":"hi"}],"model":7}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			up := &fakeUpstream{err: &UpstreamError{StatusCode: http.StatusUnprocessableEntity, Body: "bad field"}}
			srv := newTestServer(t, up)

			resp, body := post(t, srv.URL, tt.body)
			assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "upstream status is mirrored")
			assert.Contains(t, body, "bad field")
			require.Len(t, up.got, 1, "request must reach the upstream")
		})
	}
}

func TestTranslatedRejectsMalformedMessages(t *testing.T) {
	mock := llm.NewMockProvider()
	srv := newTestServer(t, NewTranslated(mock))

	resp, body := post(t, srv.URL, `{"messages":[{"content":"hi"}]}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body, "role is required")
	assert.Empty(t, mock.Calls)
}

func TestGenerate_MirrorsUpstreamStatus(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusTooManyRequests, http.StatusBadGateway} {
		up := &fakeUpstream{err: &UpstreamError{StatusCode: status, Body: `{"error":{"message":"nope"}}`}}
		srv := newTestServer(t, up)

		resp, body := post(t, srv.URL, `{"messages":[{"role":"user","content":"hi"}]}`)
		assert.Equal(t, status, resp.StatusCode)

		var out map[string]string
		require.NoError(t, json.Unmarshal([]byte(body), &out))
		assert.NotEmpty(t, out["error"])
		assert.Equal(t, `{"error":{"message":"nope"}}`, out["details"])
	}
}

func TestGenerate_UnexpectedFailure(t *testing.T) {
	srv := newTestServer(t, &fakeUpstream{err: errors.New("dial tcp: connection refused")})

	resp, body := post(t, srv.URL, `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Server Error"}`, body)
}

// Browsers list request headers lowercase and comma-separated.
func TestCORSPreflight(t *testing.T) {
	srv := newTestServer(t, &fakeUpstream{})

	preflight := func(headers string) *http.Response {
		t.Helper()
		req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/generate", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		req.Header.Set("Access-Control-Request-Headers", headers)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		return resp
	}

	resp := preflight("authorization,content-type")
	assert.Less(t, resp.StatusCode, 300)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))

	resp = preflight("content-type,x-internal-debug")
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"), "disallowed header must not be granted")
}

func TestPassthroughForwardsBody(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, completion)
	}))
	defer upstream.Close()

	srv := newTestServer(t, NewPassthrough(upstream.URL, "gsk-secret", 5*time.Second))

	resp, body := post(t, srv.URL, `{"messages":[{"role":"user","content":"hi"}],"temperature":0.7,"top_p":0.9}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, completion, body)

	assert.Equal(t, "Bearer gsk-secret", gotAuth)
	assert.Equal(t, "llama-3.1-8b-instant", gotBody["model"])
	assert.Equal(t, 0.9, gotBody["top_p"], "unknown fields are forwarded")
	assert.Equal(t, 0.7, gotBody["temperature"])
}

func TestPassthroughUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "over capacity")
	}))
	defer upstream.Close()

	srv := newTestServer(t, NewPassthrough(upstream.URL, "k", 5*time.Second))

	resp, body := post(t, srv.URL, `{"messages":[{"role":"user","content":"hi"}]}`)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, body, "over capacity")
}

func TestTranslatedEnvelope(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Text:  `{"topic":"Fitness"}`,
		Usage: llm.Usage{InputTokens: 12, OutputTokens: 30},
	})
	srv := newTestServer(t, NewTranslated(mock))

	resp, body := post(t, srv.URL, `{"messages":[{"role":"system","content":"be brief"},{"role":"user","content":"hi"}],"temperature":0.2}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		ID      string `json:"id"`
		Object  string `json:"object"`
		Choices []struct {
			Message struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"message"`
			FinishReason string `json:"finish_reason"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, strings.HasPrefix(out.ID, "chatcmpl-"))
	assert.Equal(t, "chat.completion", out.Object)
	require.Len(t, out.Choices, 1)
	assert.Equal(t, "assistant", out.Choices[0].Message.Role)
	assert.Equal(t, `{"topic":"Fitness"}`, out.Choices[0].Message.Content)
	assert.Equal(t, "stop", out.Choices[0].FinishReason)
	assert.Equal(t, 42, out.Usage.TotalTokens)

	require.Len(t, mock.Calls, 1)
	assert.Equal(t, llm.RoleSystem, mock.Calls[0].Messages[0].Role)
	assert.Equal(t, 0.2, mock.Calls[0].Temperature)
}

func TestTranslatedErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&llm.ErrTransport{StatusCode: 401, Body: "bad key"}, http.StatusUnauthorized},
		{&llm.ErrRateLimit{Err: errors.New("slow down")}, http.StatusTooManyRequests},
		{&llm.ErrProviderUnavailable{Err: errors.New("down")}, http.StatusBadGateway},
		{&llm.ErrInvalidResponse{Err: llm.ErrNoContent}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		srv := newTestServer(t, NewTranslated(llm.NewMockProvider(llm.MockResponse{Err: tt.err})))
		resp, _ := post(t, srv.URL, `{"messages":[{"role":"user","content":"hi"}]}`)
		assert.Equal(t, tt.want, resp.StatusCode, "error %v", tt.err)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("GROQ_API_KEY", "gsk")
	t.Setenv("GROQ_MODEL", "llama-3.3-70b-versatile")
	t.Setenv("MODEL", "")
	t.Setenv("RELAY_ALLOWED_ORIGINS", "http://a.test, http://b.test,")

	cfg := ConfigFromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gsk", cfg.ProviderKey)
	assert.Equal(t, "llama-3.3-70b-versatile", cfg.Model)
	assert.Equal(t, UpstreamPassthrough, cfg.Upstream)
	assert.Equal(t, DefaultUpstreamURL, cfg.UpstreamURL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.AllowedOrigins)
	assert.NoError(t, cfg.Validate())
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, cfg.Validate(), "passthrough works without a key")

	cfg.Upstream = UpstreamAnthropic
	assert.Error(t, cfg.Validate())

	cfg.ProviderKey = "k"
	assert.NoError(t, cfg.Validate())

	cfg.Upstream = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestLLMConfigForOpenAIUpstream(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Upstream = UpstreamOpenAI
	cfg.ProviderKey = "k"

	lc := cfg.llmConfig()
	assert.Equal(t, "openai", lc.Provider)
	assert.Equal(t, "https://api.groq.com/openai/v1", lc.OpenAI.BaseURL)
	assert.Equal(t, llm.DefaultModel, lc.OpenAI.Model)
	assert.NoError(t, lc.Validate())
}
