package quizgen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/aiquiz/internal/llm"
	"github.com/abhisek/aiquiz/internal/quiz"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.QuizRetry.Delay = time.Millisecond
	cfg.MockQuizDelay = 0
	cfg.MockFeedbackDelay = 0
	return cfg
}

func validQuizText(t *testing.T, topic string) string {
	t.Helper()
	b, err := json.Marshal(MockQuiz(topic))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(b)
}

func TestGenerateQuiz_FirstAttemptSucceeds(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: validQuizText(t, "Nutrition")})
	svc := NewService(mock, testConfig())

	p, err := svc.GenerateQuiz(context.Background(), "Nutrition")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Topic != "Nutrition" || len(p.Questions) != quiz.QuestionCount {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}

	req := mock.Calls[0]
	if len(req.Messages) != 1 || req.Messages[0].Role != llm.RoleUser {
		t.Fatalf("expected a single user message, got %+v", req.Messages)
	}
	if !strings.Contains(req.Messages[0].Content, `Generate for topic: "Nutrition"`) {
		t.Errorf("prompt does not name the topic:\n%s", req.Messages[0].Content)
	}
	if req.Temperature != 0.2 {
		t.Errorf("temperature = %v, want 0.2", req.Temperature)
	}
	if req.Schema != nil {
		t.Error("schema must not be sent unless structured output is enabled")
	}
}

func TestGenerateQuiz_RetriesThenSucceeds(t *testing.T) {
	tests := []struct {
		name  string
		first llm.MockResponse
	}{
		{"transport error", llm.MockResponse{Err: &llm.ErrTransport{StatusCode: 502, Body: "bad gateway"}}},
		{"malformed content", llm.MockResponse{Text: "Sorry, I can't do that."}},
		{"schema violation", llm.MockResponse{Text: `{"topic":"Fitness","questions":[]}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			second := validQuizText(t, "Fitness")
			mock := llm.NewMockProvider(tt.first, llm.MockResponse{Text: "Here you go:\n" + second + "\nEnjoy!"})
			svc := NewService(mock, testConfig())

			p, err := svc.GenerateQuiz(context.Background(), "Fitness")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if p.Questions[0].ID != "fitness-1" {
				t.Fatalf("expected second attempt's payload, got %+v", p.Questions[0])
			}
			if mock.CallCount() != 2 {
				t.Fatalf("expected 2 calls, got %d", mock.CallCount())
			}
		})
	}
}

func TestGenerateQuiz_BothAttemptsFail(t *testing.T) {
	second := &llm.ErrTransport{StatusCode: 503, Body: "overloaded"}
	mock := llm.NewMockProvider(
		llm.MockResponse{Text: "not json"},
		llm.MockResponse{Err: second},
	)
	svc := NewService(mock, testConfig())

	_, err := svc.GenerateQuiz(context.Background(), "Wellness")
	var te *llm.ErrTransport
	if !errors.As(err, &te) || te != second {
		t.Fatalf("expected the second attempt's error, got %v", err)
	}
	if mock.CallCount() != 2 {
		t.Fatalf("expected exactly 2 calls, got %d", mock.CallCount())
	}
}

func TestGenerateQuiz_LastErrorIsContentParse(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrTransport{StatusCode: 500, Body: "boom"}},
		llm.MockResponse{Text: "{ broken"},
	)
	svc := NewService(mock, testConfig())

	_, err := svc.GenerateQuiz(context.Background(), "Wellness")
	var cpe *quiz.ContentParseError
	if !errors.As(err, &cpe) {
		t.Fatalf("expected ContentParseError, got %T (%v)", err, err)
	}
	if UserMessage(err) != genericFailure {
		t.Errorf("UserMessage = %q, want generic message", UserMessage(err))
	}
}

func TestGenerateQuiz_ConfigurationErrorNotRetried(t *testing.T) {
	cfgErr := &llm.ErrConfiguration{Msg: "AI endpoint or API key missing. Use .env or set USE_MOCK=true"}
	provider := llm.Unconfigured{Err: cfgErr}
	svc := NewService(provider, testConfig())

	_, err := svc.GenerateQuiz(context.Background(), "Fitness")
	var got *llm.ErrConfiguration
	if !errors.As(err, &got) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
	if UserMessage(err) != cfgErr.Msg {
		t.Errorf("UserMessage = %q, want configuration message verbatim", UserMessage(err))
	}

	if _, err := svc.GenerateFeedback(context.Background(), "Fitness", 3); !errors.As(err, &got) {
		t.Fatalf("feedback: expected ErrConfiguration, got %v", err)
	}
}

func TestGenerateQuiz_NoAttempts(t *testing.T) {
	cfg := testConfig()
	cfg.QuizRetry.MaxAttempts = 0
	svc := NewService(llm.NewMockProvider(), cfg)

	_, err := svc.GenerateQuiz(context.Background(), "Fitness")
	if !errors.Is(err, ErrGenerateFailed) {
		t.Fatalf("expected ErrGenerateFailed, got %v", err)
	}
	if err.Error() != "failed to generate quiz" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGenerateQuiz_StructuredOutputSendsSchema(t *testing.T) {
	cfg := testConfig()
	cfg.StructuredOutput = true
	mock := llm.NewMockProvider(llm.MockResponse{Text: validQuizText(t, "Tech Trends")})
	svc := NewService(mock, cfg)

	if _, err := svc.GenerateQuiz(context.Background(), "Tech Trends"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.Calls[0].Schema != PayloadSchema {
		t.Fatal("expected PayloadSchema on the request")
	}
}

func TestGenerateQuiz_MockFitness(t *testing.T) {
	cfg := testConfig()
	cfg.UseMock = true
	svc := NewService(nil, cfg)

	p, err := svc.GenerateQuiz(context.Background(), "Fitness")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Topic != "Fitness" || len(p.Questions) != 5 {
		t.Fatalf("unexpected payload: %+v", p)
	}
	for i, q := range p.Questions {
		wantID := "fitness-" + string(rune('1'+i))
		if q.ID != wantID {
			t.Errorf("question %d id = %q, want %q", i, q.ID, wantID)
		}
		if len(q.Options) != 4 {
			t.Errorf("question %d has %d options", i, len(q.Options))
		}
		if q.CorrectIndex != i%4 {
			t.Errorf("question %d correctIndex = %d, want %d", i, q.CorrectIndex, i%4)
		}
	}

	// Mock output must pass the same validator as the real path.
	b, _ := json.Marshal(p)
	if _, err := quiz.ExtractPayload(string(b)); err != nil {
		t.Fatalf("mock quiz failed validation: %v", err)
	}
}

func TestGenerateQuiz_MockHonorsCancellation(t *testing.T) {
	cfg := testConfig()
	cfg.UseMock = true
	cfg.MockQuizDelay = time.Hour
	svc := NewService(nil, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.GenerateQuiz(ctx, "Fitness"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		topic, want string
	}{
		{"Fitness", "fitness"},
		{"Tech Trends", "tech-trends"},
		{"Mental   Health", "mental-health"},
		{"  Deep\tSea ", "-deep-sea-"},
		{" Fitness ", "-fitness-"},
	}
	for _, tt := range tests {
		if got := Slug(tt.topic); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.topic, got, tt.want)
		}
	}

	if got := MockQuiz(" Fitness ").Questions[0].ID; got != "-fitness--1" {
		t.Errorf("mock id = %q, want -fitness--1", got)
	}
}

func TestGenerateFeedback(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "Great job on Nutrition! Keep going. Tip: read labels."})
	svc := NewService(mock, testConfig())

	fb, err := svc.GenerateFeedback(context.Background(), "Nutrition", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Score != 4 || !strings.HasPrefix(fb.Message, "Great job") {
		t.Fatalf("unexpected feedback: %+v", fb)
	}

	req := mock.Calls[0]
	if req.Temperature != 0.7 {
		t.Errorf("temperature = %v, want 0.7", req.Temperature)
	}
	if !strings.Contains(req.Messages[0].Content, `score 4/5 on topic "Nutrition"`) {
		t.Errorf("unexpected prompt:\n%s", req.Messages[0].Content)
	}
}

func TestGenerateFeedback_NoRetry(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrTransport{StatusCode: 500, Body: "boom"}},
		llm.MockResponse{Text: "never used"},
	)
	svc := NewService(mock, testConfig())

	if _, err := svc.GenerateFeedback(context.Background(), "Fitness", 2); err == nil {
		t.Fatal("expected error")
	}
	if mock.CallCount() != 1 {
		t.Fatalf("expected a single attempt, got %d", mock.CallCount())
	}
}

func TestGenerateFeedback_MissingContent(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrInvalidResponse{Err: llm.ErrNoContent}})
	svc := NewService(mock, testConfig())

	fb, err := svc.GenerateFeedback(context.Background(), "Fitness", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Message != "Could not get feedback." || fb.Score != 1 {
		t.Fatalf("unexpected feedback: %+v", fb)
	}
}

func TestGenerateFeedback_ScoreOutOfRange(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Text: "ok"})
	svc := NewService(mock, testConfig())

	_, err := svc.GenerateFeedback(context.Background(), "Fitness", 6)
	var sv *quiz.SchemaViolation
	if !errors.As(err, &sv) || sv.Field != "score" {
		t.Fatalf("expected score violation, got %v", err)
	}
}

func TestGenerateFeedback_Structured(t *testing.T) {
	cfg := testConfig()
	cfg.StructuredOutput = true
	mock := llm.NewMockProvider(llm.MockResponse{Text: `{"score":5,"message":"Perfect run."}`})
	svc := NewService(mock, cfg)

	fb, err := svc.GenerateFeedback(context.Background(), "Wellness", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Score != 3 || fb.Message != "Perfect run." {
		t.Fatalf("unexpected feedback: %+v", fb)
	}
	if mock.Calls[0].Schema != FeedbackSchema {
		t.Fatal("expected FeedbackSchema on the request")
	}
}

func TestGenerateFeedback_Mock(t *testing.T) {
	cfg := testConfig()
	cfg.UseMock = true
	svc := NewService(nil, cfg)

	perfect := MockQuiz("Fitness")
	answers := make(map[string]int)
	for _, q := range perfect.Questions {
		answers[q.ID] = q.CorrectIndex
	}
	score := perfect.Score(answers)
	if score != 5 {
		t.Fatalf("score = %d, want 5", score)
	}

	fb, err := svc.GenerateFeedback(context.Background(), "Fitness", score)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fb.Score != 5 || !strings.HasPrefix(fb.Message, "Nice work!") {
		t.Fatalf("expected positive feedback, got %+v", fb)
	}

	low, _ := svc.GenerateFeedback(context.Background(), "Fitness", 2)
	if !strings.HasPrefix(low.Message, "Good start!") {
		t.Fatalf("expected encouraging feedback, got %q", low.Message)
	}
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("USE_MOCK", "true")
	cfg := ConfigFromEnv()
	if !cfg.UseMock {
		t.Fatal("expected mock mode")
	}
	if cfg.QuizRetry.MaxAttempts != 2 || cfg.QuizRetry.Delay != 400*time.Millisecond {
		t.Errorf("unexpected retry policy: %+v", cfg.QuizRetry)
	}
	if cfg.MockQuizDelay != 800*time.Millisecond || cfg.MockFeedbackDelay != 400*time.Millisecond {
		t.Errorf("unexpected mock delays: %s, %s", cfg.MockQuizDelay, cfg.MockFeedbackDelay)
	}

	t.Setenv("USE_MOCK", "nope")
	if ConfigFromEnv().UseMock {
		t.Fatal("unparseable USE_MOCK must leave mock mode off")
	}
}

func TestUserMessage(t *testing.T) {
	if UserMessage(nil) != "" {
		t.Error("nil error should render empty")
	}
	wrapped := errors.Join(errors.New("context"), &llm.ErrConfiguration{Msg: "set AI_API_KEY"})
	if got := UserMessage(wrapped); got != "set AI_API_KEY" {
		t.Errorf("UserMessage = %q", got)
	}
	if got := UserMessage(&quiz.ContentParseError{}); got != genericFailure {
		t.Errorf("UserMessage = %q", got)
	}
}
