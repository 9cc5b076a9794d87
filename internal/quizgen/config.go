package quizgen

import (
	"os"
	"strconv"
	"time"

	"github.com/abhisek/aiquiz/internal/llm"
)

// Config controls how the Service talks to the model.
type Config struct {
	// UseMock bypasses the provider and returns synthetic quizzes.
	UseMock bool

	// StructuredOutput attaches PayloadSchema/FeedbackSchema to requests.
	// Only providers with native JSON-schema output should enable it; the
	// relay forwards whatever the model writes.
	StructuredOutput bool

	QuizTemperature     float64
	FeedbackTemperature float64

	// MaxTokens is the token budget per completion. Zero leaves the
	// provider default.
	MaxTokens int

	// QuizRetry bounds the request-extract-validate cycle for quizzes.
	// Feedback is never retried.
	QuizRetry llm.RetryPolicy

	// Artificial latency in mock mode.
	MockQuizDelay     time.Duration
	MockFeedbackDelay time.Duration
}

// DefaultConfig returns the standard generation settings.
func DefaultConfig() Config {
	return Config{
		QuizTemperature:     0.2,
		FeedbackTemperature: 0.7,
		QuizRetry:           llm.RetryPolicy{MaxAttempts: 2, Delay: 400 * time.Millisecond},
		MockQuizDelay:       800 * time.Millisecond,
		MockFeedbackDelay:   400 * time.Millisecond,
	}
}

// ConfigFromEnv reads USE_MOCK on top of DefaultConfig.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v := os.Getenv("USE_MOCK"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.UseMock = b
		}
	}
	return cfg
}
