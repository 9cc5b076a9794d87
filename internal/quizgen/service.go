package quizgen

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/aiquiz/internal/llm"
	"github.com/abhisek/aiquiz/internal/logging"
	"github.com/abhisek/aiquiz/internal/quiz"
)

// noFeedback stands in for a completion that carried no text.
const noFeedback = "Could not get feedback."

// Service turns topics into validated quizzes and scores into feedback.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a generation service. provider may be nil in mock mode.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// Mock reports whether the service bypasses the provider.
func (s *Service) Mock() bool { return s.cfg.UseMock }

// GenerateQuiz asks the model for a quiz on topic. The whole
// request-extract-validate cycle is retried per cfg.QuizRetry; when every
// attempt fails the last error is returned.
func (s *Service) GenerateQuiz(ctx context.Context, topic string) (*quiz.Payload, error) {
	if s.cfg.UseMock {
		if err := sleep(ctx, s.cfg.MockQuizDelay); err != nil {
			return nil, err
		}
		return MockQuiz(topic), nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeQuizGen)
	log := logging.WithContext(ctx).WithField("topic", topic)

	req := llm.Request{
		Messages:    llm.UserMessage(QuizPrompt(topic)),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.QuizTemperature,
	}
	if s.cfg.StructuredOutput {
		req.Schema = PayloadSchema
	}

	p, err := llm.Retry(ctx, s.cfg.QuizRetry, func(ctx context.Context, attempt int) (*quiz.Payload, error) {
		resp, err := s.provider.Generate(ctx, req)
		if err != nil {
			log.WithError(err).WithField("attempt", attempt+1).Warn("quiz request failed")
			return nil, err
		}
		p, err := quiz.ExtractPayload(resp.Text)
		if err != nil {
			log.WithError(errors.Unwrap(err)).WithField("attempt", attempt+1).Warn("quiz content rejected")
			return nil, err
		}
		return p, nil
	})
	if errors.Is(err, llm.ErrNoAttempts) {
		return nil, ErrGenerateFailed
	}
	if err != nil {
		return nil, fmt.Errorf("generate quiz: %w", err)
	}
	return p, nil
}

// GenerateFeedback asks the model for a short coaching message. It makes a
// single attempt; callers show FeedbackFallback on error.
func (s *Service) GenerateFeedback(ctx context.Context, topic string, score int) (*quiz.Feedback, error) {
	if s.cfg.UseMock {
		if err := sleep(ctx, s.cfg.MockFeedbackDelay); err != nil {
			return nil, err
		}
		return MockFeedback(score), nil
	}

	ctx = llm.WithPurpose(ctx, llm.PurposeFeedback)

	req := llm.Request{
		Messages:    llm.UserMessage(FeedbackPrompt(topic, score)),
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.FeedbackTemperature,
	}
	if s.cfg.StructuredOutput {
		req.Messages = llm.UserMessage(structuredFeedbackPrompt(topic, score))
		req.Schema = FeedbackSchema
	}

	text := noFeedback
	resp, err := s.provider.Generate(ctx, req)
	switch {
	case errors.Is(err, llm.ErrNoContent):
	case err != nil:
		return nil, fmt.Errorf("generate feedback: %w", err)
	case s.cfg.StructuredOutput:
		fb, err := quiz.ExtractFeedback(resp.Text)
		if err != nil {
			return nil, fmt.Errorf("generate feedback: %w", err)
		}
		text = fb.Message
	default:
		text = resp.Text
	}

	fb, err := quiz.ValidateFeedback(map[string]any{"score": score, "message": text})
	if err != nil {
		return nil, fmt.Errorf("generate feedback: %w", err)
	}
	return fb, nil
}
