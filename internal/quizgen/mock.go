package quizgen

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/abhisek/aiquiz/internal/quiz"
)

const (
	mockPositiveFeedback = "Nice work! You've got a solid grasp. Review the misses and try again. Tip: note tricky terms in a mini cheatsheet."
	mockRetryFeedback    = "Good start! Revisit the basics and retry. Tip: read each option aloud and eliminate two wrong choices first."
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Slug lower-cases topic and replaces every whitespace run with '-'.
// Leading and trailing runs are kept, so " Fitness " slugs to "-fitness-".
func Slug(topic string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(topic), "-")
}

// MockQuiz builds the synthetic quiz returned in mock mode.
func MockQuiz(topic string) *quiz.Payload {
	slug := Slug(topic)
	p := &quiz.Payload{Topic: topic, Questions: make([]quiz.Question, quiz.QuestionCount)}
	for i := range p.Questions {
		p.Questions[i] = quiz.Question{
			ID:           fmt.Sprintf("%s-%d", slug, i+1),
			Question:     fmt.Sprintf("Sample %s question #%d?", topic, i+1),
			Options:      []string{"Option A", "Option B", "Option C", "Option D"},
			CorrectIndex: i % quiz.OptionCount,
		}
	}
	return p
}

// MockFeedback builds the synthetic feedback returned in mock mode.
func MockFeedback(score int) *quiz.Feedback {
	msg := mockRetryFeedback
	if score >= 3 {
		msg = mockPositiveFeedback
	}
	return &quiz.Feedback{Score: score, Message: msg}
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
