package llm

import (
	"context"

	"github.com/abhisek/aiquiz/internal/logging"
	"github.com/sirupsen/logrus"
)

type contextKey string

const purposeKey contextKey = "llm_purpose"

// Purposes used to label LLM calls in the event log.
const (
	PurposeQuizGen  = "quiz-gen"
	PurposeFeedback = "feedback"
	PurposeRelay    = "relay"
)

// WithPurpose attaches a purpose label to the context for event logging.
// The label also becomes a log field.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	ctx = logging.WithFields(ctx, logrus.Fields{"purpose": purpose})
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}
