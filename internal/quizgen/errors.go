package quizgen

import (
	"errors"

	"github.com/abhisek/aiquiz/internal/llm"
)

// ErrGenerateFailed is returned when no quiz attempt produced an error to
// report, e.g. a zero-attempt retry policy.
var ErrGenerateFailed = errors.New("failed to generate quiz")

// FeedbackFallback is shown in place of feedback that could not be fetched.
const FeedbackFallback = "Couldn't fetch feedback right now. Try again later."

const genericFailure = "Couldn't generate a quiz right now. Please try again."

// UserMessage renders err for display. Configuration errors carry
// actionable guidance and are shown verbatim; everything else is generic.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var cfgErr *llm.ErrConfiguration
	if errors.As(err, &cfgErr) {
		return cfgErr.Msg
	}
	return genericFailure
}
