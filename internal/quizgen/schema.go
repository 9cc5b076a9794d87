package quizgen

import (
	"github.com/abhisek/aiquiz/internal/llm"
	"github.com/abhisek/aiquiz/internal/quiz"
)

// PayloadSchema is the quiz shape for providers with native structured
// output. quiz.ValidatePayload still runs on every reply; the schema cannot
// express id uniqueness.
var PayloadSchema = &llm.Schema{
	Name:        "quiz-payload",
	Description: "A five-question multiple-choice quiz on one topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"topic": map[string]any{
				"type":        "string",
				"description": "The topic the quiz was generated for",
			},
			"questions": map[string]any{
				"type":     "array",
				"minItems": quiz.QuestionCount,
				"maxItems": quiz.QuestionCount,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "string",
							"description": "Unique id within the quiz, e.g. fitness-1",
						},
						"question": map[string]any{"type": "string"},
						"options": map[string]any{
							"type":     "array",
							"minItems": quiz.OptionCount,
							"maxItems": quiz.OptionCount,
							"items":    map[string]any{"type": "string"},
						},
						"correctIndex": map[string]any{
							"type":        "integer",
							"minimum":     0,
							"maximum":     quiz.OptionCount - 1,
							"description": "Index of the single correct option",
						},
					},
					"required":             []any{"id", "question", "options", "correctIndex"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"topic", "questions"},
		"additionalProperties": false,
	},
}

// FeedbackSchema is the feedback shape for providers with native
// structured output.
var FeedbackSchema = &llm.Schema{
	Name:        "quiz-feedback",
	Description: "Short coach-style feedback on a quiz score",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"score": map[string]any{
				"type":    "integer",
				"minimum": 0,
				"maximum": quiz.MaxScore,
			},
			"message": map[string]any{
				"type":        "string",
				"description": "Two sentences of encouragement and one concrete tip, under 45 words",
			},
		},
		"required":             []any{"score", "message"},
		"additionalProperties": false,
	},
}
