package quiz

import (
	"encoding/json"
	"fmt"
	"math"
)

// ValidatePayload checks an untyped decoded value against the quiz shape and
// returns the typed payload. Unknown keys are ignored.
func ValidatePayload(v any) (*Payload, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &SchemaViolation{Rule: "must be an object"}
	}

	topic, ok := obj["topic"].(string)
	if !ok {
		return nil, &SchemaViolation{Field: "topic", Rule: "must be a string"}
	}

	rawQuestions, ok := obj["questions"].([]any)
	if !ok {
		return nil, &SchemaViolation{Field: "questions", Rule: "must be an array"}
	}
	if len(rawQuestions) != QuestionCount {
		return nil, &SchemaViolation{
			Field: "questions",
			Rule:  fmt.Sprintf("must contain exactly %d items, got %d", QuestionCount, len(rawQuestions)),
		}
	}

	p := &Payload{Topic: topic, Questions: make([]Question, 0, QuestionCount)}
	seen := make(map[string]bool, QuestionCount)
	for i, rq := range rawQuestions {
		q, err := validateQuestion(fmt.Sprintf("questions[%d]", i), rq)
		if err != nil {
			return nil, err
		}
		if seen[q.ID] {
			return nil, &SchemaViolation{Field: fmt.Sprintf("questions[%d].id", i), Rule: "must be unique within the quiz"}
		}
		seen[q.ID] = true
		p.Questions = append(p.Questions, q)
	}
	return p, nil
}

func validateQuestion(path string, v any) (Question, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return Question{}, &SchemaViolation{Field: path, Rule: "must be an object"}
	}

	id, ok := obj["id"].(string)
	if !ok || id == "" {
		return Question{}, &SchemaViolation{Field: path + ".id", Rule: "must be a non-empty string"}
	}

	text, ok := obj["question"].(string)
	if !ok || text == "" {
		return Question{}, &SchemaViolation{Field: path + ".question", Rule: "must be a non-empty string"}
	}

	rawOptions, ok := obj["options"].([]any)
	if !ok {
		return Question{}, &SchemaViolation{Field: path + ".options", Rule: "must be an array"}
	}
	if len(rawOptions) != OptionCount {
		return Question{}, &SchemaViolation{
			Field: path + ".options",
			Rule:  fmt.Sprintf("must contain exactly %d items, got %d", OptionCount, len(rawOptions)),
		}
	}
	options := make([]string, OptionCount)
	for i, ro := range rawOptions {
		s, ok := ro.(string)
		if !ok {
			return Question{}, &SchemaViolation{Field: fmt.Sprintf("%s.options[%d]", path, i), Rule: "must be a string"}
		}
		options[i] = s
	}

	idx, ok := asInt(obj["correctIndex"])
	if !ok || idx < 0 || idx > OptionCount-1 {
		return Question{}, &SchemaViolation{
			Field: path + ".correctIndex",
			Rule:  fmt.Sprintf("must be an integer in [0,%d]", OptionCount-1),
		}
	}

	return Question{ID: id, Question: text, Options: options, CorrectIndex: idx}, nil
}

// ValidateFeedback checks an untyped decoded value against the feedback shape.
func ValidateFeedback(v any) (*Feedback, error) {
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &SchemaViolation{Rule: "must be an object"}
	}

	score, ok := asInt(obj["score"])
	if !ok || score < 0 || score > MaxScore {
		return nil, &SchemaViolation{Field: "score", Rule: fmt.Sprintf("must be an integer in [0,%d]", MaxScore)}
	}

	msg, ok := obj["message"].(string)
	if !ok {
		return nil, &SchemaViolation{Field: "message", Rule: "must be a string"}
	}

	return &Feedback{Score: score, Message: msg}, nil
}

// asInt accepts the numeric forms a JSON decoder or Go caller may produce,
// rejecting anything with a fractional part.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || math.Abs(n) > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}
