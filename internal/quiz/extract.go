package quiz

import (
	"encoding/json"
	"strings"
)

// candidateJSON slices raw model output from the first '{' to the last '}'.
// When either brace is missing the whole text is the candidate. This does no
// tokenizing: an unrelated '}' after the real object ends, or two objects in
// one reply, produce a candidate that will not parse.
func candidateJSON(raw string) string {
	first := strings.Index(raw, "{")
	last := strings.LastIndex(raw, "}")
	if first == -1 || last == -1 {
		return raw
	}
	if last < first {
		return ""
	}
	return raw[first : last+1]
}

func decodeCandidate(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(candidateJSON(raw)), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// ExtractPayload pulls a quiz out of a completion that may be wrapped in
// prose or markdown fences. Every failure is a *ContentParseError.
func ExtractPayload(raw string) (*Payload, error) {
	v, err := decodeCandidate(raw)
	if err != nil {
		return nil, &ContentParseError{Err: err}
	}
	p, err := ValidatePayload(v)
	if err != nil {
		return nil, &ContentParseError{Err: err}
	}
	return p, nil
}

// ExtractFeedback is ExtractPayload for the feedback shape.
func ExtractFeedback(raw string) (*Feedback, error) {
	v, err := decodeCandidate(raw)
	if err != nil {
		return nil, &ContentParseError{Err: err}
	}
	fb, err := ValidateFeedback(v)
	if err != nil {
		return nil, &ContentParseError{Err: err}
	}
	return fb, nil
}
