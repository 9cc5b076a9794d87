package quiz

import "fmt"

// SchemaViolation reports the first field of a decoded value that does not
// satisfy the quiz or feedback shape.
type SchemaViolation struct {
	// Field is the path of the offending value, e.g. "questions[2].correctIndex".
	// Empty when the root value itself is wrong.
	Field string

	// Rule describes the violated constraint, e.g. "must be an integer in [0,3]".
	Rule string
}

func (e *SchemaViolation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema violation: value %s", e.Rule)
	}
	return fmt.Sprintf("schema violation: %s %s", e.Field, e.Rule)
}

// contentParseMessage is the only text a ContentParseError ever renders.
const contentParseMessage = "invalid JSON content received from AI"

// ContentParseError means model output could not be turned into a valid
// payload. Parse failures and schema violations collapse into this one type
// so retry logic never has to tell them apart.
type ContentParseError struct {
	// Err is the underlying cause, kept for logging only.
	Err error
}

func (e *ContentParseError) Error() string { return contentParseMessage }

func (e *ContentParseError) Unwrap() error { return e.Err }
