package quiz

import (
	qz "github.com/abhisek/aiquiz/internal/quiz"
)

// quizReadyMsg carries the outcome of one generation request. seq ties it
// to the request that produced it; results from older requests are dropped.
type quizReadyMsg struct {
	seq  int
	Quiz *qz.Payload
	Err  error
}

// feedbackReadyMsg carries the outcome of a feedback request for the quiz
// that was current when it was issued.
type feedbackReadyMsg struct {
	seq     int
	Message string
	Err     error
}

// resultSavedMsg confirms that a completed quiz was appended to history.
type resultSavedMsg struct {
	Err error
}
