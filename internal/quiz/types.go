package quiz

import "slices"

// QuestionCount is the number of questions every quiz carries.
const QuestionCount = 5

// OptionCount is the number of options every question carries.
const OptionCount = 4

// MaxScore is the highest score a quiz can yield.
const MaxScore = QuestionCount

// Question is a single multiple-choice question.
type Question struct {
	// ID is unique within a quiz, e.g. "fitness-3".
	ID string `json:"id"`

	// Question is the prompt shown to the user.
	Question string `json:"question"`

	// Options holds exactly four answer options, labelled A-D in the UI.
	Options []string `json:"options"`

	// CorrectIndex points into Options. Correctness is positional; there
	// is no per-option flag.
	CorrectIndex int `json:"correctIndex"`
}

// Payload is a generated quiz for one topic.
type Payload struct {
	Topic     string     `json:"topic"`
	Questions []Question `json:"questions"`
}

// Feedback is the coach-style message returned for a finished quiz.
type Feedback struct {
	Score   int    `json:"score"`
	Message string `json:"message"`
}

// Clone returns a deep copy of p. A nil payload clones to nil.
func (p *Payload) Clone() *Payload {
	if p == nil {
		return nil
	}
	c := &Payload{Topic: p.Topic, Questions: make([]Question, len(p.Questions))}
	for i, q := range p.Questions {
		q.Options = slices.Clone(q.Options)
		c.Questions[i] = q
	}
	return c
}

// QuestionByID returns the question with the given id, or nil.
func (p *Payload) QuestionByID(id string) *Question {
	if p == nil {
		return nil
	}
	for i := range p.Questions {
		if p.Questions[i].ID == id {
			return &p.Questions[i]
		}
	}
	return nil
}

// Score counts the questions whose recorded answer matches CorrectIndex.
// Unanswered questions count as wrong.
func (p *Payload) Score(answers map[string]int) int {
	if p == nil {
		return 0
	}
	score := 0
	for _, q := range p.Questions {
		if idx, ok := answers[q.ID]; ok && idx == q.CorrectIndex {
			score++
		}
	}
	return score
}
