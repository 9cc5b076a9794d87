package session

import "github.com/abhisek/aiquiz/internal/quiz"

// QuestionResult is one row of the completed-quiz view.
type QuestionResult struct {
	Question quiz.Question
	Chosen   int
	Answered bool
	Correct  bool
}

// Summary holds the data displayed once a quiz is completed.
type Summary struct {
	Topic   string
	Score   int
	Total   int
	Results []QuestionResult
}

// BuildSummary marks every question of the snapshot's quiz right or wrong.
// It returns nil without a quiz.
func BuildSummary(s Snapshot) *Summary {
	if s.Quiz == nil {
		return nil
	}
	sum := &Summary{
		Topic:   s.Topic,
		Total:   len(s.Quiz.Questions),
		Results: make([]QuestionResult, 0, len(s.Quiz.Questions)),
	}
	if sum.Topic == "" {
		sum.Topic = s.Quiz.Topic
	}
	for _, q := range s.Quiz.Questions {
		chosen, ok := s.Answers[q.ID]
		r := QuestionResult{Question: q, Chosen: chosen, Answered: ok, Correct: ok && chosen == q.CorrectIndex}
		if r.Correct {
			sum.Score++
		}
		sum.Results = append(sum.Results, r)
	}
	return sum
}
