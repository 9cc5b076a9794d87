package session

// Progress is what the progress bar needs from a snapshot.
type Progress struct {
	// Position is CurrentIndex+1, or 0 without a quiz.
	Position int
	Answered int
	Total    int
}

// Fraction returns Answered/Total in [0,1].
func (p Progress) Fraction() float64 {
	if p.Total == 0 {
		return 0
	}
	return float64(p.Answered) / float64(p.Total)
}

// Progress counts answered questions of the loaded quiz.
func (s Snapshot) Progress() Progress {
	if s.Quiz == nil {
		return Progress{}
	}
	p := Progress{Position: s.CurrentIndex + 1, Total: len(s.Quiz.Questions)}
	for _, q := range s.Quiz.Questions {
		if _, ok := s.Answers[q.ID]; ok {
			p.Answered++
		}
	}
	return p
}
