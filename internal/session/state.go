package session

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/abhisek/aiquiz/internal/logging"
	"github.com/abhisek/aiquiz/internal/quiz"
)

// Phase is derived from the session fields; it is never stored.
type Phase int

const (
	PhaseIdle       Phase = iota // No quiz loaded
	PhaseLoading                 // Generation in flight
	PhaseError                   // Last generation failed
	PhaseInProgress              // Quiz loaded, answers incomplete
	PhaseCompleted               // Every question answered
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseError:
		return "error"
	case PhaseInProgress:
		return "in-progress"
	case PhaseCompleted:
		return "completed"
	default:
		return "idle"
	}
}

// Snapshot is a copy of the session fields. Loading and Error are
// transient and never persisted.
type Snapshot struct {
	// Topic is empty when no topic has been picked.
	Topic string `json:"topic"`

	// Quiz is nil until a generation succeeds.
	Quiz *quiz.Payload `json:"quiz"`

	// CurrentIndex is bounded to [0, len(Quiz.Questions)-1].
	CurrentIndex int `json:"currentIndex"`

	// Answers maps question id to the chosen option index.
	Answers map[string]int `json:"answers"`

	Loading bool   `json:"-"`
	Error   string `json:"-"`
}

// Persister stores the durable subset of a session.
type Persister interface {
	// Load returns the stored snapshot, or nil when none exists.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
}

// State is the single mutable session container. Every mutation replaces
// whole fields under the mutex, so readers never see a half-applied update.
type State struct {
	mu        sync.Mutex
	s         Snapshot
	persister Persister
}

// New returns an empty session. persister may be nil.
func New(persister Persister) *State {
	return &State{s: empty(), persister: persister}
}

func empty() Snapshot {
	return Snapshot{Answers: map[string]int{}}
}

// SetTopic sets the active topic. An empty topic clears it.
func (st *State) SetTopic(topic string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Topic = topic
	st.save()
}

// SetQuiz replaces the quiz and discards all progress on the previous one.
func (st *State) SetQuiz(p *quiz.Payload) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Quiz = p.Clone()
	st.s.CurrentIndex = 0
	st.s.Answers = map[string]int{}
	st.save()
}

func (st *State) SetLoading(loading bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Loading = loading
}

// SetError records a user-facing error. An empty message clears it.
func (st *State) SetError(msg string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s.Error = msg
}

// Answer records idx for question id, overwriting any earlier answer. The
// index is not range-checked.
func (st *State) Answer(id string, idx int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	answers := maps.Clone(st.s.Answers)
	answers[id] = idx
	st.s.Answers = answers
	st.save()
}

// Next moves to the following question, stopping at the last one.
func (st *State) Next() { st.move(1) }

// Prev moves to the preceding question, stopping at the first one.
func (st *State) Prev() { st.move(-1) }

func (st *State) move(delta int) {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.s.Quiz == nil || len(st.s.Quiz.Questions) == 0 {
		return
	}
	st.s.CurrentIndex = clamp(st.s.CurrentIndex+delta, 0, len(st.s.Quiz.Questions)-1)
	st.save()
}

// Reset restores the initial empty session.
func (st *State) Reset() {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.s = empty()
	st.save()
}

// Snapshot returns a deep copy of the current fields; callers may modify
// it freely.
func (st *State) Snapshot() Snapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	s := st.s
	s.Quiz = st.s.Quiz.Clone()
	s.Answers = maps.Clone(st.s.Answers)
	return s
}

// Completed reports whether every question of the loaded quiz has an answer.
func (st *State) Completed() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return completed(st.s)
}

// Score counts correct answers. Only meaningful once Completed is true.
func (st *State) Score() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.s.Quiz.Score(st.s.Answers)
}

// Current returns the question at CurrentIndex, or nil without a quiz.
func (st *State) Current() *quiz.Question {
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.s.Quiz == nil || st.s.CurrentIndex >= len(st.s.Quiz.Questions) {
		return nil
	}
	q := st.s.Quiz.Questions[st.s.CurrentIndex]
	q.Options = slices.Clone(q.Options)
	return &q
}

func (st *State) Phase() Phase {
	st.mu.Lock()
	defer st.mu.Unlock()
	switch {
	case st.s.Loading:
		return PhaseLoading
	case st.s.Error != "":
		return PhaseError
	case st.s.Quiz == nil:
		return PhaseIdle
	case completed(st.s):
		return PhaseCompleted
	default:
		return PhaseInProgress
	}
}

func completed(s Snapshot) bool {
	if s.Quiz == nil || len(s.Quiz.Questions) == 0 {
		return false
	}
	for _, q := range s.Quiz.Questions {
		if _, ok := s.Answers[q.ID]; !ok {
			return false
		}
	}
	return true
}

// save hands the durable subset to the persister. Failures are logged and
// otherwise ignored. Must be called with mu held.
func (st *State) save() {
	if st.persister == nil {
		return
	}
	s := st.s
	s.Answers = maps.Clone(st.s.Answers)
	ctx := context.Background()
	if err := st.persister.Save(ctx, s); err != nil {
		logging.WithContext(ctx).WithError(err).Warn("failed to persist quiz session")
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
