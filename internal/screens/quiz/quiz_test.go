package quiz

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/aiquiz/internal/llm"
	qz "github.com/abhisek/aiquiz/internal/quiz"
	"github.com/abhisek/aiquiz/internal/quizgen"
	"github.com/abhisek/aiquiz/internal/router"
	"github.com/abhisek/aiquiz/internal/screen"
	"github.com/abhisek/aiquiz/internal/session"
	"github.com/abhisek/aiquiz/internal/store"
)

// fakeGenerator returns a mock quiz whose topic carries the call number,
// so tests can tell which request produced the stored quiz.
type fakeGenerator struct {
	mu          sync.Mutex
	quizCalls   int
	quizErr     error
	feedback    string
	feedbackErr error
	scores      []int
}

func (f *fakeGenerator) GenerateQuiz(_ context.Context, topic string) (*qz.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.quizCalls++
	if f.quizErr != nil {
		return nil, f.quizErr
	}
	p := quizgen.MockQuiz(topic)
	p.Topic = fmt.Sprintf("%s v%d", topic, f.quizCalls)
	return p, nil
}

func (f *fakeGenerator) GenerateFeedback(_ context.Context, _ string, score int) (*qz.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores = append(f.scores, score)
	if f.feedbackErr != nil {
		return nil, f.feedbackErr
	}
	return &qz.Feedback{Score: score, Message: f.feedback}, nil
}

type fakeResults struct {
	saved []store.QuizResult
}

func (f *fakeResults) AppendResult(_ context.Context, r store.QuizResult) error {
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeResults) RecentResults(context.Context, int) ([]store.QuizResult, error) {
	return f.saved, nil
}

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "topics" }
func (s *stubScreen) Title() string                           { return "Topics" }

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// drive feeds every message produced by cmd back into s until no commands
// remain. Spinner ticks are dropped so loading does not loop.
func drive(s *QuizScreen, cmd tea.Cmd) {
	for _, msg := range collect(cmd) {
		if _, ok := msg.(spinner.TickMsg); ok {
			continue
		}
		_, next := s.Update(msg)
		drive(s, next)
	}
}

func press(s *QuizScreen, k tea.KeyPressMsg) {
	_, cmd := s.Update(k)
	drive(s, cmd)
}

func newTestScreen(gen *fakeGenerator, results store.ResultRepo) (*QuizScreen, *session.State) {
	st := session.New(nil)
	st.SetTopic("Fitness")
	return New(gen, st, results, func() screen.Screen { return &stubScreen{} }), st
}

func TestInitGeneratesWhenNoQuizStored(t *testing.T) {
	gen := &fakeGenerator{}
	s, st := newTestScreen(gen, nil)

	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected a generation command")
	}
	if st.Phase() != session.PhaseLoading {
		t.Fatalf("expected loading phase, got %s", st.Phase())
	}
	if !strings.Contains(s.View(100, 40), "Generating MCQs") {
		t.Error("loading view should show the generating badge")
	}

	drive(s, cmd)

	if st.Phase() != session.PhaseInProgress {
		t.Fatalf("expected in-progress phase, got %s", st.Phase())
	}
	if got := st.Snapshot().Quiz.Topic; got != "Fitness v1" {
		t.Errorf("quiz topic = %q", got)
	}
	if !strings.Contains(s.View(100, 40), "Sample Fitness question #1?") {
		t.Error("question view should show the first question")
	}
}

func TestInitKeepsStoredQuiz(t *testing.T) {
	gen := &fakeGenerator{}
	s, st := newTestScreen(gen, nil)
	st.SetQuiz(quizgen.MockQuiz("Fitness"))

	if cmd := s.Init(); cmd != nil {
		t.Fatal("a stored quiz must not be regenerated")
	}
	if gen.quizCalls != 0 {
		t.Fatalf("expected no generation, got %d calls", gen.quizCalls)
	}
}

func TestGenerationErrorThenRetry(t *testing.T) {
	gen := &fakeGenerator{quizErr: &llm.ErrTransport{StatusCode: 502, Body: "bad gateway"}}
	s, st := newTestScreen(gen, nil)

	drive(s, s.Init())
	if st.Phase() != session.PhaseError {
		t.Fatalf("expected error phase, got %s", st.Phase())
	}
	if got := st.Snapshot().Error; got != "Couldn't generate a quiz right now. Please try again." {
		t.Errorf("error message = %q", got)
	}
	if !strings.Contains(s.View(100, 40), "Something went wrong") {
		t.Error("error view should be shown")
	}

	gen.quizErr = nil
	press(s, keyPress('r'))

	if gen.quizCalls != 2 {
		t.Fatalf("expected a second generation, got %d calls", gen.quizCalls)
	}
	if st.Phase() != session.PhaseInProgress {
		t.Fatalf("expected in-progress after retry, got %s", st.Phase())
	}
	if st.Snapshot().Error != "" {
		t.Error("retry should clear the error")
	}
}

func TestConfigurationErrorShownVerbatim(t *testing.T) {
	gen := &fakeGenerator{quizErr: &llm.ErrConfiguration{Msg: "AI_ENDPOINT is not set"}}
	s, st := newTestScreen(gen, nil)

	drive(s, s.Init())
	if got := st.Snapshot().Error; got != "AI_ENDPOINT is not set" {
		t.Errorf("error message = %q", got)
	}
}

func TestChangeTopicResetsSession(t *testing.T) {
	gen := &fakeGenerator{quizErr: errors.New("down")}
	s, st := newTestScreen(gen, nil)
	drive(s, s.Init())

	_, cmd := s.Update(keyPress('c'))
	if cmd == nil {
		t.Fatal("expected navigation command")
	}
	reset, ok := cmd().(router.ResetScreenMsg)
	if !ok {
		t.Fatalf("expected ResetScreenMsg, got %T", cmd())
	}
	if reset.Screen.Title() != "Topics" {
		t.Errorf("unexpected screen %q", reset.Screen.Title())
	}
	snap := st.Snapshot()
	if snap.Topic != "" || snap.Quiz != nil || snap.Error != "" {
		t.Errorf("session not reset: %+v", snap)
	}
}

func TestStaleGenerationIgnored(t *testing.T) {
	gen := &fakeGenerator{}
	s, st := newTestScreen(gen, nil)

	first := s.Init()
	second := s.generate()

	// The newer request finishes first; the older one must not overwrite it.
	drive(s, second)
	drive(s, first)

	if got := st.Snapshot().Quiz.Topic; got != "Fitness v1" {
		t.Errorf("stale result applied: quiz topic = %q", got)
	}
	if st.Phase() != session.PhaseInProgress {
		t.Errorf("expected in-progress, got %s", st.Phase())
	}
}

func TestAnsweringAndNavigation(t *testing.T) {
	gen := &fakeGenerator{}
	s, st := newTestScreen(gen, nil)
	drive(s, s.Init())

	press(s, specialKey(tea.KeyLeft))
	if st.Snapshot().CurrentIndex != 0 {
		t.Fatal("prev at the first question must stay at 0")
	}

	press(s, keyPress('2'))
	q0 := st.Snapshot().Quiz.Questions[0]
	if got, ok := st.Snapshot().Answers[q0.ID]; !ok || got != 1 {
		t.Fatalf("answer for %s = %d (%v), want 1", q0.ID, got, ok)
	}
	if st.Snapshot().CurrentIndex != 0 {
		t.Error("answering must not advance automatically")
	}

	press(s, keyPress('1'))
	if st.Snapshot().Answers[q0.ID] != 0 {
		t.Error("answer should be overwritable before completion")
	}

	press(s, specialKey(tea.KeyRight))
	press(s, specialKey(tea.KeyDown))
	press(s, specialKey(tea.KeyEnter))
	q1 := st.Snapshot().Quiz.Questions[1]
	if st.Snapshot().Answers[q1.ID] != 1 {
		t.Errorf("arrow+enter answer = %d, want 1", st.Snapshot().Answers[q1.ID])
	}

	for range 10 {
		press(s, keyPress('l'))
	}
	if st.Snapshot().CurrentIndex != 4 {
		t.Errorf("next should clamp at 4, got %d", st.Snapshot().CurrentIndex)
	}
}

// answerAll answers every question with its correct option, so the score
// is 5.
func answerAll(s *QuizScreen, st *session.State) {
	for i, q := range st.Snapshot().Quiz.Questions {
		if i > 0 {
			press(s, specialKey(tea.KeyRight))
		}
		press(s, keyPress(rune('1'+q.CorrectIndex)))
	}
}

func TestCompletionRecordsResultOnce(t *testing.T) {
	gen := &fakeGenerator{}
	results := &fakeResults{}
	s, st := newTestScreen(gen, results)
	drive(s, s.Init())

	answerAll(s, st)

	if st.Phase() != session.PhaseCompleted {
		t.Fatalf("expected completed, got %s", st.Phase())
	}
	if len(results.saved) != 1 {
		t.Fatalf("expected one recorded result, got %d", len(results.saved))
	}
	if r := results.saved[0]; r.Topic != "Fitness" || r.Score != 5 || r.Total != 5 {
		t.Errorf("unexpected result: %+v", r)
	}
	view := s.View(100, 60)
	if !strings.Contains(view, "Score: 5 / 5") || !strings.Contains(view, "Perfect score!") {
		t.Errorf("completed view missing score:\n%s", view)
	}

	// Answers are locked once complete.
	q4 := st.Snapshot().Quiz.Questions[4]
	before := st.Snapshot().Answers[q4.ID]
	press(s, keyPress(rune('1'+(before+1)%4)))
	if st.Snapshot().Answers[q4.ID] != before {
		t.Error("answers must be locked after completion")
	}
	if len(results.saved) != 1 {
		t.Errorf("result recorded again: %d", len(results.saved))
	}
}

func TestRestoredCompletedQuizNotRecordedAgain(t *testing.T) {
	results := &fakeResults{}
	st := session.New(nil)
	st.SetTopic("Nutrition")
	p := quizgen.MockQuiz("Nutrition")
	st.SetQuiz(p)
	for _, q := range p.Questions {
		st.Answer(q.ID, q.CorrectIndex)
	}

	s := New(&fakeGenerator{}, st, results, nil)
	drive(s, s.Init())
	press(s, keyPress('3'))

	if len(results.saved) != 0 {
		t.Errorf("expected no new result, got %d", len(results.saved))
	}
}

func TestFeedback(t *testing.T) {
	gen := &fakeGenerator{feedback: "Great work on fitness basics."}
	s, st := newTestScreen(gen, nil)
	drive(s, s.Init())

	press(s, keyPress('f'))
	if len(gen.scores) != 0 {
		t.Fatal("feedback must not be requested before completion")
	}

	answerAll(s, st)
	press(s, keyPress('f'))

	if len(gen.scores) != 1 || gen.scores[0] != 5 {
		t.Fatalf("feedback requests = %v, want [5]", gen.scores)
	}
	if s.feedback != "Great work on fitness basics." {
		t.Errorf("feedback = %q", s.feedback)
	}
	if !strings.Contains(s.View(100, 60), "AI Feedback") {
		t.Error("feedback box should be rendered")
	}
}

func TestFeedbackFailureShowsFallback(t *testing.T) {
	gen := &fakeGenerator{feedbackErr: &llm.ErrTransport{StatusCode: 500}}
	s, st := newTestScreen(gen, nil)
	drive(s, s.Init())
	answerAll(s, st)

	press(s, keyPress('f'))

	if s.feedback != quizgen.FeedbackFallback {
		t.Errorf("feedback = %q, want fallback", s.feedback)
	}
	if st.Snapshot().Error != "" {
		t.Error("feedback failure must not touch the session error")
	}
}

func TestRegenerateReplacesQuiz(t *testing.T) {
	gen := &fakeGenerator{}
	s, st := newTestScreen(gen, nil)
	drive(s, s.Init())
	press(s, keyPress('3'))

	press(s, keyPress('g'))

	snap := st.Snapshot()
	if snap.Quiz.Topic != "Fitness v2" {
		t.Errorf("quiz topic = %q, want regenerated", snap.Quiz.Topic)
	}
	if len(snap.Answers) != 0 || snap.CurrentIndex != 0 {
		t.Errorf("regeneration must reset progress: %+v", snap)
	}
}
