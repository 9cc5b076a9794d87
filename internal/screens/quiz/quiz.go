package quiz

import (
	"context"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/logging"
	qz "github.com/abhisek/aiquiz/internal/quiz"
	"github.com/abhisek/aiquiz/internal/quizgen"
	"github.com/abhisek/aiquiz/internal/router"
	"github.com/abhisek/aiquiz/internal/screen"
	"github.com/abhisek/aiquiz/internal/session"
	"github.com/abhisek/aiquiz/internal/store"
	"github.com/abhisek/aiquiz/internal/ui/components"
	"github.com/abhisek/aiquiz/internal/ui/layout"
	"github.com/abhisek/aiquiz/internal/ui/theme"
)

// Generator produces quizzes and feedback. quizgen.Service implements it.
type Generator interface {
	GenerateQuiz(ctx context.Context, topic string) (*qz.Payload, error)
	GenerateFeedback(ctx context.Context, topic string, score int) (*qz.Feedback, error)
}

// QuizScreen runs one quiz for the session's topic: it generates the quiz
// when none is stored, lets the user answer and navigate, and shows the
// score and optional AI feedback once every question is answered.
type QuizScreen struct {
	gen         Generator
	state       *session.State
	results     store.ResultRepo
	changeTopic func() screen.Screen

	spinner spinner.Model
	choice  components.MultiChoice
	buttons components.ButtonRow

	// seq identifies the newest generation request.
	seq    int
	cancel context.CancelFunc

	// recorded is set once the current quiz's result has been appended.
	recorded bool

	feedback        string
	feedbackLoading bool
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates a QuizScreen. results may be nil. changeTopic builds the
// screen shown after the session is reset.
func New(gen Generator, state *session.State, results store.ResultRepo, changeTopic func() screen.Screen) *QuizScreen {
	s := &QuizScreen{
		gen:         gen,
		state:       state,
		results:     results,
		changeTopic: changeTopic,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(theme.Primary)),
		),
	}
	s.buttons = components.NewButtonRow(
		components.NewButton("Retry", "r", s.generate),
		components.NewButton("Change Topic", "c", s.reset),
	)
	return s
}

func (s *QuizScreen) Init() tea.Cmd {
	// A restored quiz that was already finished must not be recorded twice.
	s.recorded = s.state.Completed()
	s.syncChoice()

	snap := s.state.Snapshot()
	if snap.Topic != "" && snap.Quiz == nil && !snap.Loading {
		return s.generate()
	}
	return nil
}

func (s *QuizScreen) Title() string {
	if topic := s.state.Snapshot().Topic; topic != "" {
		return topic
	}
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.state.Phase() {
	case session.PhaseLoading:
		return []layout.KeyHint{
			{Key: "c", Description: "Change topic"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case session.PhaseError:
		return []layout.KeyHint{
			{Key: "r", Description: "Retry"},
			{Key: "c", Description: "Change topic"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	case session.PhaseCompleted:
		return []layout.KeyHint{
			{Key: "f", Description: "AI feedback"},
			{Key: "←→", Description: "Review"},
			{Key: "g", Description: "New quiz"},
			{Key: "c", Description: "Start over"},
		}
	default:
		return []layout.KeyHint{
			{Key: "1-4", Description: "Answer"},
			{Key: "←→", Description: "Prev/Next"},
			{Key: "g", Description: "Regenerate"},
			{Key: "c", Description: "Change topic"},
		}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case quizReadyMsg:
		return s.handleQuizReady(msg)

	case feedbackReadyMsg:
		return s.handleFeedbackReady(msg)

	case resultSavedMsg:
		if msg.Err != nil {
			logging.WithContext(context.Background()).WithError(msg.Err).Warn("failed to record quiz result")
		}
		return s, nil

	case spinner.TickMsg:
		if !s.state.Snapshot().Loading {
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd

	case components.OptionChosenMsg:
		return s.handleAnswer(msg.Index)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch s.state.Phase() {
	case session.PhaseLoading:
		if msg.String() == "c" {
			return s, s.reset()
		}
		return s, nil

	case session.PhaseError:
		var cmd tea.Cmd
		s.buttons, cmd = s.buttons.Update(msg)
		return s, cmd

	case session.PhaseIdle:
		if msg.String() == "c" {
			return s, s.reset()
		}
		return s, nil
	}

	completed := s.state.Completed()
	switch msg.String() {
	case "left", "h":
		s.state.Prev()
		s.syncChoice()
		return s, nil
	case "right", "l":
		s.state.Next()
		s.syncChoice()
		return s, nil
	case "g":
		return s, s.generate()
	case "c":
		return s, s.reset()
	case "f":
		if completed {
			return s, s.fetchFeedback()
		}
		return s, nil
	}

	if completed {
		return s, nil
	}
	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	return s, cmd
}

// handleAnswer records idx for the current question. Answers are locked
// once the quiz is complete.
func (s *QuizScreen) handleAnswer(idx int) (screen.Screen, tea.Cmd) {
	if s.state.Completed() {
		return s, nil
	}
	q := s.state.Current()
	if q == nil {
		return s, nil
	}
	s.state.Answer(q.ID, idx)
	s.syncChoice()

	if s.state.Completed() && !s.recorded {
		s.recorded = true
		return s, s.recordResult()
	}
	return s, nil
}

// generate starts a new generation request, superseding any in flight.
func (s *QuizScreen) generate() tea.Cmd {
	topic := s.state.Snapshot().Topic
	if topic == "" {
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.seq++
	seq := s.seq

	s.state.SetLoading(true)
	s.state.SetError("")
	s.feedback = ""
	s.feedbackLoading = false

	gen := s.gen
	return tea.Batch(s.spinner.Tick, func() tea.Msg {
		p, err := gen.GenerateQuiz(ctx, topic)
		return quizReadyMsg{seq: seq, Quiz: p, Err: err}
	})
}

func (s *QuizScreen) handleQuizReady(msg quizReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.seq != s.seq {
		return s, nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.state.SetLoading(false)
	if msg.Err != nil {
		logging.WithContext(context.Background()).WithError(msg.Err).Error("quiz generation failed")
		s.state.SetError(quizgen.UserMessage(msg.Err))
		return s, nil
	}
	s.state.SetQuiz(msg.Quiz)
	s.recorded = false
	s.syncChoice()
	return s, nil
}

func (s *QuizScreen) fetchFeedback() tea.Cmd {
	if s.feedbackLoading {
		return nil
	}
	snap := s.state.Snapshot()
	if snap.Quiz == nil {
		return nil
	}
	s.feedbackLoading = true
	s.feedback = ""

	seq := s.seq
	topic := snap.Quiz.Topic
	score := snap.Quiz.Score(snap.Answers)
	gen := s.gen
	return func() tea.Msg {
		fb, err := gen.GenerateFeedback(context.Background(), topic, score)
		if err != nil {
			return feedbackReadyMsg{seq: seq, Err: err}
		}
		return feedbackReadyMsg{seq: seq, Message: fb.Message}
	}
}

func (s *QuizScreen) handleFeedbackReady(msg feedbackReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.seq != s.seq {
		return s, nil
	}
	s.feedbackLoading = false
	if msg.Err != nil {
		logging.WithContext(context.Background()).WithError(msg.Err).Warn("feedback request failed")
		s.feedback = quizgen.FeedbackFallback
		return s, nil
	}
	s.feedback = msg.Message
	return s, nil
}

func (s *QuizScreen) recordResult() tea.Cmd {
	if s.results == nil {
		return nil
	}
	sum := session.BuildSummary(s.state.Snapshot())
	if sum == nil {
		return nil
	}
	repo := s.results
	res := store.QuizResult{Topic: sum.Topic, Score: sum.Score, Total: sum.Total}
	return func() tea.Msg {
		return resultSavedMsg{Err: repo.AppendResult(context.Background(), res)}
	}
}

// reset clears the session and returns to topic selection.
func (s *QuizScreen) reset() tea.Cmd {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.seq++
	s.state.Reset()
	if s.changeTopic == nil {
		return nil
	}
	next := s.changeTopic()
	return func() tea.Msg { return router.ResetScreenMsg{Screen: next} }
}

// syncChoice rebuilds the option selector for the current question.
func (s *QuizScreen) syncChoice() {
	snap := s.state.Snapshot()
	q := s.state.Current()
	if q == nil {
		s.choice = components.MultiChoice{}
		return
	}
	chosen, ok := snap.Answers[q.ID]
	if !ok {
		chosen = -1
	}
	s.choice = components.NewMultiChoice(q.Question, q.Options, q.CorrectIndex, chosen)
	s.choice.Reveal = s.state.Completed()
}
