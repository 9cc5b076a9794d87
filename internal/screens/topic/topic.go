package topic

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/router"
	"github.com/abhisek/aiquiz/internal/screen"
	"github.com/abhisek/aiquiz/internal/session"
	"github.com/abhisek/aiquiz/internal/ui/components"
	"github.com/abhisek/aiquiz/internal/ui/layout"
	"github.com/abhisek/aiquiz/internal/ui/theme"
)

// Preset is a suggested quiz topic.
type Preset struct {
	Name        string
	Description string
}

// Presets are the topics offered on the picker.
var Presets = []Preset{
	{Name: "Wellness", Description: "Health & well-being practices"},
	{Name: "Tech Trends", Description: "Latest in technology"},
	{Name: "Nutrition", Description: "Food & dietary science"},
	{Name: "Fitness", Description: "Exercise & body health"},
	{Name: "Mental Health", Description: "Psychological wellness"},
}

// maxTopicLen bounds custom topics; they are interpolated into prompts.
const maxTopicLen = 60

const customLabel = "Custom topic…"

// TopicScreen lets the user pick a preset topic or type their own.
type TopicScreen struct {
	state   *session.State
	quiz    func() screen.Screen
	history func() screen.Screen

	menu   components.Menu
	input  components.TextInput
	typing bool
}

var _ screen.Screen = (*TopicScreen)(nil)
var _ screen.KeyHintProvider = (*TopicScreen)(nil)
var _ screen.InputCapturer = (*TopicScreen)(nil)

// New creates a TopicScreen. quiz builds the screen pushed once a topic is
// chosen; history may be nil to hide the history entry.
func New(state *session.State, quiz, history func() screen.Screen) *TopicScreen {
	s := &TopicScreen{
		state:   state,
		quiz:    quiz,
		history: history,
	}

	names := make([]string, 0, len(Presets))
	items := make([]components.MenuItem, 0, len(Presets)+2)
	for _, p := range Presets {
		name := p.Name
		names = append(names, name)
		items = append(items, components.MenuItem{
			Label:  name,
			Hint:   p.Description,
			Action: func() tea.Cmd { return s.start(name) },
		})
	}
	items = append(items, components.MenuItem{
		Label:  customLabel,
		Action: s.beginTyping,
	})
	if history != nil {
		items = append(items, components.MenuItem{
			Label: "History",
			Hint:  "Past scores",
			Action: func() tea.Cmd {
				next := s.history()
				return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
			},
		})
	}

	s.menu = components.NewMenu(items)
	s.input = components.NewTextInput("e.g. Renewable Energy", maxTopicLen, names)
	s.input.Blur()
	return s
}

func (s *TopicScreen) Init() tea.Cmd {
	return nil
}

func (s *TopicScreen) Title() string {
	return "Choose a Topic"
}

func (s *TopicScreen) KeyHints() []layout.KeyHint {
	if s.typing {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Generate quiz"},
			{Key: "Tab", Description: "Complete"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Generate quiz"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *TopicScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if !s.typing {
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}

	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter":
			topic := s.input.Value()
			if topic == "" {
				s.input.SetError("Enter a topic first")
				return s, nil
			}
			return s, s.start(topic)
		case "esc":
			s.typing = false
			s.input.Blur()
			return s, nil
		}
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// CapturingInput reports whether the custom topic input has focus.
func (s *TopicScreen) CapturingInput() bool {
	return s.typing
}

func (s *TopicScreen) beginTyping() tea.Cmd {
	s.typing = true
	return s.input.Focus()
}

// start begins a fresh session for topic and opens the quiz screen.
func (s *TopicScreen) start(topic string) tea.Cmd {
	s.state.Reset()
	s.state.SetTopic(topic)
	if s.quiz == nil {
		return nil
	}
	next := s.quiz()
	return func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}

func (s *TopicScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	badge := lipgloss.NewStyle().
		Foreground(theme.Cyan).
		Render("● AI-Powered Learning")
	title := lipgloss.NewStyle().
		Foreground(theme.Gold).
		Bold(true).
		Render("Test Your Knowledge with AI")
	desc := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Width(cw).
		Align(lipgloss.Center).
		Render("Choose a topic and challenge yourself with 5 AI-generated multiple-choice questions.")

	var body string
	if s.typing {
		body = lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render("Your topic") + "\n\n" + s.input.View()
	} else {
		body = s.menu.View()
	}
	card := components.Card(strings.TrimRight(body, "\n"), cw)

	features := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render("5 Questions · AI Generated · Instant Feedback · Retry & Learn")

	content := lipgloss.JoinVertical(lipgloss.Center, badge, title, "", desc, "", card, "", features)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
