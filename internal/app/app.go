package app

import (
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/router"
	"github.com/abhisek/aiquiz/internal/screen"
	"github.com/abhisek/aiquiz/internal/screens/history"
	quizscreen "github.com/abhisek/aiquiz/internal/screens/quiz"
	"github.com/abhisek/aiquiz/internal/screens/topic"
	"github.com/abhisek/aiquiz/internal/screens/welcome"
	"github.com/abhisek/aiquiz/internal/session"
	"github.com/abhisek/aiquiz/internal/store"
	"github.com/abhisek/aiquiz/internal/ui/layout"
)

// Options carries the dependencies of the terminal UI.
type Options struct {
	Generator quizscreen.Generator
	Session   *session.State

	// Results may be nil, which disables history.
	Results store.ResultRepo

	// Status is shown on the right of the header, e.g. the model name.
	Status string

	// SkipSplash opens the first screen directly.
	SkipSplash bool
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	status string
	width  int
	height int
}

// newAppModel wires the screens together. With a restored topic the app
// opens on the quiz screen, otherwise on topic selection.
func newAppModel(opts Options) AppModel {
	var topicScreen, quizScreen, historyScreen func() screen.Screen

	if opts.Results != nil {
		historyScreen = func() screen.Screen { return history.New(opts.Results) }
	}
	topicScreen = func() screen.Screen {
		return topic.New(opts.Session, quizScreen, historyScreen)
	}
	quizScreen = func() screen.Screen {
		return quizscreen.New(opts.Generator, opts.Session, opts.Results, topicScreen)
	}
	start := func() screen.Screen {
		if opts.Session.Snapshot().Topic != "" {
			return quizScreen()
		}
		return topicScreen()
	}

	var initial screen.Screen
	if opts.SkipSplash {
		initial = start()
	} else {
		initial = welcome.New(start)
	}
	return AppModel{
		router: router.New(initial),
		status: opts.Status,
	}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.status, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		hints := p.KeyHints()
		if m.router.Depth() > 1 {
			hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
		}
		return hints
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "Any key", Description: "Continue"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
