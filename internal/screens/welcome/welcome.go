package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/router"
	"github.com/abhisek/aiquiz/internal/screen"
	"github.com/abhisek/aiquiz/internal/ui/components"
	"github.com/abhisek/aiquiz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	optionsAt    = 500 * time.Millisecond
	bannerAt     = 1500 * time.Millisecond
	totalDur     = 4500 * time.Millisecond

	// ticksPerOption is how long the demo cursor rests on each option.
	ticksPerOption = 4
)

const mascotArt = `╭───────────╮
│  ┌─────┐  │
│  │ ◉ ◉ │  │
│  │  ▽  │  │
│  ├─────┤  │
│  │ Q&A │  │
│  └─────┘  │
╰───────────╯`

// demoOptions scroll under the mascot while the splash plays.
var demoOptions = []string{"Sleep", "Hydration", "Exercise", "All of the above"}

// demoCorrect is the option the demo cursor settles on.
const demoCorrect = 3

// Tagline is shown under the banner.
const Tagline = "Pick a topic. Beat the quiz."

type tickMsg time.Time

// WelcomeScreen shows a splash animation, then replaces itself with the
// first real screen on a key press.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that transitions to the screen built by next.
// next runs once, at transition time, so it sees the latest session state.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	next := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: next}
	}
}

// demoCursor walks the options once, then stays on the correct one.
func (w *WelcomeScreen) demoCursor() int {
	step := int((w.elapsed - optionsAt) / tickInterval / ticksPerOption)
	return min(max(step, 0), demoCorrect)
}

func (w *WelcomeScreen) renderDemo() string {
	cursor := w.demoCursor()
	settled := w.elapsed >= bannerAt

	lines := make([]string, len(demoOptions))
	for i, opt := range demoOptions {
		text := components.OptionLabels[i] + ") " + opt
		style := lipgloss.NewStyle().Foreground(theme.TextDim)
		switch {
		case i == cursor && settled:
			style = theme.Correct
			text += "  ✓"
		case i == cursor:
			style = lipgloss.NewStyle().Foreground(theme.Cyan).Bold(true)
			text = "▸ " + text
		default:
			text = "  " + text
		}
		lines[i] = style.Render(text)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (w *WelcomeScreen) View(width, height int) string {
	sections := []string{
		lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotArt),
	}

	if w.elapsed >= optionsAt {
		sections = append(sections, "", w.renderDemo())
	}

	if w.elapsed >= bannerAt {
		tagline := lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(Tagline)
		hint := lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue")
		sections = append(sections, "", RenderBanner(width), "", tagline, "", hint)
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, strings.TrimRight(content, "\n"))
}
