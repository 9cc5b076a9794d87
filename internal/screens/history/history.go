package history

import (
	"context"
	"fmt"
	"image/color"
	"strings"

	tea "charm.land/bubbletea/v2"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/router"
	"github.com/abhisek/aiquiz/internal/screen"
	"github.com/abhisek/aiquiz/internal/store"
	"github.com/abhisek/aiquiz/internal/ui/layout"
	"github.com/abhisek/aiquiz/internal/ui/theme"
)

// Limit is the number of results loaded.
const Limit = 50

type historyLoadedMsg struct {
	Results []store.QuizResult
	Err     error
}

// HistoryScreen lists recently completed quizzes.
type HistoryScreen struct {
	results  store.ResultRepo
	rows     []store.QuizResult
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(results store.ResultRepo) *HistoryScreen {
	return &HistoryScreen{results: results}
}

func (s *HistoryScreen) Init() tea.Cmd {
	repo := s.results
	return func() tea.Msg {
		rows, err := repo.RecentResults(context.Background(), Limit)
		return historyLoadedMsg{Results: rows, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.rows = msg.Results
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
			return s, nil
		case "down", "j":
			if s.selected < len(s.rows)-1 {
				s.selected++
			}
			return s, nil
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Pick a topic to start!")
	}

	var b strings.Builder
	b.WriteString("\n")

	var correct, possible int
	for _, r := range s.rows {
		correct += r.Score
		possible += r.Total
	}
	summary := fmt.Sprintf("%d quizzes  ·  %d / %d correct overall", len(s.rows), correct, possible)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Cyan).Bold(true).Render(summary)))
	b.WriteString("\n\n")

	// Only the rows that fit are shown, keeping the selection visible.
	visible := max(height-4, 1)
	start := 0
	if s.selected >= visible {
		start = s.selected - visible + 1
	}
	end := min(start+visible, len(s.rows))

	for i := start; i < end; i++ {
		r := s.rows[i]
		prefix := "  "
		if i == s.selected {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s  %-24s %s",
			prefix, r.Timestamp.Local().Format("Jan 02, 2006 15:04"), truncate(r.Topic, 24), scoreBar(r.Score, r.Total))

		style := lipgloss.NewStyle().Foreground(scoreColor(r.Score, r.Total))
		if i == s.selected {
			style = style.Bold(true)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, style.Render(line)))
		b.WriteString("\n")
	}

	return b.String()
}

// scoreBar renders e.g. "●●●○○ 3/5".
func scoreBar(score, total int) string {
	if total <= 0 {
		return fmt.Sprintf("%d/%d", score, total)
	}
	score = min(max(score, 0), total)
	return strings.Repeat("●", score) + strings.Repeat("○", total-score) + fmt.Sprintf(" %d/%d", score, total)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

func scoreColor(score, total int) color.Color {
	switch {
	case total > 0 && score == total:
		return theme.Gold
	case score >= 3:
		return theme.Success
	default:
		return theme.Text
	}
}
