package components

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/ui/theme"
)

// OptionLabels are the letters shown in front of each option.
var OptionLabels = []string{"A", "B", "C", "D"}

// MultiChoice renders a question with lettered options and a cursor.
//
// Chosen is the recorded answer (-1 for none). When Reveal is set the
// correct option is shown in green and a wrong choice in red; the cursor is
// hidden and keys are ignored.
type MultiChoice struct {
	Question     string
	Options      []string
	CorrectIndex int
	Cursor       int
	Chosen       int
	Reveal       bool
}

// NewMultiChoice creates a selector for one question. chosen is the
// previously recorded answer or -1; the cursor starts on it.
func NewMultiChoice(question string, options []string, correctIndex, chosen int) MultiChoice {
	cursor := 0
	if chosen >= 0 && chosen < len(options) {
		cursor = chosen
	}
	return MultiChoice{
		Question:     question,
		Options:      options,
		CorrectIndex: correctIndex,
		Cursor:       cursor,
		Chosen:       chosen,
	}
}

// OptionChosenMsg is emitted when an option is picked with enter or its
// number key.
type OptionChosenMsg struct {
	Index int
}

// Update moves the cursor with up/down and picks with enter or 1-4.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Reveal {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Options)-1 {
			m.Cursor++
		}
	case "enter":
		return m.choose(m.Cursor)
	default:
		if len(key) == 1 && key[0] >= '1' && int(key[0]-'1') < len(m.Options) {
			return m.choose(int(key[0] - '1'))
		}
	}

	return m, nil
}

func (m MultiChoice) choose(idx int) (MultiChoice, tea.Cmd) {
	m.Cursor = idx
	m.Chosen = idx
	return m, func() tea.Msg { return OptionChosenMsg{Index: idx} }
}

// View renders the question and its options.
func (m MultiChoice) View() string {
	questionStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	s := questionStyle.Render(m.Question) + "\n\n"

	for i, opt := range m.Options {
		label := "?"
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		prefix := "  "
		if i == m.Cursor && !m.Reveal {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s)  %s", prefix, label, opt)

		switch {
		case m.Reveal && i == m.CorrectIndex:
			line += "  ✓"
			s += theme.Correct.Render(line)
		case m.Reveal && i == m.Chosen:
			line += "  ✗"
			s += theme.Incorrect.Render(line)
		case m.Reveal:
			s += lipgloss.NewStyle().Foreground(theme.TextDim).Render(line)
		case i == m.Chosen:
			s += theme.Chosen.Render(line + "  •")
		case i == m.Cursor:
			s += theme.Selected.Render(line)
		default:
			s += theme.Unselected.Render(line)
		}
		s += "\n"
	}

	return s
}

// IsCorrect reports whether the chosen option is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Chosen >= 0 && m.Chosen == m.CorrectIndex
}
