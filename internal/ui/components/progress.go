package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/ui/theme"
)

// ProgressBar displays a horizontal progress bar with an optional label on
// the left and a counter (e.g. "3/5") on the right.
type ProgressBar struct {
	Label   string
	Percent float64
	Counter string
	Width   int
}

// NewProgressBar creates a new progress bar.
func NewProgressBar(label string, percent float64, counter string, width int) ProgressBar {
	return ProgressBar{
		Label:   label,
		Percent: percent,
		Counter: counter,
		Width:   width,
	}
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		result += lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}

	counter := ""
	if p.Counter != "" {
		counter = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render("  " + p.Counter)
	}

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(counter)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Percent)
	filled = max(0, min(filled, barWidth))

	result += theme.ProgressFilled.Render(strings.Repeat(" ", filled))
	result += theme.ProgressEmpty.Render(strings.Repeat(" ", barWidth-filled))
	return result + counter
}
