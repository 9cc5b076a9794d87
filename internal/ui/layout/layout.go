// Package layout renders the frame around every screen: a header bar with
// the screen title and model, the screen body, and a footer of key hints.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/ui/theme"
)

// Smallest terminal the quiz cards fit in.
const (
	MinWidth  = 80
	MinHeight = 24
)

const appName = "AI Quiz"

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage replaces the frame when the terminal is too small.
func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("Window too small for the quiz (%d x %d).\n\nResize to at least %d x %d.",
		width, height, MinWidth, MinHeight)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(body))
}

// RenderHeader shows the app name on the left, title centered and status
// (the model in use, or "mock") on the right.
func RenderHeader(title, status string, width int) string {
	inner := max(width-2, 0)
	third := inner / 3

	left := lipgloss.NewStyle().
		Width(third).
		PaddingLeft(1).
		Foreground(theme.Primary).
		Bold(true).
		Render(appName)
	right := lipgloss.NewStyle().
		Width(third).
		PaddingRight(1).
		Align(lipgloss.Right).
		Foreground(theme.Accent).
		Render(status)
	center := lipgloss.NewStyle().
		Width(max(inner-2*third, 0)).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Render(title)

	return theme.Bar.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, left, center, right))
}

// RenderFooter lists the active key hints.
func RenderFooter(hints []KeyHint, width int) string {
	key := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	b.WriteString(" ")
	for i, h := range hints {
		if i > 0 {
			b.WriteString("  ·  ")
		}
		b.WriteString(key.Render(h.Key) + " " + desc.Render(h.Description))
	}
	return theme.Bar.Width(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height remains.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
