package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for cards so that
// stacked boxes line up.
func ContentWidth(frameWidth int) int {
	// Leave room for the card border (2) and padding (4).
	w := frameWidth - 6
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card wraps content in a rounded, padded box of width cw.
func Card(content string, cw int) string {
	return CardWithBorder(content, cw, lipgloss.RoundedBorder(), theme.Border)
}

// CardWithBorder is Card with a custom border and border color.
func CardWithBorder(content string, cw int, border lipgloss.Border, c color.Color) string {
	return lipgloss.NewStyle().
		Border(border).
		BorderForeground(c).
		Width(cw).
		Padding(1, 2).
		Render(content)
}
