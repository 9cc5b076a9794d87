package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/aiquiz/internal/ui/theme"
)

const bannerArt = `
  █████╗ ██╗     ██████╗ ██╗   ██╗██╗███████╗
 ██╔══██╗██║    ██╔═══██╗██║   ██║██║╚══███╔╝
 ███████║██║    ██║   ██║██║   ██║██║  ███╔╝
 ██╔══██║██║    ██║▄▄ ██║██║   ██║██║ ███╔╝
 ██║  ██║██║    ╚██████╔╝╚██████╔╝██║███████╗
 ╚═╝  ╚═╝╚═╝     ╚══▀▀═╝  ╚═════╝ ╚═╝╚══════╝`

const bannerCompact = "A I · Q U I Z"

// bannerMinWidth is the narrowest terminal that fits bannerArt.
const bannerMinWidth = 48

// RenderBanner returns the AI QUIZ banner styled in the primary color,
// falling back to a compact title on narrow terminals.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < bannerMinWidth {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
