package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cermat/internal/ui/theme"
)

const bannerArt = `
  ██████╗███████╗██████╗ ███╗   ███╗ █████╗ ████████╗
 ██╔════╝██╔════╝██╔══██╗████╗ ████║██╔══██╗╚══██╔══╝
 ██║     █████╗  ██████╔╝██╔████╔██║███████║   ██║
 ██║     ██╔══╝  ██╔══██╗██║╚██╔╝██║██╔══██║   ██║
 ╚██████╗███████╗██║  ██║██║ ╚═╝ ██║██║  ██║   ██║
  ╚═════╝╚══════╝╚═╝  ╚═╝╚═╝     ╚═╝╚═╝  ╚═╝   ╚═╝`

const bannerCompact = "C E R M A T"

// RenderBanner returns the banner styled in the primary color. Terminals
// narrower than 56 columns get the compact variant.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 56 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
