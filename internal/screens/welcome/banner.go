package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/theme"
)

const bannerArt = `
 ███████╗███████╗███╗   ██╗███████╗███████╗██╗
 ██╔════╝██╔════╝████╗  ██║██╔════╝██╔════╝██║
 ███████╗█████╗  ██╔██╗ ██║███████╗█████╗  ██║
 ╚════██║██╔══╝  ██║╚██╗██║╚════██║██╔══╝  ██║
 ███████║███████╗██║ ╚████║███████║███████╗██║
 ╚══════╝╚══════╝╚═╝  ╚═══╝╚══════╝╚══════╝╚═╝`

const bannerCompact = "S E N S E I"

// RenderBanner returns the SENSEI banner in the primary color, or a
// compact one for terminals narrower than 50 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 50 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
