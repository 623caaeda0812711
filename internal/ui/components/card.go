package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/theme"
)

// ContentWidth returns the inner width used for centered forms and cards.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Card draws content in a rounded box of the given outer width with an
// optional title line.
func Card(title, content string, width int, focused bool) string {
	style := theme.Card
	if focused {
		style = theme.FocusedCard
	}
	body := content
	if title != "" {
		body = theme.Title.Render(title) + "\n" + content
	}
	inner := width - style.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}
	return style.Width(inner).Render(body)
}

// Center places content in the middle of a width x height area.
func Center(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Banner renders a full-width status line in the color of kind.
func Banner(kind, text string, width int) string {
	return theme.KindColor(kind).
		Bold(true).
		Width(width).
		Render("  " + text)
}
