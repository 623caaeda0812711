// Package layout draws the frame every screen is rendered into.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/theme"
)

// Terminals smaller than MinWidth x MinHeight get a resize notice instead of
// the app.
const (
	MinWidth  = 80
	MinHeight = 24
)

const (
	brand      = "StudySensei"
	hintGap    = "   "
	framePad   = 2
	borderCols = 2
)

// KeyHint is one "key description" pair in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall reports whether the terminal is below MinWidth x MinHeight.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage fills width x height with a resize notice.
func RenderMinSizeMessage(width, height int) string {
	body := fmt.Sprintf("Terminal too small.\n\nResize to at least %d x %d\n\nCurrent: %d x %d",
		MinWidth, MinHeight, width, height)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.Text).Align(lipgloss.Center).Render(body))
}

// RenderHeader draws the brand on the left, title centered and the signed-in
// user on the right. user is empty when signed out.
func RenderHeader(title, user string, width int) string {
	inner := max(width-borderCols-framePad, 0)

	left := theme.Title.Render(brand)
	right := ""
	if user != "" {
		right = lipgloss.NewStyle().Foreground(theme.Secondary).Render("● " + Truncate(user, inner/4))
	}
	room := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 0)
	center := lipgloss.PlaceHorizontal(room, lipgloss.Center, theme.Body.Render(Truncate(title, room-2)))

	return frameBox(width).Render(left + center + right)
}

// RenderFooter draws as many key hints as fit on one line, in order.
func RenderFooter(hints []KeyHint, width int) string {
	inner := max(width-borderCols-framePad, 0)
	key := theme.Body.Bold(true)
	desc := lipgloss.NewStyle().Foreground(theme.TextDim)

	var b strings.Builder
	for i, h := range hints {
		part := key.Render(h.Key) + " " + desc.Render(h.Description)
		if i > 0 {
			part = hintGap + part
		}
		if lipgloss.Width(b.String())+lipgloss.Width(part) > inner {
			break
		}
		b.WriteString(part)
	}
	return frameBox(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, giving content whatever
// height the other two leave.
func RenderFrame(header, content, footer string, width, height int) string {
	rest := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(rest).MaxHeight(rest).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

// Truncate shortens s to max display cells, ending with an ellipsis.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if lipgloss.Width(s) <= max {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && lipgloss.Width(string(r))+1 > max {
		r = r[:len(r)-1]
	}
	return string(r) + "…"
}

func frameBox(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, framePad/2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border)
}
