package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/ui/theme"
)

// minBarWidth keeps a bar visible next to long labels.
const minBarWidth = 4

// ProgressBar is a label, a filled track and an optional trailing value
// such as "60%" or "3/10".
type ProgressBar struct {
	Label    string
	Fraction float64
	Suffix   string
	Width    int
}

// NewProgressBar creates a bar filled to fraction (clamped to [0, 1]) that
// fits in width columns.
func NewProgressBar(label string, fraction float64, width int) ProgressBar {
	return ProgressBar{Label: label, Fraction: fraction, Width: width}
}

// WithSuffix returns the bar with a value drawn after the track.
func (p ProgressBar) WithSuffix(s string) ProgressBar {
	p.Suffix = s
	return p
}

func (p ProgressBar) View() string {
	f := max(0, min(p.Fraction, 1))

	var label, suffix string
	if p.Label != "" {
		label = lipgloss.NewStyle().Foreground(theme.Text).Render(p.Label) + "  "
	}
	if p.Suffix != "" {
		suffix = lipgloss.NewStyle().Foreground(theme.TextDim).Render("  " + p.Suffix)
	}

	track := max(p.Width-lipgloss.Width(label)-lipgloss.Width(suffix), minBarWidth)
	filled := int(float64(track) * f)

	var b strings.Builder
	b.WriteString(label)
	b.WriteString(theme.ProgressFilled.Render(strings.Repeat(" ", filled)))
	b.WriteString(theme.ProgressEmpty.Render(strings.Repeat(" ", track-filled)))
	b.WriteString(suffix)
	return b.String()
}
