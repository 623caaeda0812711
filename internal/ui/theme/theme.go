// Package theme holds the palette and shared lipgloss styles.
package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Palette. Indigo and teal over slate.
var (
	Primary   = lipgloss.Color("#6366F1")
	Secondary = lipgloss.Color("#14B8A6")
	Accent    = lipgloss.Color("#F59E0B")
	Success   = lipgloss.Color("#22C55E")
	Warning   = lipgloss.Color("#EAB308")
	Error     = lipgloss.Color("#EF4444")
	Info      = lipgloss.Color("#38BDF8")
	Text      = lipgloss.Color("#F1F5F9")
	TextDim   = lipgloss.Color("#94A3B8")
	Surface   = lipgloss.Color("#1E293B")
	Border    = lipgloss.Color("#475569")
)

var (
	Title    = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Subtitle = lipgloss.NewStyle().Foreground(TextDim)
	Body     = lipgloss.NewStyle().Foreground(Text)
	Hint     = lipgloss.NewStyle().Foreground(TextDim).Italic(true)
	Label    = lipgloss.NewStyle().Foreground(Secondary).Bold(true)

	Selected   = lipgloss.NewStyle().Foreground(Primary).Bold(true)
	Unselected = lipgloss.NewStyle().Foreground(Text)

	// Correct and Incorrect mark graded quiz answers.
	Correct   = lipgloss.NewStyle().Foreground(Success).Bold(true)
	Incorrect = lipgloss.NewStyle().Foreground(Error).Bold(true)
)

var (
	Card        = box(Border)
	FocusedCard = box(Primary)

	ProgressFilled = lipgloss.NewStyle().Background(Secondary)
	ProgressEmpty  = lipgloss.NewStyle().Background(Surface)

	ButtonActive   = lipgloss.NewStyle().Background(Primary).Foreground(Text).Bold(true).Padding(0, 2)
	ButtonInactive = box(Border).Foreground(TextDim).Padding(0, 2)

	// Chat turns carry a colored rule on the left edge.
	UserBubble      = turn(Secondary)
	AssistantBubble = turn(Primary)
)

// KindColor styles text for a notification or status kind: success, error,
// warning, anything else renders as info.
func KindColor(kind string) lipgloss.Style {
	c := Info
	switch kind {
	case "success":
		c = Success
	case "error":
		c = Error
	case "warning":
		c = Warning
	}
	return lipgloss.NewStyle().Foreground(c)
}

func box(border color.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1)
}

func turn(edge color.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(Text).
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(edge).
		PaddingLeft(1)
}
