// Package placeholder shows a notice in place of a feature the current
// skill does not support.
package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

// PlaceholderScreen is a static notice. Esc is handled by the app.
type PlaceholderScreen struct {
	title   string
	message string
}

var (
	_ screen.Screen          = (*PlaceholderScreen)(nil)
	_ screen.KeyHintProvider = (*PlaceholderScreen)(nil)
)

func New(title, message string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title, message: message}
}

func (p *PlaceholderScreen) Init() tea.Cmd                          { return nil }
func (p *PlaceholderScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return p, nil }
func (p *PlaceholderScreen) Title() string                          { return p.title }

func (p *PlaceholderScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "esc", Description: "Back"}}
}

func (p *PlaceholderScreen) View(width, height int) string {
	w := min(max(width-8, 20), 60)
	card := theme.Card.Width(w).Align(lipgloss.Center).Render(
		theme.Label.Render("Not available") + "\n\n" + theme.Body.Width(w-4).Render(p.message),
	)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
