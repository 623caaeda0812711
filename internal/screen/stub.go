package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
)

// Named is a placeholder screen that only has a title. Navigation tests
// use it to see where a screen went.
type Named struct {
	Name  string
	Skill api.Skill
}

func (n *Named) Init() tea.Cmd                    { return nil }
func (n *Named) Update(tea.Msg) (Screen, tea.Cmd) { return n, nil }
func (n *Named) View(int, int) string             { return n.Name }
func (n *Named) Title() string                    { return n.Name }

// NamedScreens is a Screens that returns Named screens.
type NamedScreens struct{}

func (NamedScreens) Login() Screen                  { return &Named{Name: "login"} }
func (NamedScreens) Dashboard(*auth.Session) Screen { return &Named{Name: "dashboard"} }
func (NamedScreens) Skill(_ *auth.Session, s api.Skill) Screen {
	return &Named{Name: "skill", Skill: s}
}
func (NamedScreens) Roadmap(_ *auth.Session, s api.Skill) Screen {
	return &Named{Name: "roadmap", Skill: s}
}
func (NamedScreens) Quiz(_ *auth.Session, s api.Skill) Screen {
	return &Named{Name: "quiz", Skill: s}
}
func (NamedScreens) Coding(_ *auth.Session, s api.Skill) Screen {
	return &Named{Name: "coding", Skill: s}
}
func (NamedScreens) Analytics(_ *auth.Session, s api.Skill) Screen {
	return &Named{Name: "analytics", Skill: s}
}

var _ Screens = NamedScreens{}
