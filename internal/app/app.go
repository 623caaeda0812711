package app

import (
	"context"
	"fmt"
	"os"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/screens/welcome"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
)

// SessionSource reports the stored session, if any.
type SessionSource interface {
	Current(ctx context.Context) (*auth.Session, error)
}

// Options holds dependencies for the TUI.
type Options struct {
	Deps     *screen.Deps
	Sessions SessionSource
}

// userNamer is implemented by screens that know the signed-in user's
// display name.
type userNamer interface {
	UserName() string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	toasts components.Toasts
	user   string
	width  int
	height int
}

// newAppModel creates the root model starting at the welcome screen.
func newAppModel(opts Options) AppModel {
	f := &factory{deps: opts.Deps}
	opts.Deps.Screens = f

	var sess *auth.Session
	if opts.Sessions != nil {
		// No session or an expired one routes to login.
		sess, _ = opts.Sessions.Current(context.Background())
	}
	user := ""
	if sess != nil {
		user = sess.Email
	}

	first := welcome.New(func() screen.Screen {
		if sess != nil {
			return f.Dashboard(sess)
		}
		return f.Login()
	})
	return AppModel{
		router: router.New(first),
		toasts: components.NewToasts(),
		user:   user,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var handled bool
	var toastCmd tea.Cmd
	m.toasts, toastCmd, handled = m.toasts.Update(msg)
	if handled {
		return m, toastCmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.InputCapturer); ok && c.CapturingInput() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}

	case router.ResetScreenMsg:
		// Reset only happens on sign-in and sign-out.
		m.user = ""
	}

	cmd := m.router.Update(msg)
	if n, ok := m.router.Active().(userNamer); ok && n.UserName() != "" {
		m.user = n.UserName()
	}
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.user, m.width)

	var footerHints []layout.KeyHint
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = append(hp.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "Any key", Description: "Continue"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	footer := layout.RenderFooter(footerHints, m.width)

	toasts := m.toasts.View(m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if toasts != "" {
		contentHeight -= lipgloss.Height(toasts)
	}
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	if toasts != "" {
		content = toasts + "\n" + content
	}
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	p := tea.NewProgram(newAppModel(opts))
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
