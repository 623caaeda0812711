package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/toast"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

// Field indexes. Confirm and full name only exist in sign-up mode.
const (
	fieldEmail = iota
	fieldPassword
	fieldConfirm
	fieldName
)

// LoginScreen is the email/password and OAuth sign-in form.
type LoginScreen struct {
	deps *screen.Deps

	inputs  []components.TextInput
	focus   int
	signUp  bool
	pending bool
	errText string
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login screen.
func New(deps *screen.Deps) *LoginScreen {
	s := &LoginScreen{
		deps: deps,
		inputs: []components.TextInput{
			components.NewTextInput("Email", "you@example.com", false, 254),
			components.NewTextInput("Password", "••••••", true, 128),
			components.NewTextInput("Confirm password", "••••••", true, 128),
			components.NewTextInput("Full name", "optional", false, 100),
		},
	}
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.inputs[fieldEmail].Focus()
}

func (s *LoginScreen) Title() string {
	if s.signUp {
		return "Create Account"
	}
	return "Sign In"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	toggle := "Sign up"
	if s.signUp {
		toggle = "Sign in"
	}
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Submit"},
		{Key: "Ctrl+N", Description: toggle},
		{Key: "Ctrl+G", Description: "Google"},
		{Key: "Ctrl+T", Description: "GitHub"},
	}
}

// fieldCount is the number of visible fields in the current mode.
func (s *LoginScreen) fieldCount() int {
	if s.signUp {
		return len(s.inputs)
	}
	return fieldConfirm
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		return s.handleAuthDone(msg)
	case tea.KeyPressMsg:
		if s.pending {
			return s, nil
		}
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus((s.focus + 1) % s.fieldCount())
		case "shift+tab", "up":
			return s, s.setFocus((s.focus - 1 + s.fieldCount()) % s.fieldCount())
		case "ctrl+n":
			s.signUp = !s.signUp
			s.errText = ""
			if s.focus >= s.fieldCount() {
				return s, s.setFocus(fieldEmail)
			}
			return s, nil
		case "ctrl+g":
			return s, s.oauth("google")
		case "ctrl+t":
			return s, s.oauth("github")
		case "enter":
			return s, s.submit()
		}
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *LoginScreen) setFocus(i int) tea.Cmd {
	s.inputs[s.focus].Blur()
	s.focus = i
	return s.inputs[i].Focus()
}

func (s *LoginScreen) value(i int) string {
	return s.inputs[i].Value()
}

func (s *LoginScreen) submit() tea.Cmd {
	email := strings.TrimSpace(s.value(fieldEmail))
	password := s.value(fieldPassword)

	if s.signUp {
		in := auth.SignUpInput{
			Email:    email,
			Password: password,
			Confirm:  s.value(fieldConfirm),
			FullName: strings.TrimSpace(s.value(fieldName)),
		}
		if err := auth.ValidateSignUp(in.Email, in.Password, in.Confirm); err != nil {
			s.errText = auth.Friendly(err)
			return nil
		}
		s.pending = true
		s.errText = ""
		a := s.deps.Auth
		return func() tea.Msg {
			sess, err := a.SignUp(context.Background(), in)
			return authDoneMsg{Session: sess, SignUp: true, Err: err}
		}
	}

	if email == "" || password == "" {
		s.errText = "Enter your email and password."
		return nil
	}
	s.pending = true
	s.errText = ""
	a := s.deps.Auth
	return func() tea.Msg {
		sess, err := a.SignIn(context.Background(), email, password)
		return authDoneMsg{Session: sess, Err: err}
	}
}

func (s *LoginScreen) oauth(provider string) tea.Cmd {
	s.pending = true
	s.errText = ""
	a, open := s.deps.Auth, s.deps.OpenURL
	return func() tea.Msg {
		sess, err := a.SignInWithOAuth(context.Background(), provider, open)
		return authDoneMsg{Session: sess, Err: err}
	}
}

func (s *LoginScreen) handleAuthDone(msg authDoneMsg) (screen.Screen, tea.Cmd) {
	s.pending = false
	if msg.Err != nil {
		s.deps.Log().Info("authentication failed", zap.Error(msg.Err))
		s.errText = auth.Friendly(msg.Err)
		return s, nil
	}
	if msg.Session == nil {
		// Sign-up succeeded but the email must be confirmed first.
		s.signUp = false
		s.inputs[fieldPassword].Reset()
		s.inputs[fieldConfirm].Reset()
		return s, components.Notify(toast.KindInfo, "Check your email to confirm your account, then sign in.")
	}

	dash := s.deps.Screens.Dashboard(msg.Session)
	return s, func() tea.Msg { return router.ResetScreenMsg{Screen: dash} }
}

func (s *LoginScreen) View(width, height int) string {
	var b strings.Builder
	for i := 0; i < s.fieldCount(); i++ {
		b.WriteString(s.inputs[i].View())
		b.WriteString("\n\n")
	}

	label := "Sign in"
	if s.signUp {
		label = "Create account"
	}
	b.WriteString(components.NewButton(label, !s.pending).View())
	b.WriteString("\n\n")

	switch {
	case s.pending:
		b.WriteString(theme.Hint.Render("Signing in..."))
	case s.errText != "":
		b.WriteString(theme.Incorrect.Render(s.errText))
	default:
		if s.signUp {
			b.WriteString(theme.Hint.Render("Already have an account? Ctrl+N to sign in."))
		} else {
			b.WriteString(theme.Hint.Render("No account yet? Ctrl+N to sign up."))
		}
	}

	w := components.ContentWidth(width)
	return components.Center(components.Card(s.Title(), b.String(), w, true), width, height)
}
