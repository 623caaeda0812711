package login

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/router"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/ui/components"
)

type fakeAuth struct {
	session  *auth.Session
	err      error
	signIns  int
	signUps  []auth.SignUpInput
	provider string
}

func (f *fakeAuth) SignIn(_ context.Context, _, _ string) (*auth.Session, error) {
	f.signIns++
	return f.session, f.err
}

func (f *fakeAuth) SignUp(_ context.Context, in auth.SignUpInput) (*auth.Session, error) {
	f.signUps = append(f.signUps, in)
	return f.session, f.err
}

func (f *fakeAuth) SignInWithOAuth(_ context.Context, provider string, _ func(string) error) (*auth.Session, error) {
	f.provider = provider
	return f.session, f.err
}

func (f *fakeAuth) SignOut(context.Context) error { return nil }

func typeText(s *LoginScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func newScreen(a *fakeAuth) *LoginScreen {
	s := New(&screen.Deps{Auth: a, Screens: screen.NamedScreens{}})
	s.Init()
	return s
}

func TestSignIn_Success(t *testing.T) {
	a := &fakeAuth{session: &auth.Session{UserID: "u1", Email: "a@b.c"}}
	s := newScreen(a)

	typeText(s, "a@b.c")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "secret1")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.True(t, s.pending)

	msg := cmd()
	done, ok := msg.(authDoneMsg)
	require.True(t, ok)
	assert.Equal(t, 1, a.signIns)

	_, cmd = s.Update(done)
	require.NotNil(t, cmd)
	reset, ok := cmd().(router.ResetScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "dashboard", reset.Screen.Title())
}

func TestSignIn_EmptyFields(t *testing.T) {
	a := &fakeAuth{}
	s := newScreen(a)

	_, cmd := s.Update(specialKey(tea.KeyEnter))
	assert.Nil(t, cmd)
	assert.NotEmpty(t, s.errText)
	assert.Zero(t, a.signIns)
}

func TestSignIn_FriendlyError(t *testing.T) {
	s := newScreen(&fakeAuth{})
	s.Update(authDoneMsg{Err: errors.New("Invalid login credentials")})
	assert.Equal(t, "Incorrect email or password. Please try again.", s.errText)
	assert.False(t, s.pending)
}

func TestSignUp_MismatchBlocksCall(t *testing.T) {
	a := &fakeAuth{}
	s := newScreen(a)
	s.Update(tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	require.True(t, s.signUp)
	assert.Equal(t, "Create Account", s.Title())

	typeText(s, "a@b.c")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "secret1")
	s.Update(specialKey(tea.KeyTab))
	typeText(s, "secret2")
	_, cmd := s.Update(specialKey(tea.KeyEnter))

	assert.Nil(t, cmd)
	assert.Equal(t, "Passwords do not match", s.errText)
	assert.Empty(t, a.signUps)
}

func TestSignUp_NeedsConfirmation(t *testing.T) {
	s := newScreen(&fakeAuth{})
	s.signUp = true

	_, cmd := s.Update(authDoneMsg{SignUp: true})
	require.NotNil(t, cmd)
	_, ok := cmd().(components.NotifyMsg)
	assert.True(t, ok)
	assert.False(t, s.signUp)
}

func TestOAuth_Provider(t *testing.T) {
	a := &fakeAuth{session: &auth.Session{UserID: "u1"}}
	s := newScreen(a)

	_, cmd := s.Update(tea.KeyPressMsg{Code: 't', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, "github", a.provider)
}

func TestViewShowsActionButton(t *testing.T) {
	s := newScreen(&fakeAuth{})
	assert.Contains(t, s.View(80, 30), "Sign in")

	s.Update(tea.KeyPressMsg{Code: 'n', Mod: tea.ModCtrl})
	assert.Contains(t, s.View(80, 30), "Create account")
}
