package screen

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/supabase"
)

// Authenticator is the part of auth.Manager screens use.
type Authenticator interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignUp(ctx context.Context, in auth.SignUpInput) (*auth.Session, error)
	SignInWithOAuth(ctx context.Context, provider string, open func(url string) error) (*auth.Session, error)
	SignOut(ctx context.Context) error
}

// Screens builds the destination screens. Screens navigate through it so
// that screen packages do not import each other.
type Screens interface {
	Login() Screen
	Dashboard(sess *auth.Session) Screen
	Skill(sess *auth.Session, skill api.Skill) Screen
	Roadmap(sess *auth.Session, skill api.Skill) Screen
	Quiz(sess *auth.Session, skill api.Skill) Screen
	Coding(sess *auth.Session, skill api.Skill) Screen
	Analytics(sess *auth.Session, skill api.Skill) Screen
}

// Deps is what every screen may need.
type Deps struct {
	Auth    Authenticator
	Backend api.Backend
	Runner  api.Runner
	Data    supabase.Data
	Screens Screens
	Logger  *zap.Logger

	// OpenURL launches a browser for OAuth sign-in.
	OpenURL func(url string) error

	PollInterval  time.Duration
	QuizQuestions int
}

// Log returns the logger, or a no-op logger when none is set.
func (d *Deps) Log() *zap.Logger {
	if d == nil || d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}
