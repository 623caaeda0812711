package login

import "github.com/abhisek/sensei/internal/auth"

// authDoneMsg reports the outcome of a sign-in or sign-up call.
type authDoneMsg struct {
	Session *auth.Session
	SignUp  bool
	Err     error
}
