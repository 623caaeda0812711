package auth

import (
	"errors"
	"strings"

	"github.com/abhisek/sensei/internal/api"
)

// ErrNotSignedIn is returned when no session is stored or it can no longer
// be refreshed.
var ErrNotSignedIn = errors.New("not signed in")

// Sign-up validation errors, checked before any network call.
var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
	ErrEmailRequired    = errors.New("email is required")
)

// MinPasswordLen is the shortest password sign-up accepts.
const MinPasswordLen = 6

// ValidateSignUp checks the sign-up form.
func ValidateSignUp(email, password, confirm string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmailRequired
	}
	if password != confirm {
		return ErrPasswordMismatch
	}
	if len(password) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	return nil
}

// Friendly maps an authentication failure to the message shown to the user.
func Friendly(err error) string {
	if err == nil {
		return ""
	}
	switch {
	case errors.Is(err, ErrNotSignedIn):
		return "Please sign in to continue."
	case errors.Is(err, ErrPasswordMismatch):
		return "Passwords do not match"
	case errors.Is(err, ErrPasswordTooShort):
		return "Password must be at least 6 characters long"
	case errors.Is(err, ErrEmailRequired):
		return "Email is required"
	}

	msg := err.Error()
	var be *api.ErrBackend
	if errors.As(err, &be) {
		msg = be.Detail
	}

	switch {
	case msg == "Invalid login credentials":
		return "Incorrect email or password. Please try again."
	case strings.Contains(msg, "Email not confirmed"):
		return "Please confirm your email before signing in."
	case strings.Contains(msg, "User not found"):
		return "No account found with this email. Please sign up first."
	case strings.Contains(msg, "already registered"):
		return "An account with this email already exists. Please sign in."
	}

	if be != nil {
		return api.Message(err)
	}
	var unavail *api.ErrUnavailable
	if errors.As(err, &unavail) {
		return api.Message(err)
	}
	return msg
}
