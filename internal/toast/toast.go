// Package toast keeps short-lived notifications.
package toast

import (
	"time"

	"github.com/google/uuid"
)

// DefaultLifetime is how long a toast stays up unless told otherwise.
const DefaultLifetime = 4 * time.Second

// Kind selects a toast's color and icon.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindWarning Kind = "warning"
	KindInfo    Kind = "info"
)

// Icon returns the glyph shown before the message.
func (k Kind) Icon() string {
	switch k {
	case KindSuccess:
		return "✓"
	case KindError:
		return "✗"
	case KindWarning:
		return "!"
	default:
		return "i"
	}
}

// Toast is one notification.
type Toast struct {
	ID        string
	Kind      Kind
	Message   string
	CreatedAt time.Time
	Lifetime  time.Duration
}

// ExpiresAt returns when the toast should disappear.
func (t Toast) ExpiresAt() time.Time {
	return t.CreatedAt.Add(t.Lifetime)
}

// Stack holds the visible toasts, oldest first.
type Stack struct {
	items []Toast
}

// Push adds a toast with DefaultLifetime.
func (s *Stack) Push(kind Kind, msg string, now time.Time) Toast {
	return s.PushFor(kind, msg, now, DefaultLifetime)
}

// PushFor adds a toast that lives for d.
func (s *Stack) PushFor(kind Kind, msg string, now time.Time, d time.Duration) Toast {
	if d <= 0 {
		d = DefaultLifetime
	}
	t := Toast{ID: uuid.NewString(), Kind: kind, Message: msg, CreatedAt: now, Lifetime: d}
	s.items = append(s.items, t)
	return t
}

// Expire drops every toast whose lifetime has elapsed at now and returns
// how many were dropped.
func (s *Stack) Expire(now time.Time) int {
	kept := s.items[:0]
	for _, t := range s.items {
		if now.Before(t.ExpiresAt()) {
			kept = append(kept, t)
		}
	}
	n := len(s.items) - len(kept)
	s.items = kept
	return n
}

// Dismiss removes the toast with id.
func (s *Stack) Dismiss(id string) {
	for i, t := range s.items {
		if t.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// Items returns the visible toasts, oldest first.
func (s *Stack) Items() []Toast {
	return append([]Toast(nil), s.items...)
}

// Len returns the number of visible toasts.
func (s *Stack) Len() int { return len(s.items) }

// NextExpiry returns the earliest expiry time, or false when empty.
func (s *Stack) NextExpiry() (time.Time, bool) {
	if len(s.items) == 0 {
		return time.Time{}, false
	}
	next := s.items[0].ExpiresAt()
	for _, t := range s.items[1:] {
		if e := t.ExpiresAt(); e.Before(next) {
			next = e
		}
	}
	return next, true
}
