package components

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/toast"
	"github.com/abhisek/sensei/internal/ui/theme"
)

// NotifyMsg asks the app to show a toast.
type NotifyMsg struct {
	Kind toast.Kind
	Text string
}

// Notify returns a command that shows a toast.
func Notify(kind toast.Kind, text string) tea.Cmd {
	return func() tea.Msg { return NotifyMsg{Kind: kind, Text: text} }
}

// toastExpireMsg fires when the earliest toast may have expired.
type toastExpireMsg time.Time

// Toasts renders a toast stack and keeps it pruned.
type Toasts struct {
	stack toast.Stack
	now   func() time.Time
}

// NewToasts creates an empty toast stack.
func NewToasts() Toasts {
	return Toasts{now: time.Now}
}

// Update consumes NotifyMsg and expiry ticks. handled is false for any
// other message.
func (t Toasts) Update(msg tea.Msg) (_ Toasts, cmd tea.Cmd, handled bool) {
	switch msg := msg.(type) {
	case NotifyMsg:
		t.stack.Push(msg.Kind, msg.Text, t.now())
		return t, t.schedule(), true
	case toastExpireMsg:
		t.stack.Expire(time.Time(msg))
		return t, t.schedule(), true
	}
	return t, nil, false
}

func (t Toasts) schedule() tea.Cmd {
	next, ok := t.stack.NextExpiry()
	if !ok {
		return nil
	}
	d := next.Sub(t.now())
	if d < 0 {
		d = 0
	}
	return tea.Tick(d, func(at time.Time) tea.Msg { return toastExpireMsg(at) })
}

// Len returns the number of visible toasts.
func (t Toasts) Len() int { return t.stack.Len() }

// View renders the toasts, newest last, right-aligned in width.
func (t Toasts) View(width int) string {
	items := t.stack.Items()
	if len(items) == 0 {
		return ""
	}
	lines := make([]string, 0, len(items))
	for _, it := range items {
		style := theme.KindColor(string(it.Kind)).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1)
		lines = append(lines, style.Render(it.Kind.Icon()+" "+it.Message))
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(strings.Join(lines, "\n"))
}
