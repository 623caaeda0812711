// Package chat holds mentor conversations: mode-partitioned threads and
// the slash commands typed into the message box.
package chat

import (
	"strings"

	"github.com/abhisek/sensei/internal/api"
)

// Mode partitions a skill's conversation.
type Mode string

const (
	ModeExplain Mode = "explain"
	ModeCoach   Mode = "coach"
	ModePlan    Mode = "plan"
)

// AllModes returns the modes in display order.
func AllModes() []Mode {
	return []Mode{ModeExplain, ModeCoach, ModePlan}
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllModes() {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Next cycles to the following mode.
func (m Mode) Next() Mode {
	modes := AllModes()
	for i, v := range modes {
		if v == m {
			return modes[(i+1)%len(modes)]
		}
	}
	return ModeExplain
}

// Thread is the message list of one conversation plus the backend chat id
// once one has been assigned.
type Thread struct {
	ChatID   string
	Messages []api.ChatMessage
}

// Append adds a message at the end.
func (t *Thread) Append(m api.ChatMessage) {
	t.Messages = append(t.Messages, m)
}

// Visible returns the messages shown under mode: those tagged with it and
// those with no mode, in order.
func (t *Thread) Visible(mode Mode) []api.ChatMessage {
	var out []api.ChatMessage
	for _, m := range t.Messages {
		if m.Mode == "" || m.Mode == string(mode) {
			out = append(out, m)
		}
	}
	return out
}

// Reset forgets the messages and the chat id.
func (t *Thread) Reset() {
	t.ChatID = ""
	t.Messages = nil
}

// IsQuizPayload reports whether an assistant reply carries a quiz to be
// rendered interactively instead of as text.
func IsQuizPayload(content string) bool {
	return strings.HasPrefix(content, "{") && strings.Contains(content, `"questions"`)
}
