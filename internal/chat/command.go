package chat

import "strings"

// Command is what a line typed into the message box asks for.
type Command int

const (
	CommandNone Command = iota // blank input, ignored
	CommandMessage
	CommandNew
	CommandDelete
)

// ParseCommand classifies input and returns the trimmed text.
func ParseCommand(input string) (Command, string) {
	text := strings.TrimSpace(input)
	switch text {
	case "":
		return CommandNone, ""
	case "/new":
		return CommandNew, text
	case "/delete":
		return CommandDelete, text
	default:
		return CommandMessage, text
	}
}
