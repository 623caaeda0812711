package chat

import (
	"context"
	"errors"

	"github.com/abhisek/sensei/internal/api"
)

// ErrorReply is shown in place of the mentor's answer when the call fails.
const ErrorReply = "Sorry, I encountered an error connecting to the AI."

// ErrNoSavedChat is returned by Delete before the mentor has assigned the
// conversation a chat id. The thread is left as it is.
var ErrNoSavedChat = errors.New("no saved chat to delete")

// ChatDeleter removes a stored chat.
type ChatDeleter interface {
	DeleteChat(ctx context.Context, chatID string) error
}

// Conversation is a mentor chat about one skill.
type Conversation struct {
	SkillID string
	UserID  string
	Mode    Mode
	Thread  Thread
}

// NewConversation starts an empty conversation in explain mode.
func NewConversation(skillID, userID string) *Conversation {
	return &Conversation{SkillID: skillID, UserID: userID, Mode: ModeExplain}
}

// Prepare appends the user's message and returns the request to send.
func (c *Conversation) Prepare(text string) api.MentorRequest {
	c.Thread.Append(api.ChatMessage{Role: api.RoleUser, Content: text, Mode: string(c.Mode)})
	return api.MentorRequest{
		UserID:  c.UserID,
		SkillID: c.SkillID,
		ChatID:  c.Thread.ChatID,
		Message: text,
		Mode:    string(c.Mode),
	}
}

// Receive records the outcome of a send. A failure becomes an assistant
// message with ErrorReply and no mode, so it shows under every mode. The
// first chat id the backend returns is kept for the rest of the thread.
func (c *Conversation) Receive(reply *api.MentorReply, err error) {
	if err != nil {
		c.Thread.Append(api.ChatMessage{Role: api.RoleAssistant, Content: ErrorReply})
		return
	}
	if reply == nil || reply.Response == "" {
		return
	}
	if c.Thread.ChatID == "" && reply.ChatID != "" {
		c.Thread.ChatID = reply.ChatID
	}
	c.Thread.Append(api.ChatMessage{
		Role:    api.RoleAssistant,
		Content: reply.Response,
		Sources: reply.Sources,
		Mode:    reply.Mode,
	})
}

// Send prepares, sends and receives one message. The error is returned for
// logging; the thread already holds the error reply.
func (c *Conversation) Send(ctx context.Context, backend api.Backend, text string) error {
	req := c.Prepare(text)
	reply, err := backend.SendMessage(ctx, req)
	c.Receive(reply, err)
	return err
}

// Delete removes the stored chat and resets the thread. The thread is kept
// when the delete fails or there is no stored chat yet.
func (c *Conversation) Delete(ctx context.Context, chats ChatDeleter) error {
	if c.Thread.ChatID == "" {
		return ErrNoSavedChat
	}
	if err := chats.DeleteChat(ctx, c.Thread.ChatID); err != nil {
		return err
	}
	c.Thread.Reset()
	return nil
}

// Submit handles one line of input: blank lines are ignored, commands are
// applied and anything else is sent.
func (c *Conversation) Submit(ctx context.Context, backend api.Backend, chats ChatDeleter, input string) error {
	cmd, text := ParseCommand(input)
	switch cmd {
	case CommandNew:
		c.Thread.Reset()
		return nil
	case CommandDelete:
		return c.Delete(ctx, chats)
	case CommandMessage:
		return c.Send(ctx, backend, text)
	default:
		return nil
	}
}
