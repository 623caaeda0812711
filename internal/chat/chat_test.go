package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/supabase"
)

func TestModes(t *testing.T) {
	assert.Equal(t, ModeCoach, ModeExplain.Next())
	assert.Equal(t, ModePlan, ModeCoach.Next())
	assert.Equal(t, ModeExplain, ModePlan.Next())
	assert.Equal(t, ModeExplain, Mode("bogus").Next())

	m, ok := ParseMode(" Coach ")
	assert.True(t, ok)
	assert.Equal(t, ModeCoach, m)
	_, ok = ParseMode("debate")
	assert.False(t, ok)
}

func TestVisible(t *testing.T) {
	var th Thread
	th.Append(api.ChatMessage{Role: api.RoleUser, Content: "1", Mode: "explain"})
	th.Append(api.ChatMessage{Role: api.RoleAssistant, Content: "2", Mode: "coach"})
	th.Append(api.ChatMessage{Role: api.RoleAssistant, Content: "3"})
	th.Append(api.ChatMessage{Role: api.RoleUser, Content: "4", Mode: "explain"})

	assert.Equal(t, []string{"1", "3", "4"}, contents(th.Visible(ModeExplain)))
	assert.Equal(t, []string{"2", "3"}, contents(th.Visible(ModeCoach)))
	assert.Equal(t, []string{"3"}, contents(th.Visible(ModePlan)))
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in       string
		wantCmd  Command
		wantText string
	}{
		{"", CommandNone, ""},
		{"   \n", CommandNone, ""},
		{"/new", CommandNew, "/new"},
		{"  /delete ", CommandDelete, "/delete"},
		{"/newer", CommandMessage, "/newer"},
		{" what is a goroutine? ", CommandMessage, "what is a goroutine?"},
	}
	for _, tt := range tests {
		cmd, text := ParseCommand(tt.in)
		assert.Equal(t, tt.wantCmd, cmd, tt.in)
		assert.Equal(t, tt.wantText, text, tt.in)
	}
}

func TestIsQuizPayload(t *testing.T) {
	assert.True(t, IsQuizPayload(`{"questions": []}`))
	assert.False(t, IsQuizPayload(` {"questions": []}`))
	assert.False(t, IsQuizPayload(`{"answer": 1}`))
	assert.False(t, IsQuizPayload(`Here are some "questions"`))
}

func TestSend_AdoptsChatID(t *testing.T) {
	ctx := context.Background()
	backend := api.NewMockBackend()
	backend.Reply = &api.MentorReply{
		ChatID:   "chat-9",
		Response: "Goroutines are cheap threads.",
		Mode:     "explain",
		Sources:  []api.Source{{Title: "notes.pdf", Content: "..."}},
	}
	c := NewConversation("s1", "u1")

	require.NoError(t, c.Send(ctx, backend, "goroutines?"))
	assert.Equal(t, "chat-9", c.Thread.ChatID)
	require.Len(t, c.Thread.Messages, 2)
	assert.Equal(t, api.RoleUser, c.Thread.Messages[0].Role)
	assert.Equal(t, "explain", c.Thread.Messages[0].Mode)
	assert.Equal(t, backend.Reply.Sources, c.Thread.Messages[1].Sources)

	backend.Reply = &api.MentorReply{ChatID: "chat-other", Response: "again", Mode: "coach"}
	c.Mode = ModeCoach
	require.NoError(t, c.Send(ctx, backend, "more"))
	assert.Equal(t, "chat-9", c.Thread.ChatID, "first chat id is kept")

	calls := backend.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "", calls[0].Arg.(api.MentorRequest).ChatID)
	second := calls[1].Arg.(api.MentorRequest)
	assert.Equal(t, "chat-9", second.ChatID)
	assert.Equal(t, "coach", second.Mode)
	assert.Equal(t, "s1", second.SkillID)
	assert.Equal(t, "u1", second.UserID)
}

func TestSend_Failure(t *testing.T) {
	backend := api.NewMockBackend()
	backend.Errors["SendMessage"] = &api.ErrUnavailable{Service: "backend", Err: errors.New("refused")}
	c := NewConversation("s1", "u1")
	c.Mode = ModePlan

	err := c.Send(context.Background(), backend, "hi")
	assert.Error(t, err)
	require.Len(t, c.Thread.Messages, 2)
	reply := c.Thread.Messages[1]
	assert.Equal(t, api.RoleAssistant, reply.Role)
	assert.Equal(t, ErrorReply, reply.Content)
	assert.Len(t, c.Thread.Visible(ModeExplain), 1, "error reply shows in every mode")
}

func TestReceive_EmptyResponse(t *testing.T) {
	c := NewConversation("s1", "u1")
	c.Prepare("hi")
	c.Receive(&api.MentorReply{ChatID: "c1"}, nil)
	assert.Len(t, c.Thread.Messages, 1)
	assert.Empty(t, c.Thread.ChatID)
}

func TestSubmit_Commands(t *testing.T) {
	ctx := context.Background()
	backend := api.NewMockBackend()
	data := supabase.NewFakeData()
	c := NewConversation("s1", "u1")

	require.NoError(t, c.Submit(ctx, backend, data, "   "))
	assert.Empty(t, c.Thread.Messages)
	assert.Zero(t, backend.CallCount("SendMessage"))

	require.NoError(t, c.Submit(ctx, backend, data, "hello"))
	assert.Equal(t, "chat-1", c.Thread.ChatID)

	require.NoError(t, c.Submit(ctx, backend, data, "/new"))
	assert.Empty(t, c.Thread.Messages)
	assert.Empty(t, c.Thread.ChatID)
	assert.Empty(t, data.DeletedChat, "/new does not delete the stored chat")

	require.NoError(t, c.Submit(ctx, backend, data, "hello again"))
	require.NoError(t, c.Submit(ctx, backend, data, "/delete"))
	assert.Equal(t, []string{"chat-1"}, data.DeletedChat)
	assert.Empty(t, c.Thread.Messages)

	assert.ErrorIs(t, c.Submit(ctx, backend, data, "/delete"), ErrNoSavedChat)
	assert.Len(t, data.DeletedChat, 1, "nothing to delete without a chat id")
}

func TestDelete_WithoutChatIDKeepsThread(t *testing.T) {
	data := supabase.NewFakeData()
	c := NewConversation("s1", "u1")
	c.Thread.Append(api.ChatMessage{Role: api.RoleUser, Content: "unsaved"})

	assert.ErrorIs(t, c.Delete(context.Background(), data), ErrNoSavedChat)
	assert.Empty(t, data.DeletedChat)
	assert.Len(t, c.Thread.Messages, 1)
}

func TestDelete_FailureKeepsThread(t *testing.T) {
	data := supabase.NewFakeData()
	data.Err = errors.New("rls")
	c := NewConversation("s1", "u1")
	c.Thread.ChatID = "c1"
	c.Thread.Append(api.ChatMessage{Role: api.RoleUser, Content: "x"})

	assert.Error(t, c.Delete(context.Background(), data))
	assert.Equal(t, "c1", c.Thread.ChatID)
	assert.Len(t, c.Thread.Messages, 1)
}

func contents(msgs []api.ChatMessage) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Content
	}
	return out
}
