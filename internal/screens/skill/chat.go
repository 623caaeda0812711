package skill

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/chat"
	"github.com/abhisek/sensei/internal/quiz"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/toast"
	"github.com/abhisek/sensei/internal/ui/components"
)

// scrollStep is how many lines PgUp/PgDn move the transcript.
const scrollStep = 5

func (s *SkillScreen) updateChat(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+e":
		s.conv.Mode = s.conv.Mode.Next()
		s.scroll = 0
		return s, nil
	case "pgup":
		s.scroll += scrollStep
		return s, nil
	case "pgdown":
		s.scroll = max(s.scroll-scrollStep, 0)
		return s, nil
	case "ctrl+t":
		if s.activeQuiz() != nil {
			s.focusQuiz = true
			s.quizQ, s.quizOpt = 0, 0
			s.input.Blur()
		}
		return s, nil
	case "enter":
		if s.sending {
			return s, nil
		}
		text := s.input.Value()
		s.input.Reset()
		return s, s.submit(text)
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

// submit applies a command or sends a message.
func (s *SkillScreen) submit(text string) tea.Cmd {
	cmd, body := chat.ParseCommand(text)
	switch cmd {
	case chat.CommandNew:
		s.conv.Thread.Reset()
		s.scroll = 0
		return components.Notify(toast.KindInfo, "Started a new chat")
	case chat.CommandDelete:
		chatID := s.conv.Thread.ChatID
		if chatID == "" {
			return components.Notify(toast.KindInfo, "Nothing to delete yet")
		}
		data, skillID := s.deps.Data, s.skill.ID
		return func() tea.Msg {
			return chatDeletedMsg{SkillID: skillID, Err: data.DeleteChat(context.Background(), chatID)}
		}
	case chat.CommandMessage:
		req := s.conv.Prepare(body)
		s.sending = true
		s.scroll = 0
		backend := s.deps.Backend
		return func() tea.Msg {
			reply, err := backend.SendMessage(context.Background(), req)
			return replyMsg{SkillID: req.SkillID, Reply: reply, Err: err}
		}
	}
	return nil
}

func (s *SkillScreen) handleReply(msg replyMsg) (screen.Screen, tea.Cmd) {
	s.sending = false
	if msg.Err != nil {
		s.deps.Log().Error("mentor message", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
	}
	s.conv.Receive(msg.Reply, msg.Err)
	s.scroll = 0
	return s, nil
}

func (s *SkillScreen) handleChatDeleted(msg chatDeletedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.deps.Log().Error("delete chat", zap.String("chat_id", s.conv.Thread.ChatID), zap.Error(msg.Err))
		return s, components.Notify(toast.KindError, "Failed to delete chat: "+api.Message(msg.Err))
	}
	s.conv.Thread.Reset()
	s.scroll = 0
	return s, components.Notify(toast.KindSuccess, "Chat deleted")
}

// inlineQuiz returns the parsed quiz for a message, parsing it on first
// use. It returns nil when the payload is malformed.
func (s *SkillScreen) inlineQuiz(content string) *quiz.Inline {
	if q, ok := s.quizzes[content]; ok {
		return q
	}
	q, err := quiz.ParseInline(content)
	if err != nil {
		s.deps.Log().Warn("malformed inline quiz", zap.Error(err))
		s.quizzes[content] = nil
		return nil
	}
	s.quizzes[content] = q
	return q
}

// activeQuiz is the newest unsubmitted inline quiz in the current mode.
func (s *SkillScreen) activeQuiz() *quiz.Inline {
	visible := s.conv.Thread.Visible(s.conv.Mode)
	for i := len(visible) - 1; i >= 0; i-- {
		m := visible[i]
		if m.Role != api.RoleAssistant || !chat.IsQuizPayload(m.Content) {
			continue
		}
		if q := s.inlineQuiz(m.Content); q != nil && !q.Submitted {
			return q
		}
	}
	return nil
}

func (s *SkillScreen) updateInlineQuiz(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	q := s.activeQuiz()
	if q == nil {
		s.focusQuiz = false
		return s, s.input.Focus()
	}
	options := len(q.Questions[s.quizQ].Options)

	switch msg.String() {
	case "esc":
		s.focusQuiz = false
		return s, s.input.Focus()
	case "up", "k":
		if s.quizOpt > 0 {
			s.quizOpt--
		}
	case "down", "j":
		if s.quizOpt < options-1 {
			s.quizOpt++
		}
	case "left", "h":
		if s.quizQ > 0 {
			s.quizQ--
			s.quizOpt = 0
		}
	case "right", "l":
		if s.quizQ < len(q.Questions)-1 {
			s.quizQ++
			s.quizOpt = 0
		}
	case "enter", "space":
		q.Answer(s.quizQ, s.quizOpt)
		if s.quizQ < len(q.Questions)-1 {
			s.quizQ++
			s.quizOpt = 0
		}
	case "ctrl+s":
		return s, s.submitInline(q)
	}
	return s, nil
}

func (s *SkillScreen) submitInline(q *quiz.Inline) tea.Cmd {
	result, err := q.Submit(s.skill.ID, s.sess.UserID)
	if err != nil {
		return components.Notify(toast.KindWarning, err.Error())
	}
	s.focusQuiz = false
	data := s.deps.Data
	return tea.Batch(s.input.Focus(), func() tea.Msg {
		err := data.InsertInlineQuiz(context.Background(), result)
		return inlineSavedMsg{SkillID: result.SkillID, Score: result.Score, Total: result.Total, Err: err}
	})
}

func (s *SkillScreen) handleInlineSaved(msg inlineSavedMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.deps.Log().Error("save inline quiz", zap.Error(msg.Err))
		return s, components.Notify(toast.KindError, "Failed to save quiz result")
	}
	return s, components.Notify(toast.KindSuccess,
		fmt.Sprintf("Quiz submitted: %d/%d (%d%%)", msg.Score, msg.Total, quiz.Percent(msg.Score, msg.Total)))
}
