package cmd

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/chat"
	"github.com/abhisek/sensei/internal/quiz"
)

var chatCmd = &cobra.Command{
	Use:   "chat SKILL_ID",
	Short: "Chat with your AI mentor about a skill",
	Long: `Chat with the mentor in the terminal. Besides messages you can type:

  /new          start a new conversation
  /delete       delete the stored conversation
  /mode NAME    switch to explain, coach or plan
  /quit         leave`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeVal, _ := cmd.Flags().GetString("mode")
		mode, ok := chat.ParseMode(modeVal)
		if !ok {
			return fmt.Errorf("invalid mode %q: must be explain, coach or plan", modeVal)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		sess, err := e.session(ctx)
		if err != nil {
			return err
		}
		s, err := e.getSkill(ctx, sess, args[0])
		if err != nil {
			return err
		}

		conv := chat.NewConversation(s.ID, sess.UserID)
		conv.Mode = mode
		fmt.Printf("Mentor for %q (%s mode). /quit to leave.\n\n", s.Title, conv.Mode)

		for {
			line, err := readLine(fmt.Sprintf("[%s] you> ", conv.Mode))
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			if err != nil {
				return err
			}

			switch {
			case line == "/quit" || line == "/exit":
				return nil
			case strings.HasPrefix(line, "/mode"):
				name := strings.TrimSpace(strings.TrimPrefix(line, "/mode"))
				m, ok := chat.ParseMode(name)
				if !ok {
					m = conv.Mode.Next()
				}
				conv.Mode = m
				fmt.Printf("Switched to %s mode.\n\n", m)
				continue
			}

			kind, _ := chat.ParseCommand(line)
			before := len(conv.Thread.Messages)
			if kind == chat.CommandMessage {
				fmt.Println("mentor is thinking...")
			}
			err = conv.Submit(ctx, e.backend, e.data, line)
			switch kind {
			case chat.CommandNew:
				fmt.Println("Started a new conversation.")
				fmt.Println()
				continue
			case chat.CommandDelete:
				switch {
				case errors.Is(err, chat.ErrNoSavedChat):
					fmt.Println("Nothing to delete yet.")
				case err != nil:
					fmt.Println("Could not delete the conversation:", api.Message(err))
				default:
					fmt.Println("Conversation deleted.")
				}
				fmt.Println()
				continue
			}
			if err != nil {
				e.logger.Warn("mentor message failed", zap.Error(err))
			}

			for _, m := range conv.Thread.Messages[min(before, len(conv.Thread.Messages)):] {
				if m.Role != api.RoleAssistant {
					continue
				}
				printReply(m)
				if chat.IsQuizPayload(m.Content) {
					takeInlineQuiz(cmd, e, sess, s.ID, m.Content)
				}
			}
		}
	},
}

func printReply(m api.ChatMessage) {
	if chat.IsQuizPayload(m.Content) {
		fmt.Println("mentor> Here's a quick practice quiz.")
		return
	}
	fmt.Println("mentor>", m.Content)
	if len(m.Sources) > 0 {
		fmt.Println()
		fmt.Println("Sources:")
		for _, src := range m.Sources {
			title := src.Title
			if title == "" {
				title = truncate(strings.ReplaceAll(src.Content, "\n", " "), 60)
			}
			fmt.Println("  •", title)
		}
	}
	fmt.Println()
}

// takeInlineQuiz walks through a quiz embedded in a reply, stores the
// result and records the activity.
func takeInlineQuiz(cmd *cobra.Command, e *env, sess *auth.Session, skillID, content string) {
	in, err := quiz.ParseInline(content)
	if err != nil {
		fmt.Println("(could not read the quiz)")
		return
	}
	for i, q := range in.Questions {
		choice, ok := askChoice(i+1, len(in.Questions), q)
		if !ok {
			fmt.Println("(quiz skipped)")
			return
		}
		in.Answer(i, choice)
	}

	row, err := in.Submit(skillID, sess.UserID)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("Score: %d/%d (%d%%)\n\n", row.Score, row.Total, quiz.Percent(row.Score, row.Total))

	ctx := cmd.Context()
	if err := e.data.InsertInlineQuiz(ctx, row); err != nil {
		fmt.Println("Could not save quiz:", api.Message(err))
		return
	}
}

// askChoice prints a question and reads a 1-based option number. It
// reports false when input ends.
func askChoice(n, total int, q api.QuizQuestion) (int, bool) {
	fmt.Printf("── Question %d/%d ──\n", n, total)
	fmt.Println(q.Question)
	for j, o := range q.Options {
		fmt.Printf("  %d) %s\n", j+1, o)
	}
	for {
		answer, err := readLine("\nYour answer: ")
		if err != nil {
			return 0, false
		}
		var choice int
		if _, err := fmt.Sscanf(answer, "%d", &choice); err == nil && choice >= 1 && choice <= len(q.Options) {
			return choice - 1, true
		}
		fmt.Printf("Enter a number from 1 to %d.\n", len(q.Options))
	}
}

func init() {
	chatCmd.Flags().StringP("mode", "m", string(chat.ModeExplain), "Conversation mode: explain, coach or plan")
}
