package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/quiz"
)

const (
	ansiGreen = "\033[32m"
	ansiRed   = "\033[31m"
	ansiReset = "\033[0m"
)

var quizCmd = &cobra.Command{
	Use:   "quiz",
	Short: "Take quizzes and review past results",
}

var quizTakeCmd = &cobra.Command{
	Use:   "take SKILL_ID",
	Short: "Generate and take a quiz",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		count, _ := cmd.Flags().GetInt("questions")
		if !cmd.Flags().Changed("questions") {
			count = e.cfg.Quiz.Questions
		}

		ctx := cmd.Context()
		sess, err := e.session(ctx)
		if err != nil {
			return err
		}
		s, err := e.getSkill(ctx, sess, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Generating %d questions for %q...\n\n", count, s.Title)
		questions, err := e.backend.GenerateQuiz(ctx, s.ID, count)
		if err != nil {
			return fmt.Errorf("generate quiz: %w", err)
		}
		attempt, err := quiz.NewAttempt(questions)
		if err != nil {
			return err
		}

		for !attempt.Completed {
			q := attempt.Question()
			choice, ok := askChoice(attempt.Current+1, len(attempt.Questions), q)
			if !ok {
				fmt.Println("\n(input closed, quiz not saved)")
				return nil
			}
			if correct, _ := attempt.Select(choice); correct {
				fmt.Println(ansiGreen + "✓ Correct!" + ansiReset)
			} else {
				fmt.Printf("%s✗ Wrong.%s Answer: %s\n", ansiRed, ansiReset, optionText(q, q.CorrectAnswer))
			}
			if q.Explanation != "" {
				fmt.Printf("Explanation: %s\n", q.Explanation)
			}
			fmt.Println()
			attempt.Next()
		}

		res := attempt.Result(s.ID, sess.UserID)
		fmt.Printf("── Score: %d/%d (%d%%) ──\n", res.Score, res.TotalQuestions, quiz.Percent(res.Score, res.TotalQuestions))
		if err := e.backend.SaveQuiz(ctx, res); err != nil {
			return fmt.Errorf("save quiz: %w", err)
		}
		fmt.Println("Quiz saved.")
		return nil
	},
}

var quizHistoryCmd = &cobra.Command{
	Use:   "history SKILL_ID",
	Short: "List past quizzes, or review one with --review",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		review, _ := cmd.Flags().GetString("review")

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		if _, err := e.session(ctx); err != nil {
			return err
		}
		past, err := e.backend.QuizHistory(ctx, args[0])
		if err != nil {
			return fmt.Errorf("quiz history: %w", err)
		}
		entries := quiz.History(past)
		if len(entries) == 0 {
			fmt.Println("No quizzes taken yet.")
			return nil
		}

		if review != "" {
			for _, h := range entries {
				if h.ID == review {
					printReview(h)
					return nil
				}
			}
			return fmt.Errorf("quiz %s not found", review)
		}

		fmt.Printf("%-36s  %-24s  %s\n", "ID", "Taken", "Score")
		rule(80)
		for _, h := range entries {
			fmt.Printf("%-36s  %-24s  %s\n", h.ID, quiz.FormatDate(h.TakenAt), h.Summary())
		}
		return nil
	},
}

func printReview(h quiz.HistoryEntry) {
	fmt.Println(quiz.FormatDate(h.TakenAt), "·", h.Summary())
	fmt.Println()
	for i, q := range h.Review {
		mark := ansiGreen + "✓" + ansiReset
		if !q.IsCorrect {
			mark = ansiRed + "✗" + ansiReset
		}
		fmt.Printf("%s %d. %s\n", mark, i+1, q.Question)
		fmt.Printf("    Your answer: %s\n", answerText(q.Options, q.UserAnswer))
		if !q.IsCorrect {
			fmt.Printf("    Correct:     %s\n", answerText(q.Options, q.CorrectAnswer))
		}
	}
}

func optionText(q api.QuizQuestion, i int) string {
	return answerText(q.Options, i)
}

func answerText(options []string, i int) string {
	if i < 0 || i >= len(options) {
		return "(no answer)"
	}
	return options[i]
}

func init() {
	quizTakeCmd.Flags().IntP("questions", "n", quiz.DefaultQuestions, "Number of questions")
	quizHistoryCmd.Flags().String("review", "", "Quiz ID to review question by question")

	quizCmd.AddCommand(quizTakeCmd)
	quizCmd.AddCommand(quizHistoryCmd)
}
