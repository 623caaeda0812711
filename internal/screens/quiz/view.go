package quiz

import (
	"fmt"
	"strings"

	qz "github.com/abhisek/sensei/internal/quiz"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	w := components.ContentWidth(width)
	var body string
	switch s.phase {
	case phaseGenerating:
		body = theme.Hint.Render(fmt.Sprintf("Generating %d questions from your material...", s.numQuestions()))
	case phaseQuestion:
		body = s.renderQuestion(w)
	case phaseResult:
		body = s.renderResult(w)
	case phaseHistory:
		body = s.renderHistory(w)
	default:
		body = components.Card("Test your knowledge",
			theme.Body.Render(fmt.Sprintf("%d multiple-choice questions on %s.", s.numQuestions(), s.skill.Title))+
				"\n\n"+theme.Hint.Render("Enter to start, H for past attempts."), w, true)
	}
	return components.Center(body, width, height)
}

func (s *QuizScreen) renderQuestion(width int) string {
	a := s.attempt
	progress := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", a.Current+1, len(a.Questions)),
		float64(a.Current)/float64(len(a.Questions)), width-4)

	var b strings.Builder
	b.WriteString(progress.View())
	b.WriteString("\n\n")
	b.WriteString(s.mc.View())
	if a.Locked() {
		b.WriteString("\n")
		if s.mc.IsCorrect() {
			b.WriteString(theme.Correct.Render("Correct!"))
		} else {
			b.WriteString(theme.Incorrect.Render("Not quite."))
		}
		next := "Enter for the next question"
		if a.Current == len(a.Questions)-1 {
			next = "Enter to see your score"
		}
		b.WriteString("  " + theme.Hint.Render(next))
	}
	return components.Card("", b.String(), width, true)
}

func (s *QuizScreen) renderResult(width int) string {
	a := s.attempt
	pct := qz.Percent(a.Score, len(a.Questions))

	var verdict string
	switch {
	case pct >= 80:
		verdict = theme.Correct.Render("Excellent work!")
	case pct >= 50:
		verdict = theme.Label.Render("Good effort, keep practicing.")
	default:
		verdict = theme.Incorrect.Render("Review the material and try again.")
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render(fmt.Sprintf("Score: %d/%d (%d%%)", a.Score, len(a.Questions), pct)))
	b.WriteString("\n")
	b.WriteString(verdict)
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("", float64(pct)/100, width-4).WithSuffix(fmt.Sprintf("%d%%", pct)).View())
	b.WriteString("\n\n")
	switch {
	case s.saving:
		b.WriteString(theme.Hint.Render("Saving..."))
	case s.saveErr != nil:
		b.WriteString(theme.Incorrect.Render("Not saved."))
	default:
		b.WriteString(theme.Hint.Render("Saved to your progress."))
	}
	return components.Card("Quiz complete", b.String(), width, true)
}

func (s *QuizScreen) renderHistory(width int) string {
	if !s.historyLoaded {
		return theme.Hint.Render("Loading history...")
	}
	if len(s.history) == 0 {
		return components.Card("History", theme.Hint.Render("No quizzes taken yet."), width, true)
	}
	if s.reviewing >= 0 {
		return s.renderReview(s.history[s.reviewing], width)
	}

	var b strings.Builder
	for i, e := range s.history {
		line := fmt.Sprintf("%s  %s", qz.FormatDate(e.TakenAt), e.Summary())
		if i == s.histCursor {
			b.WriteString(theme.Selected.Render("▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("  " + line))
		}
		if i < len(s.history)-1 {
			b.WriteString("\n")
		}
	}
	return components.Card("History", b.String(), width, true)
}

func (s *QuizScreen) renderReview(e qz.HistoryEntry, width int) string {
	var b strings.Builder
	b.WriteString(theme.Subtitle.Render(qz.FormatDate(e.TakenAt) + "  " + e.Summary()))
	for i, q := range e.Review {
		b.WriteString("\n\n")
		mark := theme.Correct.Render("✓")
		if !q.IsCorrect {
			mark = theme.Incorrect.Render("✗")
		}
		b.WriteString(fmt.Sprintf("%s %s", mark, theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", i+1, q.Question))))
		for oi, opt := range q.Options {
			line := fmt.Sprintf("    %s) %s", components.OptionLabel(oi), opt)
			switch {
			case oi == q.CorrectAnswer:
				b.WriteString("\n" + theme.Correct.Render(line))
			case oi == q.UserAnswer:
				b.WriteString("\n" + theme.Incorrect.Render(line+"  (your answer)"))
			default:
				b.WriteString("\n" + theme.Subtitle.Render(line))
			}
		}
	}
	b.WriteString("\n\n" + theme.Hint.Render("Backspace to return to the list."))
	return components.Card("Review", b.String(), width, true)
}
