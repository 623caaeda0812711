package skill

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/chat"
	"github.com/abhisek/sensei/internal/documents"
	"github.com/abhisek/sensei/internal/quiz"
	"github.com/abhisek/sensei/internal/skills"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

func (s *SkillScreen) View(width, height int) string {
	top := s.renderTabs(width)
	body := ""
	bodyHeight := height - lipgloss.Height(top) - 1
	if s.tab == tabLibrary {
		body = s.renderLibrary(width, bodyHeight)
	} else {
		body = s.renderChat(width, bodyHeight)
	}
	return top + "\n" + body
}

func (s *SkillScreen) renderTabs(width int) string {
	tabStyle := func(active bool, label string) string {
		if active {
			return theme.ButtonActive.Render(label)
		}
		return theme.Subtitle.Padding(0, 2).Render(label)
	}
	cat := skills.Category(s.skill.Category)
	left := "  " + tabStyle(s.tab == tabChat, "Chat") + " " +
		tabStyle(s.tab == tabLibrary, fmt.Sprintf("Library (%d)", len(s.docs)))
	right := theme.Subtitle.Render(cat.String() + "  ")

	pad := width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

func (s *SkillScreen) renderModes() string {
	var parts []string
	for _, m := range chat.AllModes() {
		label := strings.ToUpper(string(m)[:1]) + string(m)[1:]
		if m == s.conv.Mode {
			parts = append(parts, theme.Selected.Render("["+label+"]"))
		} else {
			parts = append(parts, theme.Subtitle.Render(" "+label+" "))
		}
	}
	return "  " + strings.Join(parts, " ")
}

func (s *SkillScreen) renderChat(width, height int) string {
	modes := s.renderModes()
	input := "  " + s.input.View()
	status := ""
	if s.sending {
		status = theme.Hint.Render("  Mentor is thinking...")
	}

	avail := height - lipgloss.Height(modes) - lipgloss.Height(input) - 2
	if status != "" {
		avail -= lipgloss.Height(status)
	}
	avail = max(avail, 1)

	lines := strings.Split(s.renderTranscript(width-4), "\n")
	// scroll counts lines up from the bottom.
	maxScroll := max(len(lines)-avail, 0)
	if s.scroll > maxScroll {
		s.scroll = maxScroll
	}
	end := len(lines) - s.scroll
	start := max(end-avail, 0)
	window := strings.Join(lines[start:end], "\n")

	var b strings.Builder
	b.WriteString(modes)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Height(avail).Render(window))
	b.WriteString("\n")
	if status != "" {
		b.WriteString(status)
		b.WriteString("\n")
	}
	b.WriteString(input)
	return b.String()
}

func (s *SkillScreen) renderTranscript(width int) string {
	visible := s.conv.Thread.Visible(s.conv.Mode)
	if len(visible) == 0 {
		if s.loading {
			return theme.Hint.Render("  Loading...")
		}
		return theme.Hint.Render(fmt.Sprintf("  Ask your mentor anything about %s.", s.skill.Title))
	}

	active := s.activeQuiz()
	var b strings.Builder
	for i, m := range visible {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(s.renderMessage(m, width, active))
	}
	return b.String()
}

func (s *SkillScreen) renderMessage(m api.ChatMessage, width int, active *quiz.Inline) string {
	if m.Role == api.RoleUser {
		return "  " + theme.UserBubble.Width(width-2).Render(theme.Label.Render("You")+"\n"+m.Content)
	}

	content := m.Content
	if chat.IsQuizPayload(m.Content) {
		if q := s.inlineQuiz(m.Content); q != nil {
			content = s.renderInlineQuiz(q, q == active && s.focusQuiz)
		}
	}
	if len(m.Sources) > 0 {
		var src []string
		for _, sr := range m.Sources {
			title := sr.Title
			if title == "" {
				title = layout.Truncate(sr.Content, 40)
			}
			src = append(src, "• "+title)
		}
		content += "\n" + theme.Hint.Render("Sources:\n"+strings.Join(src, "\n"))
	}
	return "  " + theme.AssistantBubble.Width(width-2).Render(theme.Title.Render("Mentor")+"\n"+content)
}

func (s *SkillScreen) renderInlineQuiz(q *quiz.Inline, focused bool) string {
	var b strings.Builder
	if q.Submitted {
		b.WriteString(theme.Correct.Render(fmt.Sprintf("Practice quiz: %d/%d", q.Score, len(q.Questions))))
	} else if focused {
		b.WriteString(theme.Label.Render(fmt.Sprintf("Practice quiz: question %d of %d", s.quizQ+1, len(q.Questions))))
	} else {
		b.WriteString(theme.Label.Render(fmt.Sprintf("Practice quiz (%d questions), Ctrl+T to take it", len(q.Questions))))
	}

	for qi, question := range q.Questions {
		if focused && qi != s.quizQ {
			continue
		}
		if !focused && !q.Submitted {
			continue
		}
		b.WriteString("\n")
		b.WriteString(theme.Body.Bold(true).Render(fmt.Sprintf("%d. %s", qi+1, question.Question)))
		for oi, opt := range question.Options {
			b.WriteString("\n")
			line := fmt.Sprintf("%s) %s", components.OptionLabel(oi), opt)
			answered := q.Answers[qi] == oi
			switch {
			case q.Submitted && oi == question.CorrectAnswer:
				b.WriteString(theme.Correct.Render("  ✓ " + line))
			case q.Submitted && answered:
				b.WriteString(theme.Incorrect.Render("  ✗ " + line))
			case focused && oi == s.quizOpt:
				b.WriteString(theme.Selected.Render("  ▸ " + line))
			case answered:
				b.WriteString(theme.Label.Render("  • " + line))
			default:
				b.WriteString(theme.Unselected.Render("    " + line))
			}
		}
		if q.Submitted && question.Explanation != "" {
			b.WriteString("\n")
			b.WriteString(theme.Hint.Render("  " + question.Explanation))
		}
	}
	return b.String()
}

func (s *SkillScreen) renderLibrary(width, height int) string {
	var b strings.Builder

	counts := documents.Counts(s.docs)
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %d ready · %d processing · %d pending · %d failed · %d selected",
		counts[documents.StatusReady], counts[documents.StatusProcessing],
		counts[documents.StatusPending], counts[documents.StatusFailed], s.selection.Len())))
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString(theme.Hint.Render("  Loading documents..."))
	case len(s.docs) == 0:
		b.WriteString(theme.Hint.Render("  No documents yet. Press U to upload study material."))
	default:
		for i, d := range s.docs {
			check := "[ ]"
			if s.selection.Has(d.ID) {
				check = "[x]"
			}
			st := documents.Classify(d)
			status := theme.KindColor(statusKind(st)).Render(st.Label())
			name := layout.Truncate(d.Filename, width-30)
			line := fmt.Sprintf("%s %s", check, name)
			if i == s.docCursor {
				b.WriteString(theme.Selected.Render("  ▸ " + line))
			} else {
				b.WriteString(theme.Unselected.Render("    " + line))
			}
			b.WriteString("  ")
			b.WriteString(status)
			if st == documents.StatusFailed && d.ErrorMessage != "" {
				b.WriteString(theme.Hint.Render("  " + layout.Truncate(d.ErrorMessage, 40)))
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	switch {
	case s.addingDocs:
		b.WriteString("  " + s.pathInput.View())
	case s.uploading:
		b.WriteString(theme.Hint.Render("  Uploading..."))
	case s.generating:
		b.WriteString(theme.Hint.Render("  Generating roadmap..."))
	}

	return lipgloss.NewStyle().MaxHeight(height).Render(b.String())
}

func statusKind(st documents.Status) string {
	switch st {
	case documents.StatusReady:
		return "success"
	case documents.StatusFailed:
		return "error"
	case documents.StatusProcessing:
		return "warning"
	}
	return "info"
}
