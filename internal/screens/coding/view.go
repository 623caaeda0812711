package coding

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	cd "github.com/abhisek/sensei/internal/coding"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/theme"
)

func (s *CodingScreen) View(width, height int) string {
	if s.loading {
		return components.Center(theme.Hint.Render("Loading your challenge..."), width, height)
	}

	leftW := width * 2 / 5
	rightW := width - leftW - 1

	left := s.renderQuestion(leftW-2, height)

	editorH := max(height*3/5, 5)
	s.editor.SetWidth(rightW - 2)
	s.editor.SetHeight(editorH - 2)
	edCard := components.Card(fmt.Sprintf("solution.%s", cd.Extension(s.language)), s.editor.View(), rightW, !s.stdinFocus)

	output := s.renderOutput(rightW - 4)
	outCard := components.Card("", s.stdin.View()+"\n"+output, rightW, s.stdinFocus)

	right := lipgloss.NewStyle().MaxHeight(height).Render(edCard + "\n" + outCard)
	left = lipgloss.NewStyle().Width(leftW).MaxHeight(height).Render(left)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (s *CodingScreen) renderQuestion(width, height int) string {
	if s.question == nil {
		return theme.Hint.Render("  No challenge yet. Ctrl+G to generate one.")
	}
	q := s.question

	var b strings.Builder
	b.WriteString(theme.Title.Render(q.Title))
	b.WriteString("\n")
	b.WriteString(theme.Label.Render(q.Difficulty))
	if s.generating {
		b.WriteString(theme.Hint.Render("  generating a new one..."))
	}
	b.WriteString("\n\n")
	b.WriteString(theme.Body.Width(width).Render(q.Description))

	for i, tc := range cd.VisibleTestCases(q) {
		b.WriteString("\n\n")
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("Example %d", i+1)))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("Input:    " + tc.Input))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render("Expected: " + tc.ExpectedOutput))
	}
	return "  " + strings.ReplaceAll(b.String(), "\n", "\n  ")
}

func (s *CodingScreen) renderOutput(width int) string {
	switch {
	case s.submitting:
		return theme.Hint.Render("Running tests...")
	case s.running:
		return theme.Hint.Render("Running...")
	}

	var b strings.Builder
	if s.runOutput != nil {
		b.WriteString(theme.Subtitle.Render("Output (" + s.runOutput.Status + ")"))
		b.WriteString("\n")
		b.WriteString(theme.Body.Width(width).Render(s.runOutput.Output))
	}
	if s.summary != nil {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		style := theme.Incorrect
		if s.summary.AllPassed {
			style = theme.Correct
		}
		b.WriteString(style.Render(s.summary.String()))
		for _, c := range s.cases {
			b.WriteString("\n")
			mark := theme.Correct.Render("✓")
			if !c.Passed {
				mark = theme.Incorrect.Render("✗")
			}
			b.WriteString(mark + " " + theme.Body.Render(c.Title))
			if c.Hidden {
				continue
			}
			if !c.Passed {
				b.WriteString("\n" + theme.Subtitle.Render(fmt.Sprintf("    input %q  expected %q  got %q", c.Input, c.Expected, c.Actual)))
			}
			if c.Error != "" {
				b.WriteString("\n" + theme.Incorrect.Render("    "+c.Error))
			}
		}
	}
	if b.Len() == 0 {
		return theme.Hint.Render("Ctrl+S grades against all tests. Ctrl+R runs with the input above.")
	}
	return b.String()
}
