package dashboard

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/sensei/internal/skills"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

func (s *DashboardScreen) View(width, height int) string {
	switch s.mode {
	case modeCreate:
		return components.Center(s.renderCreateForm(width), width, height)
	case modeDocPrompt:
		return components.Center(s.renderDocPrompt(width), width, height)
	}

	var b strings.Builder
	if s.banner != "" {
		b.WriteString(components.Banner("success", "✓ "+s.banner, width))
		b.WriteString("\n")
	}

	greeting := theme.Title.Render(fmt.Sprintf("  Welcome back, %s", s.name))
	b.WriteString(greeting)
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %d skill(s)", len(s.skills))))
	b.WriteString("\n\n")

	switch {
	case s.loading:
		b.WriteString(theme.Hint.Render("  Loading skills..."))
	case s.errText != "" && len(s.skills) == 0:
		b.WriteString(theme.Incorrect.Render("  " + s.errText))
	case len(s.skills) == 0:
		b.WriteString(theme.Hint.Render("  No skills yet. Press N to create your first learning path."))
	default:
		b.WriteString(s.renderList(width, height-lipgloss.Height(b.String())))
	}

	if s.mode == modeConfirmDelete {
		if sk, ok := s.selected(); ok {
			b.WriteString("\n\n")
			b.WriteString(components.Banner("error",
				fmt.Sprintf("Delete %q and all its documents? (y/n)", sk.Title), width))
		}
	}
	return b.String()
}

// renderList draws the skill rows, keeping the cursor in view.
func (s *DashboardScreen) renderList(width, height int) string {
	rows := max(height-2, 1)
	start := 0
	if s.cursor >= rows {
		start = s.cursor - rows + 1
	}
	end := min(start+rows, len(s.skills))

	var b strings.Builder
	for i := start; i < end; i++ {
		sk := s.skills[i]
		cat := skills.Category(sk.Category)
		line := fmt.Sprintf("%s %s", cat.Emoji(), layout.Truncate(sk.Title, width-30))
		meta := cat.Label()
		if sk.Roadmap != "" {
			meta += " · roadmap"
		}

		if i == s.cursor {
			b.WriteString(theme.Selected.Render("  ▸ " + line))
		} else {
			b.WriteString(theme.Unselected.Render("    " + line))
		}
		b.WriteString("  ")
		b.WriteString(theme.Subtitle.Render(meta))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (s *DashboardScreen) renderCreateForm(width int) string {
	var b strings.Builder
	b.WriteString(s.title.View())
	b.WriteString("\n\n")
	b.WriteString(s.description.View())
	b.WriteString("\n\n")

	label := theme.Subtitle
	if s.formFocus == focusCategory {
		label = theme.Label
	}
	b.WriteString(label.Render("Category"))
	b.WriteString("\n")
	cat := skills.AllCategories()[s.category]
	b.WriteString(theme.Body.Render("‹ " + cat.String() + " ›"))
	if cat == skills.CategoryTechnical {
		b.WriteString(theme.Hint.Render("  unlocks coding challenges"))
	}
	b.WriteString("\n\n")

	switch {
	case s.busy:
		b.WriteString(theme.Hint.Render("Creating..."))
	case s.errText != "":
		b.WriteString(theme.Incorrect.Render(s.errText))
	}
	return components.Card("New Skill", b.String(), components.ContentWidth(width), true)
}

func (s *DashboardScreen) renderDocPrompt(width int) string {
	var b strings.Builder
	title := ""
	if s.created != nil {
		title = s.created.Title
	}
	b.WriteString(theme.Body.Render(fmt.Sprintf("Add study material to %q?", title)))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render("Supported: .pdf .txt .doc .docx .md"))
	b.WriteString("\n\n")
	b.WriteString(s.paths.View())
	b.WriteString("\n\n")
	if s.busy {
		b.WriteString(theme.Hint.Render("Uploading and generating your roadmap..."))
	} else {
		b.WriteString(theme.Hint.Render("Enter to upload and generate, Esc to generate without documents."))
	}
	return components.Card("Documents", b.String(), components.ContentWidth(width), true)
}
