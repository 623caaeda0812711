package roadmap

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	rm "github.com/abhisek/sensei/internal/roadmap"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/toast"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

type skillLoadedMsg struct {
	Skill *api.Skill
	Err   error
}

// refreshedMsg carries the roadmap text re-read from the backend.
type refreshedMsg struct {
	Result *api.RoadmapResult
	Err    error
}

type generatedMsg struct {
	Result *api.RoadmapResult
	Err    error
}

// RoadmapScreen shows a skill's roadmap as a scrollable tree.
type RoadmapScreen struct {
	deps  *screen.Deps
	sess  *auth.Session
	skill api.Skill

	sections   []rm.Section
	loading    bool
	generating bool
	offset     int
	// lines is the rendered tree height from the last View, for clamping.
	lines int
}

var _ screen.Screen = (*RoadmapScreen)(nil)
var _ screen.KeyHintProvider = (*RoadmapScreen)(nil)

// New creates the roadmap screen. A skill that already carries roadmap
// text renders at once; otherwise the row is fetched.
func New(deps *screen.Deps, sess *auth.Session, skill api.Skill) *RoadmapScreen {
	s := &RoadmapScreen{deps: deps, sess: sess, skill: skill}
	if skill.Roadmap != "" {
		s.sections = rm.Parse(skill.Roadmap)
	} else {
		s.loading = true
	}
	return s
}

func (s *RoadmapScreen) Init() tea.Cmd {
	if !s.loading {
		return nil
	}
	return s.fetch()
}

func (s *RoadmapScreen) Title() string {
	return "Roadmap · " + s.skill.Title
}

func (s *RoadmapScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "PgUp/PgDn", Description: "Page"},
		{Key: "G", Description: "Regenerate"},
		{Key: "Ctrl+R", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *RoadmapScreen) fetch() tea.Cmd {
	data, id := s.deps.Data, s.skill.ID
	return func() tea.Msg {
		sk, err := data.GetSkill(context.Background(), id)
		return skillLoadedMsg{Skill: sk, Err: err}
	}
}

func (s *RoadmapScreen) refresh() tea.Cmd {
	backend, id := s.deps.Backend, s.skill.ID
	return func() tea.Msg {
		res, err := backend.GetRoadmap(context.Background(), id)
		return refreshedMsg{Result: res, Err: err}
	}
}

func (s *RoadmapScreen) generate() tea.Cmd {
	if s.generating {
		return nil
	}
	s.generating = true
	backend, id := s.deps.Backend, s.skill.ID
	return func() tea.Msg {
		res, err := backend.GenerateRoadmap(context.Background(), id, nil)
		return generatedMsg{Result: res, Err: err}
	}
}

func (s *RoadmapScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case skillLoadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.deps.Log().Error("load roadmap", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
			return s, components.Notify(toast.KindError, "Failed to load roadmap: "+api.Message(msg.Err))
		}
		if msg.Skill != nil {
			s.skill = *msg.Skill
			s.sections = rm.Parse(s.skill.Roadmap)
			s.offset = 0
		}
		return s, nil

	case refreshedMsg:
		s.loading = false
		if msg.Err != nil {
			s.deps.Log().Error("refresh roadmap", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
			return s, components.Notify(toast.KindError, "Failed to refresh roadmap: "+api.Message(msg.Err))
		}
		if msg.Result != nil {
			s.skill.Roadmap = msg.Result.Roadmap
			s.skill.RoadmapSVG = msg.Result.RoadmapSVG
			s.sections = rm.Parse(s.skill.Roadmap)
			s.offset = 0
		}
		return s, nil

	case generatedMsg:
		s.generating = false
		if msg.Err != nil {
			s.deps.Log().Error("generate roadmap", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
			return s, components.Notify(toast.KindError, "Roadmap generation failed: "+api.Message(msg.Err))
		}
		if msg.Result != nil {
			s.skill.Roadmap = msg.Result.Roadmap
			s.skill.RoadmapSVG = msg.Result.RoadmapSVG
			s.sections = rm.Parse(s.skill.Roadmap)
			s.offset = 0
		}
		return s, components.Notify(toast.KindSuccess, "Roadmap generated")

	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			s.scroll(-1)
		case "down", "j":
			s.scroll(1)
		case "pgup":
			s.scroll(-10)
		case "pgdown", "space":
			s.scroll(10)
		case "home":
			s.offset = 0
		case "g":
			return s, s.generate()
		case "ctrl+r":
			if s.generating {
				return s, nil
			}
			s.loading = true
			return s, s.refresh()
		}
	}
	return s, nil
}

func (s *RoadmapScreen) scroll(delta int) {
	s.offset = max(min(s.offset+delta, s.lines-1), 0)
}

func treeStyles() rm.TreeStyles {
	return rm.TreeStyles{
		Section: theme.Title,
		Phase:   theme.Label,
		Topic:   lipgloss.NewStyle().Foreground(theme.Accent),
		Item:    theme.Body,
		Content: theme.Subtitle,
		Branch:  lipgloss.NewStyle().Foreground(theme.Border),
	}
}

func (s *RoadmapScreen) View(width, height int) string {
	switch {
	case s.loading:
		return components.Center(theme.Hint.Render("Loading roadmap..."), width, height)
	case s.generating:
		return components.Center(theme.Hint.Render("Generating your roadmap. This can take a minute..."), width, height)
	case len(s.sections) == 0:
		msg := theme.Body.Render("No roadmap yet for "+s.skill.Title) + "\n\n" +
			theme.Hint.Render("Press G to generate one.")
		return components.Center(msg, width, height)
	}

	st := rm.Count(s.sections)
	summary := theme.Subtitle.Render(fmt.Sprintf("  %d sections · %d phases · %d topics · %d items",
		st.Sections, st.Phases, st.Topics, st.Items))

	tree := rm.RenderTree(s.sections, width-6, treeStyles())
	lines := strings.Split(tree, "\n")
	s.lines = len(lines)

	avail := max(height-2, 1)
	if s.offset > len(lines)-1 {
		s.offset = max(len(lines)-1, 0)
	}
	end := min(s.offset+avail, len(lines))
	window := lines[s.offset:end]
	for i := range window {
		window[i] = "  " + window[i]
	}

	pos := ""
	if len(lines) > avail {
		pos = theme.Hint.Render(fmt.Sprintf("  lines %d-%d of %d", s.offset+1, end, len(lines)))
	}
	return summary + pos + "\n\n" + strings.Join(window, "\n")
}
