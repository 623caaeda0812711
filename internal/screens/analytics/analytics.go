package analytics

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	an "github.com/abhisek/sensei/internal/analytics"
	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	"github.com/abhisek/sensei/internal/quiz"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
	"github.com/abhisek/sensei/internal/ui/theme"
)

type loadedMsg struct {
	Analytics *api.Analytics
	Err       error
}

// AnalyticsScreen shows a skill's progress summary and activity breakdown.
type AnalyticsScreen struct {
	deps  *screen.Deps
	sess  *auth.Session
	skill api.Skill

	loading bool
	err     error
	data    *api.Analytics
	groups  []an.Group
}

var _ screen.Screen = (*AnalyticsScreen)(nil)
var _ screen.KeyHintProvider = (*AnalyticsScreen)(nil)

// New creates the analytics screen.
func New(deps *screen.Deps, sess *auth.Session, skill api.Skill) *AnalyticsScreen {
	return &AnalyticsScreen{deps: deps, sess: sess, skill: skill, loading: true}
}

func (s *AnalyticsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *AnalyticsScreen) Title() string {
	return "Analytics · " + s.skill.Title
}

func (s *AnalyticsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+R", Description: "Refresh"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *AnalyticsScreen) load() tea.Cmd {
	backend, skillID, userID := s.deps.Backend, s.skill.ID, s.sess.UserID
	return func() tea.Msg {
		a, err := backend.SkillAnalytics(context.Background(), skillID, userID)
		return loadedMsg{Analytics: a, Err: err}
	}
}

func (s *AnalyticsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		s.err = msg.Err
		if msg.Err != nil {
			s.deps.Log().Error("load analytics", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
			return s, nil
		}
		s.data = msg.Analytics
		if s.data != nil {
			s.groups = an.GroupByType(s.data.History)
		}
	case tea.KeyPressMsg:
		if msg.String() == "ctrl+r" {
			s.loading = true
			return s, s.load()
		}
	}
	return s, nil
}

func (s *AnalyticsScreen) View(width, height int) string {
	w := components.ContentWidth(width)
	switch {
	case s.loading:
		return components.Center(theme.Hint.Render("Loading analytics..."), width, height)
	case s.err != nil:
		return components.Center(theme.Incorrect.Render("Could not load analytics: "+api.Message(s.err)), width, height)
	case s.data == nil:
		return components.Center(theme.Hint.Render("No analytics yet."), width, height)
	}

	sum := s.data.Summary
	var b strings.Builder
	b.WriteString(theme.Title.Render("Overall score  " + an.FormatPercent(sum.CombinedAvgScore)))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("Quizzes", an.ScoreFraction(sum.AvgQuizScore), w-4).WithSuffix(an.FormatPercent(sum.AvgQuizScore)).View())
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d taken · average %s", sum.TotalQuizzes, an.FormatPercent(sum.AvgQuizScore))))
	b.WriteString("\n\n")
	b.WriteString(components.NewProgressBar("Coding ", an.ScoreFraction(sum.AvgCodeScore), w-4).WithSuffix(an.FormatPercent(sum.AvgCodeScore)).View())
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Render(fmt.Sprintf("%d solved · average %s", sum.CodeChallengesSolved, an.FormatPercent(sum.AvgCodeScore))))
	summary := components.Card("Summary", b.String(), w, false)

	b.Reset()
	if len(s.groups) == 0 {
		b.WriteString(theme.Hint.Render("No activity recorded yet. Take a quiz or solve a challenge."))
	}
	for i, g := range s.groups {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(theme.Label.Render(g.Label))
		b.WriteString(theme.Subtitle.Render(fmt.Sprintf("  %d activities · avg score %s", g.Count, an.FormatAvg(g.AvgScore))))
		b.WriteString("\n")
		b.WriteString(components.NewProgressBar("", an.ProgressFraction(g.Count), w-4).
			WithSuffix(fmt.Sprintf("%d/%d", min(g.Count, an.ProgressTarget), an.ProgressTarget)).View())
	}
	if n := len(s.data.History); n > 0 {
		last := s.data.History[n-1]
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Last activity: " + quiz.FormatDate(last.CreatedAt.Time)))
	}
	activity := components.Card("Activity", b.String(), w, false)

	return components.Center(summary+"\n"+activity, width, height)
}
