package quiz

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	qz "github.com/abhisek/sensei/internal/quiz"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/toast"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
)

type phase int

const (
	phaseIntro phase = iota
	phaseGenerating
	phaseQuestion
	phaseResult
	phaseHistory
)

// QuizScreen runs a generated multiple-choice quiz and shows past attempts.
type QuizScreen struct {
	deps  *screen.Deps
	sess  *auth.Session
	skill api.Skill

	phase   phase
	attempt *qz.Attempt
	mc      components.MultiChoice
	saving  bool
	saveErr error

	history       []qz.HistoryEntry
	historyLoaded bool
	histCursor    int
	// reviewing is the history entry opened for review, or -1.
	reviewing int
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz screen.
func New(deps *screen.Deps, sess *auth.Session, skill api.Skill) *QuizScreen {
	return &QuizScreen{deps: deps, sess: sess, skill: skill, reviewing: -1}
}

func (s *QuizScreen) Init() tea.Cmd {
	return nil
}

func (s *QuizScreen) Title() string {
	return "Quiz · " + s.skill.Title
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch s.phase {
	case phaseQuestion:
		if s.attempt.Locked() {
			return []layout.KeyHint{{Key: "Enter", Description: "Next"}, {Key: "Esc", Description: "Quit quiz"}}
		}
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "A-D", Description: "Answer"},
			{Key: "Enter", Description: "Submit"},
		}
	case phaseResult:
		return []layout.KeyHint{
			{Key: "R", Description: "Retake"},
			{Key: "H", Description: "History"},
			{Key: "Esc", Description: "Back"},
		}
	case phaseHistory:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Review"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Start quiz"},
		{Key: "H", Description: "History"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *QuizScreen) numQuestions() int {
	if s.deps.QuizQuestions > 0 {
		return s.deps.QuizQuestions
	}
	return qz.DefaultQuestions
}

func (s *QuizScreen) generate() tea.Cmd {
	s.phase = phaseGenerating
	backend, id, n := s.deps.Backend, s.skill.ID, s.numQuestions()
	return func() tea.Msg {
		qs, err := backend.GenerateQuiz(context.Background(), id, n)
		return questionsReadyMsg{Questions: qs, Err: err}
	}
}

func (s *QuizScreen) loadHistory() tea.Cmd {
	backend, id := s.deps.Backend, s.skill.ID
	return func() tea.Msg {
		h, err := backend.QuizHistory(context.Background(), id)
		return historyLoadedMsg{History: h, Err: err}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsReadyMsg:
		return s.handleQuestions(msg)
	case savedMsg:
		s.saving = false
		s.saveErr = msg.Err
		if msg.Err != nil {
			s.deps.Log().Error("save quiz", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
			return s, components.Notify(toast.KindError, "Failed to save quiz: "+api.Message(msg.Err))
		}
		s.historyLoaded = false
		return s, components.Notify(toast.KindSuccess, "Quiz saved")
	case historyLoadedMsg:
		if msg.Err != nil {
			s.deps.Log().Error("quiz history", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
			return s, components.Notify(toast.KindError, "Failed to load quiz history")
		}
		s.history = qz.History(msg.History)
		s.historyLoaded = true
		s.histCursor = 0
		return s, nil
	case tea.KeyPressMsg:
		switch s.phase {
		case phaseIntro, phaseResult:
			return s.updateMenu(msg)
		case phaseQuestion:
			return s.updateQuestion(msg)
		case phaseHistory:
			return s.updateHistory(msg)
		}
	}
	return s, nil
}

func (s *QuizScreen) handleQuestions(msg questionsReadyMsg) (screen.Screen, tea.Cmd) {
	if msg.Err != nil {
		s.phase = phaseIntro
		s.deps.Log().Error("generate quiz", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
		return s, components.Notify(toast.KindError, "Failed to generate quiz: "+api.Message(msg.Err))
	}
	a, err := qz.NewAttempt(msg.Questions)
	if err != nil {
		s.phase = phaseIntro
		return s, components.Notify(toast.KindWarning, "The quiz came back empty. Try again.")
	}
	s.attempt = a
	s.phase = phaseQuestion
	s.resetChoice()
	return s, nil
}

func (s *QuizScreen) resetChoice() {
	q := s.attempt.Question()
	s.mc = components.NewMultiChoice(q.Question, q.Options, q.CorrectAnswer)
	s.mc.Explanation = q.Explanation
}

func (s *QuizScreen) updateMenu(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "enter", "r":
		return s, s.generate()
	case "h":
		s.phase = phaseHistory
		s.reviewing = -1
		if !s.historyLoaded {
			return s, s.loadHistory()
		}
	}
	return s, nil
}

func (s *QuizScreen) updateQuestion(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.attempt.Locked() {
		if msg.String() != "enter" && msg.String() != "n" {
			return s, nil
		}
		if s.attempt.Next() {
			s.resetChoice()
			return s, nil
		}
		return s.finish()
	}

	var cmd tea.Cmd
	s.mc, cmd = s.mc.Update(msg)
	if s.mc.Submitted {
		s.attempt.Select(s.mc.ChosenIndex)
	}
	return s, cmd
}

// finish saves the completed attempt.
func (s *QuizScreen) finish() (screen.Screen, tea.Cmd) {
	s.phase = phaseResult
	s.saving = true
	s.saveErr = nil
	result := s.attempt.Result(s.skill.ID, s.sess.UserID)
	backend := s.deps.Backend
	return s, func() tea.Msg {
		return savedMsg{Err: backend.SaveQuiz(context.Background(), result)}
	}
}

func (s *QuizScreen) updateHistory(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	if s.reviewing >= 0 {
		if msg.String() == "backspace" || msg.String() == "left" {
			s.reviewing = -1
		}
		return s, nil
	}
	switch msg.String() {
	case "up", "k":
		if s.histCursor > 0 {
			s.histCursor--
		}
	case "down", "j":
		if s.histCursor < len(s.history)-1 {
			s.histCursor++
		}
	case "enter", "right":
		if s.histCursor < len(s.history) {
			s.reviewing = s.histCursor
		}
	case "backspace":
		s.phase = phaseIntro
	}
	return s, nil
}
