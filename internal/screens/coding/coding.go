package coding

import (
	"context"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	cd "github.com/abhisek/sensei/internal/coding"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/toast"
	"github.com/abhisek/sensei/internal/ui/components"
	"github.com/abhisek/sensei/internal/ui/layout"
)

const indent = "    "

// CodingScreen is the coding-challenge editor for a technical skill.
type CodingScreen struct {
	deps  *screen.Deps
	sess  *auth.Session
	skill api.Skill

	question   *api.CodingQuestion
	loading    bool
	generating bool

	language string
	editor   textarea.Model
	stdin    components.TextInput
	// stdinFocus moves typing from the editor to the custom input line.
	stdinFocus bool

	submitting bool
	running    bool
	summary    *cd.Summary
	cases      []cd.CaseView
	runOutput  *api.RunResult
}

var _ screen.Screen = (*CodingScreen)(nil)
var _ screen.KeyHintProvider = (*CodingScreen)(nil)

// New creates the coding screen.
func New(deps *screen.Deps, sess *auth.Session, skill api.Skill) *CodingScreen {
	ed := textarea.New()
	ed.ShowLineNumbers = true
	ed.Placeholder = "Write your solution..."
	ed.SetValue(cd.Boilerplate(cd.DefaultLanguage))

	return &CodingScreen{
		deps:     deps,
		sess:     sess,
		skill:    skill,
		loading:  true,
		language: cd.DefaultLanguage,
		editor:   ed,
		stdin:    components.NewTextInput("Custom input", "stdin for Ctrl+R", false, 0),
	}
}

func (s *CodingScreen) Init() tea.Cmd {
	return tea.Batch(s.load(), s.editor.Focus())
}

func (s *CodingScreen) Title() string {
	return "Code · " + s.skill.Title
}

func (s *CodingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+S", Description: "Submit"},
		{Key: "Ctrl+R", Description: "Run"},
		{Key: "Ctrl+F", Description: "Editor/Input"},
		{Key: "Ctrl+L", Description: "Lang: " + s.language},
		{Key: "Ctrl+G", Description: "New question"},
		{Key: "Esc", Description: "Back"},
	}
}

// load fetches the latest stored question, generating one when the skill
// has none yet.
func (s *CodingScreen) load() tea.Cmd {
	data, backend, skill := s.deps.Data, s.deps.Backend, s.skill
	return func() tea.Msg {
		ctx := context.Background()
		q, err := data.LatestCodingQuestion(ctx, skill.ID)
		if err != nil {
			return questionLoadedMsg{Err: err}
		}
		if q != nil {
			return questionLoadedMsg{Question: q}
		}
		q, err = backend.GenerateCodingQuestion(ctx, cd.GenerateRequest(skill))
		return questionLoadedMsg{Question: q, Generated: true, Err: err}
	}
}

func (s *CodingScreen) generate() tea.Cmd {
	if s.generating {
		return nil
	}
	s.generating = true
	backend, req := s.deps.Backend, cd.GenerateRequest(s.skill)
	return func() tea.Msg {
		q, err := backend.GenerateCodingQuestion(context.Background(), req)
		return questionLoadedMsg{Question: q, Generated: true, Err: err}
	}
}

func (s *CodingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionLoadedMsg:
		return s.handleQuestion(msg)
	case submittedMsg:
		return s.handleSubmitted(msg)
	case ranMsg:
		s.running = false
		if msg.Err != nil {
			s.deps.Log().Error("run code", zap.Error(msg.Err))
			return s, components.Notify(toast.KindError, "Run failed: "+api.Message(msg.Err))
		}
		s.runOutput = msg.Result
		return s, nil
	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s.forward(msg)
}

func (s *CodingScreen) handleQuestion(msg questionLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	s.generating = false
	if msg.Err != nil {
		s.deps.Log().Error("load coding question", zap.String("skill_id", s.skill.ID), zap.Error(msg.Err))
		return s, components.Notify(toast.KindError, "Failed to load a coding question: "+api.Message(msg.Err))
	}
	s.question = msg.Question
	s.summary = nil
	s.cases = nil
	s.runOutput = nil
	s.editor.SetValue(cd.Boilerplate(s.language))
	if msg.Generated {
		return s, components.Notify(toast.KindSuccess, "New challenge ready")
	}
	return s, nil
}

func (s *CodingScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		return s, s.submit()
	case "ctrl+r":
		return s, s.run()
	case "ctrl+g":
		return s, s.generate()
	case "ctrl+l":
		s.language = cd.NextLanguage(s.language)
		s.editor.SetValue(cd.Boilerplate(s.language))
		return s, nil
	case "ctrl+f":
		s.stdinFocus = !s.stdinFocus
		if s.stdinFocus {
			s.editor.Blur()
			return s, s.stdin.Focus()
		}
		s.stdin.Blur()
		return s, s.editor.Focus()
	case "tab":
		if !s.stdinFocus {
			s.editor.InsertString(indent)
			return s, nil
		}
	}
	return s.forward(msg)
}

func (s *CodingScreen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	if s.stdinFocus {
		s.stdin, cmd = s.stdin.Update(msg)
	} else {
		s.editor, cmd = s.editor.Update(msg)
	}
	return s, cmd
}

func (s *CodingScreen) submit() tea.Cmd {
	if s.submitting || s.question == nil {
		return nil
	}
	s.submitting = true
	req := api.SubmitRequest{
		UserID:     s.sess.UserID,
		QuestionID: s.question.ID,
		Code:       s.editor.Value(),
		Language:   s.language,
	}
	backend := s.deps.Backend
	return func() tea.Msg {
		res, err := backend.SubmitCode(context.Background(), req)
		return submittedMsg{Result: res, Err: err}
	}
}

func (s *CodingScreen) handleSubmitted(msg submittedMsg) (screen.Screen, tea.Cmd) {
	s.submitting = false
	if msg.Err != nil {
		s.deps.Log().Error("submit code", zap.Error(msg.Err))
		return s, components.Notify(toast.KindError, "Submission failed: "+api.Message(msg.Err))
	}
	sum := cd.Summarize(msg.Result)
	s.summary = &sum
	if msg.Result != nil {
		s.cases = cd.Cases(msg.Result.Results)
	}
	kind, text := sum.Notice()
	return s, components.Notify(kind, text)
}

func (s *CodingScreen) run() tea.Cmd {
	if s.running || s.deps.Runner == nil {
		return nil
	}
	s.running = true
	req := api.RunRequest{Code: s.editor.Value(), InputData: s.stdin.Value(), Language: s.language}
	runner := s.deps.Runner
	return func() tea.Msg {
		res, err := runner.Run(context.Background(), req)
		return ranMsg{Result: res, Err: err}
	}
}
