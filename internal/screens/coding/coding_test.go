package coding

import (
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/auth"
	cd "github.com/abhisek/sensei/internal/coding"
	"github.com/abhisek/sensei/internal/screen"
	"github.com/abhisek/sensei/internal/supabase"
	"github.com/abhisek/sensei/internal/ui/components"
)

func ctrl(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Mod: tea.ModCtrl}
}

func testCoding(t *testing.T, stored bool) (*CodingScreen, *api.MockBackend, *supabase.FakeData) {
	t.Helper()
	backend := api.NewMockBackend()
	data := supabase.NewFakeData()
	if stored {
		data.Questions = []api.CodingQuestion{{
			ID: "q9", SkillID: "s1", Title: "Reverse", Difficulty: "Easy",
			TestCases: []api.TestCase{{Input: "ab", ExpectedOutput: "ba"}, {Input: "x", ExpectedOutput: "x", IsHidden: true}},
		}}
	}
	deps := &screen.Deps{Backend: backend, Runner: backend, Data: data}
	s := New(deps, &auth.Session{UserID: "u1"}, api.Skill{ID: "s1", Title: "Go", IsTechnical: true})
	s.Init()
	s.Update(s.load()())
	return s, backend, data
}

func TestLoad_StoredQuestion(t *testing.T) {
	s, backend, _ := testCoding(t, true)
	require.NotNil(t, s.question)
	assert.Equal(t, "q9", s.question.ID)
	assert.Zero(t, backend.CallCount("GenerateCodingQuestion"))

	view := s.View(120, 40)
	assert.Contains(t, view, "Reverse")
	assert.Contains(t, view, "Example 1")
	assert.NotContains(t, view, "Example 2")
}

func TestLoad_GeneratesWhenNoneStored(t *testing.T) {
	s, backend, _ := testCoding(t, false)
	require.NotNil(t, s.question)
	require.Equal(t, 1, backend.CallCount("GenerateCodingQuestion"))
	req := backend.Calls()[0].Arg.(api.GenerateQuestionRequest)
	assert.Equal(t, "Go", req.Topic)
	assert.Equal(t, cd.DefaultDifficulty, req.Difficulty)
}

func TestLanguageCycleResetsBoilerplate(t *testing.T) {
	s, _, _ := testCoding(t, true)
	assert.Equal(t, cd.Boilerplate("python"), s.editor.Value())

	s.Update(ctrl('l'))
	assert.Equal(t, "javascript", s.language)
	assert.Equal(t, cd.Boilerplate("javascript"), s.editor.Value())
	assert.Contains(t, s.View(120, 40), "solution.js")
}

func TestSubmit(t *testing.T) {
	s, backend, _ := testCoding(t, true)
	backend.Submit = &api.SubmitResult{Results: []api.TestResult{
		{Input: "ab", Expected: "ba", Actual: "ab", Passed: false},
		{Passed: true, IsHidden: true},
	}}

	_, cmd := s.Update(ctrl('s'))
	require.NotNil(t, cmd)
	assert.True(t, s.submitting)

	_, notify := s.Update(cmd())
	assert.False(t, s.submitting)
	require.NotNil(t, s.summary)
	assert.Equal(t, 1, s.summary.Passed)

	n := notify().(components.NotifyMsg)
	assert.Equal(t, "1/2 tests passed", n.Text)

	req := backend.Calls()[0].Arg.(api.SubmitRequest)
	assert.Equal(t, "q9", req.QuestionID)
	assert.Equal(t, "python", req.Language)

	view := s.View(140, 50)
	assert.Contains(t, view, "1 / 2 Tests Passed")
	assert.Contains(t, view, "Test Case 2 (hidden)")
}

func TestSubmitError(t *testing.T) {
	s, backend, _ := testCoding(t, true)
	backend.Errors["SubmitCode"] = errors.New("down")
	_, cmd := s.Update(ctrl('s'))
	s.Update(cmd())
	assert.Nil(t, s.summary)
	assert.False(t, s.submitting)
}

func TestRunWithCustomInput(t *testing.T) {
	s, backend, _ := testCoding(t, true)
	s.Update(ctrl('f'))
	require.True(t, s.stdinFocus)
	for _, r := range "hello" {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}

	_, cmd := s.Update(ctrl('r'))
	require.NotNil(t, cmd)
	s.Update(cmd())

	req := backend.Calls()[0].Arg.(api.RunRequest)
	assert.Equal(t, "hello", req.InputData)
	require.NotNil(t, s.runOutput)
	assert.Equal(t, "hello", s.runOutput.Output)
}

func TestTabIndentsEditor(t *testing.T) {
	s, _, _ := testCoding(t, true)
	s.editor.SetValue("")
	s.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.Equal(t, "    ", s.editor.Value())
}
