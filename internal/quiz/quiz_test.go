package quiz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/sensei/internal/api"
)

func sampleQuestions() []api.QuizQuestion {
	return []api.QuizQuestion{
		{Question: "2+2?", Options: []string{"3", "4", "5", "6"}, CorrectAnswer: 1},
		{Question: "Capital of France?", Options: []string{"Paris", "Rome", "Oslo", "Bern"}, CorrectAnswer: 0},
		{Question: "Go keyword for goroutines?", Options: []string{"async", "spawn", "go", "run"}, CorrectAnswer: 2},
	}
}

func TestNewAttempt_Empty(t *testing.T) {
	_, err := NewAttempt(nil)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestSelectLocks(t *testing.T) {
	a, err := NewAttempt(sampleQuestions())
	require.NoError(t, err)

	correct, ok := a.Select(1)
	assert.True(t, ok)
	assert.True(t, correct)
	assert.Equal(t, 1, a.Score)
	assert.True(t, a.Locked())

	correct, ok = a.Select(0)
	assert.False(t, ok, "locked question ignores further selection")
	assert.False(t, correct)
	assert.Equal(t, 1, a.Answers[0])
	assert.Equal(t, 1, a.Score)
}

func TestSelectWrongDoesNotScore(t *testing.T) {
	a, _ := NewAttempt(sampleQuestions())
	correct, ok := a.Select(3)
	assert.True(t, ok)
	assert.False(t, correct)
	assert.Zero(t, a.Score)
}

func TestSelectOutOfRange(t *testing.T) {
	a, _ := NewAttempt(sampleQuestions())
	_, ok := a.Select(7)
	assert.False(t, ok)
	_, ok = a.Select(-1)
	assert.False(t, ok)
	assert.False(t, a.Locked())
}

func TestNextRequiresAnswer(t *testing.T) {
	a, _ := NewAttempt(sampleQuestions())
	assert.False(t, a.Next())
	assert.Equal(t, 0, a.Current)
}

func TestFullAttempt(t *testing.T) {
	a, _ := NewAttempt(sampleQuestions())

	a.Select(1) // correct
	assert.True(t, a.Next())
	a.Select(2) // wrong
	assert.True(t, a.Next())
	a.Select(2) // correct
	assert.False(t, a.Next())
	assert.True(t, a.Completed)
	assert.False(t, a.Next())

	_, ok := a.Select(0)
	assert.False(t, ok)

	res := a.Result("s1", "u1")
	assert.Equal(t, "s1", res.SkillID)
	assert.Equal(t, "u1", res.UserID)
	assert.Equal(t, 2, res.Score)
	assert.Equal(t, 3, res.TotalQuestions)
	require.Len(t, res.Questions, 3)
	assert.True(t, res.Questions[0].IsCorrect)
	assert.False(t, res.Questions[1].IsCorrect)
	assert.Equal(t, 2, res.Questions[1].UserAnswer)
	assert.Equal(t, 0, res.Questions[1].CorrectAnswer)
	assert.Equal(t, 67, Percent(res.Score, res.TotalQuestions))
}

func TestResultRecomputesScore(t *testing.T) {
	a, _ := NewAttempt(sampleQuestions())
	a.Select(1)
	a.Score = 99

	res := a.Result("s1", "u1")
	assert.Equal(t, 1, res.Score)
	assert.Equal(t, Unanswered, res.Questions[2].UserAnswer)
}

func TestPercent(t *testing.T) {
	assert.Equal(t, 0, Percent(0, 0))
	assert.Equal(t, 60, Percent(3, 5))
	assert.Equal(t, 33, Percent(1, 3))
	assert.Equal(t, 100, Percent(5, 5))
}

func TestInline(t *testing.T) {
	in, err := ParseInline(`{"questions":[
		{"question":"a?","options":["x","y"],"correct_answer":0},
		{"question":"b?","options":["x","y"],"correct_answer":1}
	]}`)
	require.NoError(t, err)
	assert.Equal(t, []int{Unanswered, Unanswered}, in.Answers)

	assert.True(t, in.Answer(0, 1))
	assert.True(t, in.Answer(0, 0), "answers can change before submit")
	assert.False(t, in.Answer(5, 0))
	assert.False(t, in.Answer(1, 9))

	_, err = in.Submit("s1", "u1")
	assert.ErrorIs(t, err, ErrIncomplete)

	in.Answer(1, 0)
	row, err := in.Submit("s1", "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, row.Score)
	assert.Equal(t, 2, row.Total)
	assert.Equal(t, []int{0, 0}, row.Answers)
	assert.Equal(t, "s1", row.SkillID)

	assert.False(t, in.Answer(1, 1))
	_, err = in.Submit("s1", "u1")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
}

func TestParseInline_Errors(t *testing.T) {
	_, err := ParseInline(`{"questions": [`)
	assert.Error(t, err)
	_, err = ParseInline(`{"questions": []}`)
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestHistory(t *testing.T) {
	taken := time.Date(2026, 3, 1, 15, 4, 0, 0, time.UTC)
	got := History([]api.PastQuiz{{
		ID: "q1", Score: 4, TotalQuestions: 5,
		CreatedAt: api.Timestamp{Time: taken},
		Questions: []api.QuestionResult{{Question: "a?", IsCorrect: true}},
	}})
	require.Len(t, got, 1)
	assert.Equal(t, 80, got[0].Percent)
	assert.Equal(t, "Score: 4/5 (80%)", got[0].Summary())
	assert.Len(t, got[0].Review, 1)
	assert.True(t, got[0].TakenAt.Equal(taken))

	assert.Equal(t, "unknown date", FormatDate(time.Time{}))
	assert.NotEmpty(t, FormatDate(taken))
}
