// Package quiz runs multiple-choice quiz attempts and formats their history.
package quiz

import (
	"errors"
	"math"

	"github.com/abhisek/sensei/internal/api"
)

// DefaultQuestions is how many questions a generated quiz has unless
// configured otherwise.
const DefaultQuestions = 5

// Unanswered marks a question with no recorded answer.
const Unanswered = -1

// ErrNoQuestions is returned when the backend generated an empty quiz.
var ErrNoQuestions = errors.New("quiz has no questions")

// Attempt is one pass through a generated quiz. Each question locks as
// soon as an option is selected.
type Attempt struct {
	Questions []api.QuizQuestion
	Answers   []int
	Current   int
	Score     int
	Completed bool
}

// NewAttempt starts an attempt at the first question.
func NewAttempt(questions []api.QuizQuestion) (*Attempt, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	answers := make([]int, len(questions))
	for i := range answers {
		answers[i] = Unanswered
	}
	return &Attempt{Questions: questions, Answers: answers}, nil
}

// Question returns the current question.
func (a *Attempt) Question() api.QuizQuestion {
	return a.Questions[a.Current]
}

// Locked reports whether the current question has been answered.
func (a *Attempt) Locked() bool {
	return !a.Completed && a.Answers[a.Current] != Unanswered
}

// Select records option i for the current question and reports whether it
// was correct. It does nothing once the question is locked, the attempt is
// complete or i is out of range.
func (a *Attempt) Select(i int) (correct, ok bool) {
	if a.Completed || a.Locked() {
		return false, false
	}
	q := a.Question()
	if i < 0 || i >= len(q.Options) {
		return false, false
	}
	a.Answers[a.Current] = i
	if i == q.CorrectAnswer {
		a.Score++
		return true, true
	}
	return false, true
}

// Next moves past an answered question. After the last question the
// attempt is complete and Next returns false.
func (a *Attempt) Next() bool {
	if a.Completed || !a.Locked() {
		return false
	}
	if a.Current+1 < len(a.Questions) {
		a.Current++
		return true
	}
	a.Completed = true
	return false
}

// Result builds the save payload. The score is recomputed from the
// recorded answers.
func (a *Attempt) Result(skillID, userID string) api.QuizResult {
	res := api.QuizResult{
		SkillID:        skillID,
		UserID:         userID,
		TotalQuestions: len(a.Questions),
		Questions:      make([]api.QuestionResult, len(a.Questions)),
	}
	for i, q := range a.Questions {
		correct := a.Answers[i] == q.CorrectAnswer
		if correct {
			res.Score++
		}
		res.Questions[i] = api.QuestionResult{
			Question:      q.Question,
			Options:       q.Options,
			CorrectAnswer: q.CorrectAnswer,
			UserAnswer:    a.Answers[i],
			IsCorrect:     correct,
		}
	}
	return res
}

// Percent returns round(score / total * 100), or 0 for an empty quiz.
func Percent(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
