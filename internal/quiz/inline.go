package quiz

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/abhisek/sensei/internal/api"
	"github.com/abhisek/sensei/internal/supabase"
)

var (
	ErrIncomplete       = errors.New("answer every question before submitting")
	ErrAlreadySubmitted = errors.New("quiz already submitted")
)

// Inline is a practice quiz embedded in a mentor reply. Unlike an Attempt,
// answers can be changed freely until the quiz is submitted.
type Inline struct {
	Questions []api.QuizQuestion
	Answers   []int
	Submitted bool
	Score     int
}

// ParseInline decodes a `{"questions": [...]}` reply.
func ParseInline(content string) (*Inline, error) {
	var payload struct {
		Questions []api.QuizQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("parse inline quiz: %w", err)
	}
	if len(payload.Questions) == 0 {
		return nil, ErrNoQuestions
	}
	answers := make([]int, len(payload.Questions))
	for i := range answers {
		answers[i] = Unanswered
	}
	return &Inline{Questions: payload.Questions, Answers: answers}, nil
}

// Answer sets the answer to question q. It reports false after submit or
// for out-of-range indexes.
func (in *Inline) Answer(q, option int) bool {
	if in.Submitted || q < 0 || q >= len(in.Questions) {
		return false
	}
	if option < 0 || option >= len(in.Questions[q].Options) {
		return false
	}
	in.Answers[q] = option
	return true
}

// Complete reports whether every question has an answer.
func (in *Inline) Complete() bool {
	for _, a := range in.Answers {
		if a == Unanswered {
			return false
		}
	}
	return true
}

// Submit grades the quiz and returns the quiz_results row to store.
func (in *Inline) Submit(skillID, userID string) (supabase.InlineQuizResult, error) {
	if in.Submitted {
		return supabase.InlineQuizResult{}, ErrAlreadySubmitted
	}
	if !in.Complete() {
		return supabase.InlineQuizResult{}, ErrIncomplete
	}
	score := 0
	for i, q := range in.Questions {
		if in.Answers[i] == q.CorrectAnswer {
			score++
		}
	}
	in.Score = score
	in.Submitted = true
	return supabase.InlineQuizResult{
		UserID:  userID,
		SkillID: skillID,
		Score:   score,
		Total:   len(in.Questions),
		Answers: append([]int(nil), in.Answers...),
	}, nil
}
