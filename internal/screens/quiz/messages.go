package quiz

import "github.com/abhisek/sensei/internal/api"

// questionsReadyMsg carries a freshly generated quiz.
type questionsReadyMsg struct {
	Questions []api.QuizQuestion
	Err       error
}

// savedMsg reports the outcome of saving a finished attempt.
type savedMsg struct {
	Err error
}

// historyLoadedMsg carries past attempts.
type historyLoadedMsg struct {
	History []api.PastQuiz
	Err     error
}
