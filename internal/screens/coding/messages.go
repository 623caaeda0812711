package coding

import "github.com/abhisek/sensei/internal/api"

// questionLoadedMsg carries the stored or newly generated question.
type questionLoadedMsg struct {
	Question  *api.CodingQuestion
	Generated bool
	Err       error
}

// submittedMsg carries the graded submission.
type submittedMsg struct {
	Result *api.SubmitResult
	Err    error
}

// ranMsg carries a run against custom input.
type ranMsg struct {
	Result *api.RunResult
	Err    error
}
