package api

import (
	"encoding/json"
	"io"
)

// Skill is a user-defined learning path.
type Skill struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	IsTechnical bool      `json:"is_technical"`
	Roadmap     string    `json:"roadmap,omitempty"`
	RoadmapSVG  string    `json:"roadmap_svg,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Document is an uploaded learning material attached to a skill.
type Document struct {
	ID           string    `json:"id"`
	SkillID      string    `json:"skill_id"`
	UserID       string    `json:"user_id"`
	Filename     string    `json:"filename"`
	Status       string    `json:"status"`
	Processed    bool      `json:"processed"`
	ErrorMessage string    `json:"error_message,omitempty"`
	CreatedAt    Timestamp `json:"created_at"`
}

// Source is a retrieved passage the mentor cited.
type Source struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content"`
}

// Role is the chat message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of a mentor conversation.
type ChatMessage struct {
	Role    Role     `json:"role"`
	Content string   `json:"content"`
	Sources []Source `json:"sources,omitempty"`
	Mode    string   `json:"mode,omitempty"`
}

// MentorRequest is the body of POST /mentor/message.
type MentorRequest struct {
	UserID  string `json:"user_id"`
	SkillID string `json:"skill_id"`
	ChatID  string `json:"chat_id,omitempty"`
	Message string `json:"message"`
	Mode    string `json:"mode"`
}

// MentorReply is the response of POST /mentor/message.
type MentorReply struct {
	ChatID   string   `json:"chat_id"`
	Response string   `json:"response"`
	Mode     string   `json:"mode"`
	Sources  []Source `json:"sources"`
}

// QuizQuestion is a generated multiple-choice question.
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	Explanation   string   `json:"explanation"`
}

// QuestionResult records how one question was answered.
type QuestionResult struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correct_answer"`
	UserAnswer    int      `json:"user_answer"`
	IsCorrect     bool     `json:"is_correct"`
}

// QuizResult is the body of POST /quiz/save.
type QuizResult struct {
	SkillID        string           `json:"skill_id"`
	UserID         string           `json:"user_id"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Questions      []QuestionResult `json:"questions"`
}

// PastQuiz is one entry of the quiz history.
type PastQuiz struct {
	ID             string           `json:"id"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	CreatedAt      Timestamp        `json:"created_at"`
	Questions      []QuestionResult `json:"questions"`
}

// TestCase is a coding question test case. Hidden cases are graded but
// their input and expected output are not shown.
type TestCase struct {
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	IsHidden       bool   `json:"is_hidden"`
}

// CodingQuestion is a generated programming exercise.
type CodingQuestion struct {
	ID          string     `json:"id"`
	SkillID     string     `json:"skill_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Difficulty  string     `json:"difficulty"`
	TestCases   []TestCase `json:"test_cases,omitempty"`
	CreatedAt   Timestamp  `json:"created_at,omitzero"`
}

// GenerateQuestionRequest is the body of POST /solver/generate-question.
type GenerateQuestionRequest struct {
	SkillID    string `json:"skill_id"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

// SubmitRequest is the body of POST /solver/submit.
type SubmitRequest struct {
	UserID     string `json:"user_id"`
	QuestionID string `json:"question_id"`
	Code       string `json:"code"`
	Language   string `json:"language"`
}

// TestResult is the outcome of one test case.
type TestResult struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
	Passed   bool   `json:"passed"`
	IsHidden bool   `json:"is_hidden"`
	Error    string `json:"error,omitempty"`
}

// SubmitResult is the response of POST /solver/submit.
type SubmitResult struct {
	Status      string       `json:"status"`
	PassedCount int          `json:"passed_count"`
	TotalCount  int          `json:"total_count"`
	Results     []TestResult `json:"results"`
}

// AnalyticsSummary holds aggregate scores. Averages are fractions in [0, 1].
type AnalyticsSummary struct {
	TotalQuizzes         int     `json:"total_quizzes"`
	AvgQuizScore         float64 `json:"avg_quiz_score"`
	CodeChallengesSolved int     `json:"code_challenges_solved"`
	AvgCodeScore         float64 `json:"avg_code_score"`
	CombinedAvgScore     float64 `json:"combined_avg_score"`
}

// Activity is one progress metric row.
type Activity struct {
	ActivityType string          `json:"activity_type"`
	Score        float64         `json:"score"`
	MaxScore     float64         `json:"max_score"`
	CreatedAt    Timestamp       `json:"created_at"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

// Analytics is the response of GET /analytics/skill/{id}.
type Analytics struct {
	Summary AnalyticsSummary `json:"summary"`
	History []Activity       `json:"history"`
}

// Profile is a row of the profiles table.
type Profile struct {
	ID        string `json:"id"`
	FullName  string `json:"full_name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// UploadRequest describes one document upload.
type UploadRequest struct {
	SkillID  string
	UserID   string
	Filename string
	Content  io.Reader
}

// UploadResult is the response of POST /documents/upload.
type UploadResult struct {
	Status     string `json:"status"`
	DocumentID string `json:"document_id"`
	Message    string `json:"message"`
}

// RoadmapResult is the response of POST /roadmap/generate.
type RoadmapResult struct {
	Success    bool   `json:"success"`
	Roadmap    string `json:"roadmap"`
	RoadmapSVG string `json:"roadmap_svg"`
	SkillID    string `json:"skill_id"`
}

// RunRequest is the body of the code runner's POST /run.
type RunRequest struct {
	Code      string `json:"code"`
	InputData string `json:"input_data"`
	Language  string `json:"language"`
}

// RunResult is the code runner's response.
type RunResult struct {
	Output string `json:"output"`
	Status string `json:"status"`
}
