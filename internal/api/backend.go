package api

import "context"

// Backend is the learning backend. All generation, retrieval and grading
// happens there; the client only shapes requests and decodes replies.
type Backend interface {
	UploadDocument(ctx context.Context, req UploadRequest) (*UploadResult, error)
	DeleteDocument(ctx context.Context, documentID string) error

	GenerateRoadmap(ctx context.Context, skillID string, documentIDs []string) (*RoadmapResult, error)
	GetRoadmap(ctx context.Context, skillID string) (*RoadmapResult, error)
	DeleteSkill(ctx context.Context, skillID string) error

	SendMessage(ctx context.Context, req MentorRequest) (*MentorReply, error)

	GenerateQuiz(ctx context.Context, skillID string, numQuestions int) ([]QuizQuestion, error)
	SaveQuiz(ctx context.Context, result QuizResult) error
	QuizHistory(ctx context.Context, skillID string) ([]PastQuiz, error)

	GenerateCodingQuestion(ctx context.Context, req GenerateQuestionRequest) (*CodingQuestion, error)
	SubmitCode(ctx context.Context, req SubmitRequest) (*SubmitResult, error)

	SkillAnalytics(ctx context.Context, skillID, userID string) (*Analytics, error)
}
