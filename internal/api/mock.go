package api

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// MockCall records one call made to a MockBackend.
type MockCall struct {
	Method string
	Arg    any
}

// MockBackend is a deterministic Backend for testing. It returns the canned
// values set on its fields, fails calls named in Errors, and records every
// call.
type MockBackend struct {
	mu    sync.Mutex
	calls []MockCall

	// Errors maps a method name (e.g. "SendMessage") to the error it returns.
	Errors map[string]error
	// UploadErrors fails uploads of the named files.
	UploadErrors map[string]error

	Roadmap   *RoadmapResult
	Reply     *MentorReply
	Questions []QuizQuestion
	History   []PastQuiz
	Coding    *CodingQuestion
	Submit    *SubmitResult
	Analytics *Analytics
	RunOutput *RunResult
}

// NewMockBackend creates a MockBackend with no canned values.
func NewMockBackend() *MockBackend {
	return &MockBackend{Errors: map[string]error{}, UploadErrors: map[string]error{}}
}

func (m *MockBackend) record(method string, arg any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, MockCall{Method: method, Arg: arg})
	return m.Errors[method]
}

// Calls returns a copy of the recorded calls.
func (m *MockBackend) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]MockCall(nil), m.calls...)
}

// CallCount returns the number of calls made to method.
func (m *MockBackend) CallCount(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

// UploadDocument returns the document id "doc-<filename>".
func (m *MockBackend) UploadDocument(_ context.Context, req UploadRequest) (*UploadResult, error) {
	if req.Content != nil {
		_, _ = io.Copy(io.Discard, req.Content)
	}
	if err := m.record("UploadDocument", req.Filename); err != nil {
		return nil, err
	}
	m.mu.Lock()
	err := m.UploadErrors[req.Filename]
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &UploadResult{Status: "success", DocumentID: fmt.Sprintf("doc-%s", req.Filename)}, nil
}

func (m *MockBackend) DeleteDocument(_ context.Context, documentID string) error {
	return m.record("DeleteDocument", documentID)
}

func (m *MockBackend) GenerateRoadmap(_ context.Context, skillID string, documentIDs []string) (*RoadmapResult, error) {
	if err := m.record("GenerateRoadmap", documentIDs); err != nil {
		return nil, err
	}
	if m.Roadmap != nil {
		return m.Roadmap, nil
	}
	return &RoadmapResult{Success: true, SkillID: skillID}, nil
}

func (m *MockBackend) GetRoadmap(_ context.Context, skillID string) (*RoadmapResult, error) {
	if err := m.record("GetRoadmap", skillID); err != nil {
		return nil, err
	}
	if m.Roadmap != nil {
		return m.Roadmap, nil
	}
	return &RoadmapResult{SkillID: skillID}, nil
}

func (m *MockBackend) DeleteSkill(_ context.Context, skillID string) error {
	return m.record("DeleteSkill", skillID)
}

func (m *MockBackend) SendMessage(_ context.Context, req MentorRequest) (*MentorReply, error) {
	if err := m.record("SendMessage", req); err != nil {
		return nil, err
	}
	if m.Reply != nil {
		return m.Reply, nil
	}
	return &MentorReply{ChatID: "chat-1", Response: "ok", Mode: req.Mode}, nil
}

func (m *MockBackend) GenerateQuiz(_ context.Context, _ string, numQuestions int) ([]QuizQuestion, error) {
	if err := m.record("GenerateQuiz", numQuestions); err != nil {
		return nil, err
	}
	return m.Questions, nil
}

func (m *MockBackend) SaveQuiz(_ context.Context, result QuizResult) error {
	return m.record("SaveQuiz", result)
}

func (m *MockBackend) QuizHistory(_ context.Context, skillID string) ([]PastQuiz, error) {
	if err := m.record("QuizHistory", skillID); err != nil {
		return nil, err
	}
	return m.History, nil
}

func (m *MockBackend) GenerateCodingQuestion(_ context.Context, req GenerateQuestionRequest) (*CodingQuestion, error) {
	if err := m.record("GenerateCodingQuestion", req); err != nil {
		return nil, err
	}
	if m.Coding != nil {
		return m.Coding, nil
	}
	return &CodingQuestion{ID: "q-1", SkillID: req.SkillID, Title: req.Topic, Difficulty: req.Difficulty}, nil
}

func (m *MockBackend) SubmitCode(_ context.Context, req SubmitRequest) (*SubmitResult, error) {
	if err := m.record("SubmitCode", req); err != nil {
		return nil, err
	}
	if m.Submit != nil {
		return m.Submit, nil
	}
	return &SubmitResult{Status: "passed"}, nil
}

func (m *MockBackend) SkillAnalytics(_ context.Context, skillID, _ string) (*Analytics, error) {
	if err := m.record("SkillAnalytics", skillID); err != nil {
		return nil, err
	}
	if m.Analytics != nil {
		return m.Analytics, nil
	}
	return &Analytics{}, nil
}

// Run makes MockBackend usable as a Runner too.
func (m *MockBackend) Run(_ context.Context, req RunRequest) (*RunResult, error) {
	if err := m.record("Run", req); err != nil {
		return nil, err
	}
	if m.RunOutput != nil {
		return m.RunOutput, nil
	}
	return &RunResult{Output: req.InputData, Status: "success"}, nil
}

var (
	_ Backend = (*MockBackend)(nil)
	_ Runner  = (*MockBackend)(nil)
)
