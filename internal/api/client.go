package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultTimeout bounds every request when Options.Timeout is unset.
const DefaultTimeout = 120 * time.Second

// Options configures an HTTP client for the backend or the code runner.
type Options struct {
	BaseURL string
	Timeout time.Duration

	// Transport, when set, wraps every request (see LoggingTransport).
	Transport http.RoundTripper
}

func (o Options) httpClient() *http.Client {
	timeout := o.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{Timeout: timeout, Transport: o.Transport}
}

// httpBackend implements Backend over the backend's REST API.
type httpBackend struct {
	baseURL string
	service string
	client  *http.Client
}

// NewBackend creates a Backend talking to opts.BaseURL.
func NewBackend(opts Options) Backend {
	return &httpBackend{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		service: "backend",
		client:  opts.httpClient(),
	}
}

func (b *httpBackend) UploadDocument(ctx context.Context, req UploadRequest) (*UploadResult, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return nil, fmt.Errorf("read %s: %w", req.Filename, err)
	}
	if err := mw.WriteField("skill_id", req.SkillID); err != nil {
		return nil, err
	}
	if err := mw.WriteField("user_id", req.UserID); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	var out UploadResult
	err = b.do(ctx, http.MethodPost, "/documents/upload", mw.FormDataContentType(), &body, uploadSchema, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) DeleteDocument(ctx context.Context, documentID string) error {
	return b.doJSON(ctx, http.MethodDelete, "/documents/"+url.PathEscape(documentID), nil, nil, nil)
}

func (b *httpBackend) GenerateRoadmap(ctx context.Context, skillID string, documentIDs []string) (*RoadmapResult, error) {
	if documentIDs == nil {
		documentIDs = []string{}
	}
	in := map[string]any{"skill_id": skillID, "document_ids": documentIDs}
	var out RoadmapResult
	if err := b.doJSON(ctx, http.MethodPost, "/roadmap/generate", in, roadmapSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) GetRoadmap(ctx context.Context, skillID string) (*RoadmapResult, error) {
	var out RoadmapResult
	if err := b.doJSON(ctx, http.MethodGet, "/roadmap/"+url.PathEscape(skillID), nil, roadmapSchema, &out); err != nil {
		return nil, err
	}
	out.SkillID = skillID
	return &out, nil
}

func (b *httpBackend) DeleteSkill(ctx context.Context, skillID string) error {
	return b.doJSON(ctx, http.MethodDelete, "/skills/"+url.PathEscape(skillID), nil, nil, nil)
}

func (b *httpBackend) SendMessage(ctx context.Context, req MentorRequest) (*MentorReply, error) {
	var out MentorReply
	if err := b.doJSON(ctx, http.MethodPost, "/mentor/message", req, mentorSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) GenerateQuiz(ctx context.Context, skillID string, numQuestions int) ([]QuizQuestion, error) {
	in := map[string]any{"skill_id": skillID, "num_questions": numQuestions}
	var out struct {
		Questions []QuizQuestion `json:"questions"`
	}
	if err := b.doJSON(ctx, http.MethodPost, "/quiz/generate", in, quizSchema, &out); err != nil {
		return nil, err
	}
	return out.Questions, nil
}

func (b *httpBackend) SaveQuiz(ctx context.Context, result QuizResult) error {
	return b.doJSON(ctx, http.MethodPost, "/quiz/save", result, nil, nil)
}

func (b *httpBackend) QuizHistory(ctx context.Context, skillID string) ([]PastQuiz, error) {
	var out struct {
		Quizzes []PastQuiz `json:"quizzes"`
	}
	if err := b.doJSON(ctx, http.MethodGet, "/quiz/history/"+url.PathEscape(skillID), nil, quizHistorySchema, &out); err != nil {
		return nil, err
	}
	return out.Quizzes, nil
}

func (b *httpBackend) GenerateCodingQuestion(ctx context.Context, req GenerateQuestionRequest) (*CodingQuestion, error) {
	var out struct {
		Status   string         `json:"status"`
		Question CodingQuestion `json:"question"`
	}
	if err := b.doJSON(ctx, http.MethodPost, "/solver/generate-question", req, codingQuestionSchema, &out); err != nil {
		return nil, err
	}
	return &out.Question, nil
}

func (b *httpBackend) SubmitCode(ctx context.Context, req SubmitRequest) (*SubmitResult, error) {
	var out SubmitResult
	if err := b.doJSON(ctx, http.MethodPost, "/solver/submit", req, submitSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *httpBackend) SkillAnalytics(ctx context.Context, skillID, userID string) (*Analytics, error) {
	path := "/analytics/skill/" + url.PathEscape(skillID) + "?" + url.Values{"user_id": {userID}}.Encode()
	var out Analytics
	if err := b.doJSON(ctx, http.MethodGet, path, nil, analyticsSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// doJSON sends in (when non-nil) as a JSON body and decodes the response
// into out (when non-nil) after validating it against schema.
func (b *httpBackend) doJSON(ctx context.Context, method, path string, in any, schema *Schema, out any) error {
	var (
		body        io.Reader
		contentType string
	)
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return b.do(ctx, method, path, contentType, body, schema, out)
}

func (b *httpBackend) do(ctx context.Context, method, path, contentType string, body io.Reader, schema *Schema, out any) error {
	return roundTrip(ctx, b.client, b.service, method, b.baseURL+path, contentType, body, schema, out)
}

// roundTrip performs one request and maps failures onto the package's
// error types.
func roundTrip(ctx context.Context, client *http.Client, service, method, target, contentType string, body io.Reader, schema *Schema, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &ErrUnavailable{Service: service, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &ErrUnavailable{Service: service, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ErrBackend{StatusCode: resp.StatusCode, Detail: ParseDetail(raw)}
	}

	if out == nil {
		return nil
	}
	if err := validateResponse(schema, raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	return nil
}
