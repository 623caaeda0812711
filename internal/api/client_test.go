package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorded struct {
	Method string
	Path   string
	Query  string
	Body   map[string]any
}

// newTestBackend starts a server that records the request and replies with
// status and body.
func newTestBackend(t *testing.T, status int, body string) (Backend, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.Method = r.Method
		rec.Path = r.URL.Path
		rec.Query = r.URL.RawQuery
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewBackend(Options{BaseURL: srv.URL + "/"}), rec
}

func TestSendMessage(t *testing.T) {
	b, rec := newTestBackend(t, 200,
		`{"chat_id":"c1","response":"Recursion is...","mode":"explain","sources":[{"content":"p1","title":"notes.pdf"}]}`)

	reply, err := b.SendMessage(context.Background(), MentorRequest{
		UserID: "u1", SkillID: "s1", Message: "what is recursion?", Mode: "explain",
	})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, rec.Method)
	assert.Equal(t, "/mentor/message", rec.Path)
	assert.Equal(t, "what is recursion?", rec.Body["message"])
	assert.Equal(t, "explain", rec.Body["mode"])
	_, hasChat := rec.Body["chat_id"]
	assert.False(t, hasChat, "empty chat id omitted")

	assert.Equal(t, "c1", reply.ChatID)
	assert.Equal(t, "Recursion is...", reply.Response)
	require.Len(t, reply.Sources, 1)
	assert.Equal(t, "notes.pdf", reply.Sources[0].Title)
}

func TestGenerateRoadmap(t *testing.T) {
	b, rec := newTestBackend(t, 200, `{"success":true,"roadmap":"# A","roadmap_svg":"<svg/>","skill_id":"s1"}`)

	res, err := b.GenerateRoadmap(context.Background(), "s1", nil)
	require.NoError(t, err)
	assert.Equal(t, "/roadmap/generate", rec.Path)
	assert.Equal(t, []any{}, rec.Body["document_ids"], "nil ids sent as empty list")
	assert.Equal(t, "# A", res.Roadmap)
	assert.True(t, res.Success)
}

func TestGenerateQuiz(t *testing.T) {
	b, rec := newTestBackend(t, 200,
		`{"questions":[{"question":"2+2?","options":["3","4"],"correct_answer":1,"explanation":"math"}]}`)

	qs, err := b.GenerateQuiz(context.Background(), "s1", 5)
	require.NoError(t, err)
	assert.Equal(t, "/quiz/generate", rec.Path)
	assert.Equal(t, float64(5), rec.Body["num_questions"])
	require.Len(t, qs, 1)
	assert.Equal(t, 1, qs[0].CorrectAnswer)
}

func TestQuizHistory(t *testing.T) {
	b, rec := newTestBackend(t, 200, `{"quizzes":[{"id":"q1","score":3,"total_questions":5,
		"created_at":"2025-01-02T03:04:05.123456+00:00",
		"questions":[{"question":"x","options":["a","b"],"correct_answer":0,"user_answer":1,"is_correct":false}]}]}`)

	hist, err := b.QuizHistory(context.Background(), "s 1")
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, rec.Method)
	assert.Equal(t, "/quiz/history/s 1", rec.Path)
	require.Len(t, hist, 1)
	assert.Equal(t, 2025, hist[0].CreatedAt.Year())
	assert.False(t, hist[0].Questions[0].IsCorrect)
}

func TestSkillAnalyticsQuery(t *testing.T) {
	b, rec := newTestBackend(t, 200, `{"summary":{"total_quizzes":2,"avg_quiz_score":0.5,
		"code_challenges_solved":1,"avg_code_score":1,"combined_avg_score":0.67},
		"history":[{"activity_type":"quiz","score":3,"max_score":5,"created_at":"2025-01-01T00:00:00"}]}`)

	a, err := b.SkillAnalytics(context.Background(), "s1", "u1")
	require.NoError(t, err)
	assert.Equal(t, "/analytics/skill/s1", rec.Path)
	assert.Equal(t, "user_id=u1", rec.Query)
	assert.Equal(t, 2, a.Summary.TotalQuizzes)
	assert.InDelta(t, 0.67, a.Summary.CombinedAvgScore, 1e-9)
	require.Len(t, a.History, 1)
}

func TestCodingEndpoints(t *testing.T) {
	b, rec := newTestBackend(t, 200, `{"status":"success","question":{"id":"q1","skill_id":"s1",
		"title":"Sum","description":"add two numbers","difficulty":"Medium",
		"test_cases":[{"input":"1 2","expected_output":"3","is_hidden":false}]}}`)

	q, err := b.GenerateCodingQuestion(context.Background(), GenerateQuestionRequest{SkillID: "s1", Topic: "Go", Difficulty: "Medium"})
	require.NoError(t, err)
	assert.Equal(t, "/solver/generate-question", rec.Path)
	assert.Equal(t, "Go", rec.Body["topic"])
	assert.Equal(t, "Sum", q.Title)
	require.Len(t, q.TestCases, 1)

	b, rec = newTestBackend(t, 200, `{"status":"failed","passed_count":1,"total_count":2,
		"results":[{"input":"1","expected":"1","actual":"1","passed":true,"is_hidden":false},
		{"input":"","passed":false,"is_hidden":true,"error":"boom"}]}`)
	res, err := b.SubmitCode(context.Background(), SubmitRequest{UserID: "u1", QuestionID: "q1", Code: "print(1)", Language: "python"})
	require.NoError(t, err)
	assert.Equal(t, "/solver/submit", rec.Path)
	assert.Equal(t, "q1", rec.Body["question_id"])
	assert.Equal(t, 1, res.PassedCount)
	assert.Equal(t, "boom", res.Results[1].Error)
}

func TestDeleteCalls(t *testing.T) {
	b, rec := newTestBackend(t, 200, `{"status":"success"}`)

	require.NoError(t, b.DeleteSkill(context.Background(), "s1"))
	assert.Equal(t, http.MethodDelete, rec.Method)
	assert.Equal(t, "/skills/s1", rec.Path)

	require.NoError(t, b.DeleteDocument(context.Background(), "d1"))
	assert.Equal(t, "/documents/d1", rec.Path)
}

func TestUploadDocumentMultipart(t *testing.T) {
	var fields map[string]string
	var fileName, fileBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		fields = map[string]string{
			"skill_id": r.FormValue("skill_id"),
			"user_id":  r.FormValue("user_id"),
		}
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		raw, _ := io.ReadAll(f)
		fileName, fileBody = hdr.Filename, string(raw)
		_, _ = io.WriteString(w, `{"status":"success","document_id":"d9","message":"File uploaded."}`)
	}))
	defer srv.Close()

	b := NewBackend(Options{BaseURL: srv.URL})
	res, err := b.UploadDocument(context.Background(), UploadRequest{
		SkillID: "s1", UserID: "u1", Filename: "notes.txt", Content: strings.NewReader("hello"),
	})
	require.NoError(t, err)
	assert.Equal(t, "d9", res.DocumentID)
	assert.Equal(t, map[string]string{"skill_id": "s1", "user_id": "u1"}, fields)
	assert.Equal(t, "notes.txt", fileName)
	assert.Equal(t, "hello", fileBody)
}

func TestErrorMapping(t *testing.T) {
	t.Run("fastapi detail", func(t *testing.T) {
		b, _ := newTestBackend(t, 404, `{"detail":"No documents found for this skill"}`)
		_, err := b.GenerateQuiz(context.Background(), "s1", 5)
		var be *ErrBackend
		require.True(t, errors.As(err, &be))
		assert.Equal(t, 404, be.StatusCode)
		assert.Equal(t, "No documents found for this skill", be.Detail)
		assert.Equal(t, "No documents found for this skill", Message(err))
	})

	t.Run("validation detail list", func(t *testing.T) {
		b, _ := newTestBackend(t, 422, `{"detail":[{"msg":"field required"},{"msg":"bad type"}]}`)
		err := b.SaveQuiz(context.Background(), QuizResult{})
		var be *ErrBackend
		require.True(t, errors.As(err, &be))
		assert.Equal(t, "field required; bad type", be.Detail)
	})

	t.Run("malformed json", func(t *testing.T) {
		b, _ := newTestBackend(t, 200, `{not json`)
		_, err := b.SendMessage(context.Background(), MentorRequest{})
		var inv *ErrInvalidResponse
		require.True(t, errors.As(err, &inv))
		assert.Equal(t, "The server sent a response that could not be read.", Message(err))
	})

	t.Run("schema mismatch", func(t *testing.T) {
		b, _ := newTestBackend(t, 200, `{"questions":[{"question":"x","options":"nope","correct_answer":0}]}`)
		_, err := b.GenerateQuiz(context.Background(), "s1", 1)
		var inv *ErrInvalidResponse
		require.True(t, errors.As(err, &inv))
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		b := NewBackend(Options{BaseURL: url})
		_, err := b.GenerateRoadmap(context.Background(), "s1", nil)
		var unavail *ErrUnavailable
		require.True(t, errors.As(err, &unavail))
		assert.Equal(t, "backend", unavail.Service)
		assert.Contains(t, Message(err), "Could not reach the server")
	})
}

func TestRunner(t *testing.T) {
	var got RunRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/run", r.URL.Path)
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = io.WriteString(w, `{"output":"3\n","status":"success"}`)
	}))
	defer srv.Close()

	res, err := NewRunner(Options{BaseURL: srv.URL}).Run(context.Background(), RunRequest{
		Code: "print(sum(map(int, input().split())))", InputData: "1 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "python", got.Language, "language defaults to python")
	assert.Equal(t, "1 2", got.InputData)
	assert.Equal(t, "3\n", res.Output)
	assert.Equal(t, "success", res.Status)
}

func TestTimestampFormats(t *testing.T) {
	tests := []struct {
		in   string
		zero bool
	}{
		{`"2025-03-01T10:00:00Z"`, false},
		{`"2025-03-01T10:00:00.123456+00:00"`, false},
		{`"2025-03-01T10:00:00.123456"`, false},
		{`"2025-03-01 10:00:00+00:00"`, false},
		{`null`, true},
		{`""`, true},
	}
	for _, tt := range tests {
		var ts Timestamp
		require.NoError(t, json.Unmarshal([]byte(tt.in), &ts), tt.in)
		assert.Equal(t, tt.zero, ts.IsZero(), tt.in)
		if !tt.zero {
			assert.Equal(t, 2025, ts.Year())
		}
	}

	var ts Timestamp
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &ts))
}
