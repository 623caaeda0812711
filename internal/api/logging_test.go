package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/sensei/internal/store"
)

func openRepo(t *testing.T) store.RequestRepo {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s.RequestRepo()
}

func TestLoggingTransportRecordsEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/quiz/generate" {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"detail":"model overloaded"}`)
			return
		}
		_, _ = io.WriteString(w, `{"chat_id":"c1","response":"hi","mode":"coach","sources":[]}`)
	}))
	defer srv.Close()

	repo := openRepo(t)
	core, logs := observer.New(zap.DebugLevel)
	transport := WithLogging(nil, "backend", repo, zap.New(core))
	b := NewBackend(Options{BaseURL: srv.URL, Transport: transport})

	_, err := b.SendMessage(context.Background(), MentorRequest{UserID: "u1", SkillID: "s1", Message: "hello", Mode: "coach"})
	require.NoError(t, err)
	_, err = b.GenerateQuiz(context.Background(), "s1", 5)
	require.Error(t, err)

	events, err := repo.Query(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 2)

	failed := events[0]
	assert.Equal(t, "/quiz/generate", failed.Path)
	assert.Equal(t, 500, failed.StatusCode)
	assert.False(t, failed.Success)
	assert.Equal(t, "model overloaded", failed.ErrorMessage)

	ok := events[1]
	assert.Equal(t, "backend", ok.Service)
	assert.Equal(t, http.MethodPost, ok.Method)
	assert.True(t, ok.Success)
	assert.Contains(t, ok.RequestBody, `"message":"hello"`)
	assert.Contains(t, ok.ResponseBody, `"response":"hi"`)

	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("request").Len())
}

func TestLoggingTransportNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	repo := openRepo(t)
	b := NewBackend(Options{BaseURL: url, Transport: WithLogging(nil, "backend", repo, nil)})
	_, err := b.QuizHistory(context.Background(), "s1")
	require.Error(t, err)

	events, err := repo.Query(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 0, events[0].StatusCode)
	assert.NotEmpty(t, events[0].ErrorMessage)
}

func TestLoggingTransportSummarizesMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","document_id":"d1","message":""}`)
	}))
	defer srv.Close()

	repo := openRepo(t)
	b := NewBackend(Options{BaseURL: srv.URL, Transport: WithLogging(nil, "backend", repo, nil)})
	_, err := b.UploadDocument(context.Background(), UploadRequest{
		SkillID: "s1", UserID: "u1", Filename: "a.txt", Content: strings.NewReader("content"),
	})
	require.NoError(t, err)

	events, err := repo.Query(context.Background(), store.QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.True(t, strings.HasPrefix(events[0].RequestBody, "[multipart body,"))
}

func TestRedact(t *testing.T) {
	in := `{"email":"a@b.c","password":"hunter2","refresh_token": "r-123","other":"x"}`
	out := redact(in)
	assert.NotContains(t, out, "hunter2")
	assert.NotContains(t, out, "r-123")
	assert.Contains(t, out, `"password":"***"`)
	assert.Contains(t, out, `"other":"x"`)
}
