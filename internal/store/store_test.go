package store

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestPragmasOnEveryConnection(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// Hold one connection so the pool has to open another.
	held, err := s.DB().Conn(ctx)
	require.NoError(t, err)
	defer held.Close()

	other, err := s.DB().Conn(ctx)
	require.NoError(t, err)
	defer other.Close()

	var timeout int
	require.NoError(t, other.QueryRowContext(ctx, "PRAGMA busy_timeout").Scan(&timeout))
	assert.Equal(t, 5000, timeout)
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{"sessions", "request_events"} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Fatalf("query sqlite_master for %s: %v", table, err)
		}
		if name != table {
			t.Errorf("table name = %q, want %q", name, table)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reopen.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SessionRepo().Save(ctx, SessionRecord{AccessToken: "a", UserID: "u1"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()

	rec, err := s.SessionRepo().Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "u1", rec.UserID)
}

func TestSessionSaveLoadClear(t *testing.T) {
	s := openTestStore(t)
	repo := s.SessionRepo()
	ctx := context.Background()

	rec, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec, "no session before login")

	expires := time.Now().Add(time.Hour).Truncate(time.Millisecond)
	require.NoError(t, repo.Save(ctx, SessionRecord{
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		UserID:       "user-1",
		Email:        "a@example.com",
		ExpiresAt:    expires,
	}))

	rec, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "access-1", rec.AccessToken)
	assert.Equal(t, "refresh-1", rec.RefreshToken)
	assert.Equal(t, "user-1", rec.UserID)
	assert.Equal(t, "a@example.com", rec.Email)
	assert.True(t, rec.ExpiresAt.Equal(expires))
	assert.False(t, rec.UpdatedAt.IsZero())

	// Saving again replaces the single row.
	require.NoError(t, repo.Save(ctx, SessionRecord{AccessToken: "access-2", UserID: "user-1"}))
	rec, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", rec.AccessToken)

	var count int
	require.NoError(t, s.DB().QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count))
	assert.Equal(t, 1, count)

	require.NoError(t, repo.Clear(ctx))
	rec, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func appendEvents(t *testing.T, repo RequestRepo, events ...RequestEventData) {
	t.Helper()
	for i, e := range events {
		if err := repo.Append(context.Background(), e); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
}

func TestRequestAppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestRepo()
	ctx := context.Background()

	appendEvents(t, repo,
		RequestEventData{Service: "backend", Method: "POST", Path: "/mentor/chat", StatusCode: 200, LatencyMs: 120, Success: true},
		RequestEventData{Service: "backend", Method: "POST", Path: "/quiz/generate", StatusCode: 500, LatencyMs: 80, ErrorMessage: "boom"},
		RequestEventData{Service: "runner", Method: "POST", Path: "/run", StatusCode: 200, LatencyMs: 40, Success: true},
	)

	all, err := repo.Query(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "/run", all[0].Path, "newest first")
	assert.Equal(t, int64(3), all[0].Sequence)
	assert.Equal(t, int64(1), all[2].Sequence)

	limited, err := repo.Query(ctx, QueryOpts{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	backend, err := repo.Query(ctx, QueryOpts{Service: "backend"})
	require.NoError(t, err)
	assert.Len(t, backend, 2)

	failed, err := repo.Query(ctx, QueryOpts{Failed: true})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "boom", failed[0].ErrorMessage)
	assert.Equal(t, 500, failed[0].StatusCode)

	after, err := repo.Query(ctx, QueryOpts{After: 1, Before: 3})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, int64(2), after[0].Sequence)

	future, err := repo.Query(ctx, QueryOpts{From: time.Now().Add(time.Hour)})
	require.NoError(t, err)
	assert.Empty(t, future)
}

func TestRequestGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestRepo()
	ctx := context.Background()

	appendEvents(t, repo, RequestEventData{
		Service: "supabase", Method: "GET", Path: "/rest/v1/skills",
		StatusCode: 200, Success: true, RequestBody: "", ResponseBody: `[{"id":"s1"}]`,
	})

	events, err := repo.Query(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := repo.Get(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, `[{"id":"s1"}]`, got.ResponseBody)
	assert.Equal(t, "supabase", got.Service)

	missing, err := repo.Get(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRequestBodiesTruncated(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestRepo()

	appendEvents(t, repo, RequestEventData{
		Service: "backend", Method: "POST", Path: "/upload",
		RequestBody: strings.Repeat("x", maxBodyLen+100),
	})

	events, err := repo.Query(context.Background(), QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Len(t, events[0].RequestBody, maxBodyLen)
}

func TestUsageByEndpoint(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestRepo()

	appendEvents(t, repo,
		RequestEventData{Service: "backend", Method: "POST", Path: "/mentor/chat", LatencyMs: 100, Success: true},
		RequestEventData{Service: "backend", Method: "POST", Path: "/mentor/chat", LatencyMs: 300, Success: false},
		RequestEventData{Service: "backend", Method: "POST", Path: "/mentor/chat", LatencyMs: 200, Success: true},
		RequestEventData{Service: "runner", Method: "POST", Path: "/run", LatencyMs: 50, Success: true},
	)

	usage, err := repo.UsageByEndpoint(context.Background())
	require.NoError(t, err)
	require.Len(t, usage, 2)

	assert.Equal(t, "/mentor/chat", usage[0].Path)
	assert.Equal(t, 3, usage[0].Calls)
	assert.Equal(t, 1, usage[0].Failures)
	assert.InDelta(t, 200.0, usage[0].AvgLatencyMs, 0.001)

	assert.Equal(t, "runner", usage[1].Service)
	assert.Equal(t, 1, usage[1].Calls)
	assert.Equal(t, 0, usage[1].Failures)
}

func TestRequestPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestRepo()
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		appendEvents(t, repo, RequestEventData{Service: "backend", Method: "GET", Path: fmt.Sprintf("/p%d", i)})
	}

	require.NoError(t, repo.Prune(ctx, 5))
	events, err := repo.Query(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, events, 5)
	assert.Equal(t, "/p6", events[0].Path, "newest survives")

	// Pruning with more than remain is a no-op.
	require.NoError(t, repo.Prune(ctx, 10))
	events, err = repo.Query(ctx, QueryOpts{})
	require.NoError(t, err)
	assert.Len(t, events, 5)
}

func TestSequenceSurvivesPrune(t *testing.T) {
	s := openTestStore(t)
	repo := s.RequestRepo()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, repo.Append(ctx, RequestEventData{Service: "backend", Path: "/quiz/save", Success: true}))
	}
	require.NoError(t, repo.Prune(ctx, 1))
	require.NoError(t, repo.Append(ctx, RequestEventData{Service: "backend", Path: "/quiz/save", Success: true}))

	all, err := repo.Query(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(5), all[0].Sequence)
	assert.Equal(t, int64(4), all[1].Sequence)
}

func TestDefaultDBPath(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		want := filepath.Join(t.TempDir(), "custom", "x.db")
		t.Setenv("SENSEI_DB", want)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.DirExists(t, filepath.Dir(want))
	})

	t.Run("xdg data home", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("SENSEI_DB", "")
		t.Setenv("XDG_DATA_HOME", dir)
		got, err := DefaultDBPath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "sensei", "sensei.db"), got)
	})
}
