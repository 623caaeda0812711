package store

import (
	"context"
	"time"
)

// QueryOpts configures request event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Service string    // exact match when non-empty
	Failed  bool      // only unsuccessful requests
}

// SessionRecord is the persisted login session.
type SessionRecord struct {
	AccessToken  string
	RefreshToken string
	UserID       string
	Email        string
	ExpiresAt    time.Time
	UpdatedAt    time.Time
}

// SessionRepo persists the single signed-in session.
type SessionRepo interface {
	// Save replaces the stored session.
	Save(ctx context.Context, rec SessionRecord) error

	// Load returns the stored session, or nil if nobody is signed in.
	Load(ctx context.Context) (*SessionRecord, error)

	// Clear removes the stored session.
	Clear(ctx context.Context) error
}

// RequestEventData captures one call to the backend, the code runner or
// Supabase.
type RequestEventData struct {
	Service      string
	Method       string
	Path         string
	StatusCode   int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// RequestEventRecord is a RequestEventData as stored.
type RequestEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	RequestEventData
}

// EndpointUsage aggregates request events per service and path.
type EndpointUsage struct {
	Service      string
	Path         string
	Calls        int
	Failures     int
	AvgLatencyMs float64
}

// RequestRepo provides append and query access to the request audit log.
type RequestRepo interface {
	// Append records a request event.
	Append(ctx context.Context, data RequestEventData) error

	// Query returns events newest first.
	Query(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error)

	// Get returns a single event by ID, or nil if it does not exist.
	Get(ctx context.Context, id int) (*RequestEventRecord, error)

	// UsageByEndpoint aggregates events per service and path, busiest first.
	UsageByEndpoint(ctx context.Context) ([]EndpointUsage, error)

	// Prune deletes all but the N most recent events.
	Prune(ctx context.Context, keep int) error
}
