package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// maxBodyLen caps the stored request and response bodies.
const maxBodyLen = 16 << 10

var requestEventColumns = []string{
	"id", "sequence", "timestamp", "service", "method", "path", "status_code",
	"latency_ms", "success", "error_message", "request_body", "response_body",
}

type requestRepo struct {
	db *sql.DB
}

// appendRequestEvent stamps the next sequence inside the INSERT so that the
// TUI and a CLI command writing at the same time never share one. Row ids
// are reused after Prune; the sequence is not.
var appendRequestEvent = fmt.Sprintf(
	`INSERT INTO request_events (%s)
	SELECT COALESCE(MAX(sequence), 0) + 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ? FROM request_events`,
	strings.Join(requestEventColumns[1:], ", "))

func (r *requestRepo) Append(ctx context.Context, data RequestEventData) error {
	_, err := r.db.ExecContext(ctx, appendRequestEvent,
		time.Now().UnixMilli(), data.Service, data.Method, data.Path,
		data.StatusCode, data.LatencyMs, data.Success, data.ErrorMessage,
		truncate(data.RequestBody), truncate(data.ResponseBody))
	if err != nil {
		return fmt.Errorf("append request event: %w", err)
	}
	return nil
}

func (r *requestRepo) Query(ctx context.Context, opts QueryOpts) ([]RequestEventRecord, error) {
	sel := builder().Select(requestEventColumns...).
		From(entsql.Table(requestEventsTable.Name)).
		OrderBy(entsql.Desc("sequence"))

	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UnixMilli()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UnixMilli()))
	}
	if opts.Service != "" {
		sel.Where(entsql.EQ("service", opts.Service))
	}
	if opts.Failed {
		sel.Where(entsql.EQ("success", false))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var out []RequestEventRecord
	for rows.Next() {
		rec, err := scanRequestEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, rows.Err()
}

func (r *requestRepo) Get(ctx context.Context, id int) (*RequestEventRecord, error) {
	query, args := builder().Select(requestEventColumns...).
		From(entsql.Table(requestEventsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()
	rec, err := scanRequestEvent(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return rec, err
}

func (r *requestRepo) UsageByEndpoint(ctx context.Context) ([]EndpointUsage, error) {
	query, args := builder().Select(
		"service", "path",
		entsql.As(entsql.Count("*"), "calls"),
		entsql.As("SUM(CASE WHEN success THEN 0 ELSE 1 END)", "failures"),
		entsql.As(entsql.Avg("latency_ms"), "avg_latency"),
	).
		From(entsql.Table(requestEventsTable.Name)).
		GroupBy("service", "path").
		OrderBy(entsql.Desc("calls"), "service", "path").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("usage by endpoint: %w", err)
	}
	defer rows.Close()

	var out []EndpointUsage
	for rows.Next() {
		var u EndpointUsage
		if err := rows.Scan(&u.Service, &u.Path, &u.Calls, &u.Failures, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan usage: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *requestRepo) Prune(ctx context.Context, keep int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM request_events WHERE id NOT IN (
			SELECT id FROM request_events ORDER BY sequence DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("prune request events: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequestEvent(row rowScanner) (*RequestEventRecord, error) {
	var (
		rec RequestEventRecord
		ts  int64
	)
	err := row.Scan(&rec.ID, &rec.Sequence, &ts, &rec.Service, &rec.Method, &rec.Path,
		&rec.StatusCode, &rec.LatencyMs, &rec.Success, &rec.ErrorMessage,
		&rec.RequestBody, &rec.ResponseBody)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan request event: %w", err)
	}
	rec.Timestamp = time.UnixMilli(ts)
	return &rec, nil
}

func truncate(s string) string {
	if len(s) <= maxBodyLen {
		return s
	}
	return s[:maxBodyLen]
}
