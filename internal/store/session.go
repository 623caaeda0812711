package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// sessionRowID is the fixed primary key of the only session row.
const sessionRowID = 1

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Save(ctx context.Context, rec SessionRecord) error {
	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now()
	}
	query, args := builder().Insert(sessionsTable.Name).
		Columns("id", "access_token", "refresh_token", "user_id", "email", "expires_at", "updated_at").
		Values(sessionRowID, rec.AccessToken, rec.RefreshToken, rec.UserID, rec.Email,
			rec.ExpiresAt.UnixMilli(), rec.UpdatedAt.UnixMilli()).
		OnConflict(entsql.ConflictColumns("id"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Load(ctx context.Context) (*SessionRecord, error) {
	query, args := builder().
		Select("access_token", "refresh_token", "user_id", "email", "expires_at", "updated_at").
		From(entsql.Table(sessionsTable.Name)).
		Where(entsql.EQ("id", sessionRowID)).
		Query()

	var (
		rec                SessionRecord
		expires, updatedAt int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&rec.AccessToken, &rec.RefreshToken, &rec.UserID, &rec.Email, &expires, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	rec.ExpiresAt = time.UnixMilli(expires)
	rec.UpdatedAt = time.UnixMilli(updatedAt)
	return &rec, nil
}

func (r *sessionRepo) Clear(ctx context.Context) error {
	query, args := builder().Delete(sessionsTable.Name).Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
