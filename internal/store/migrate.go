package store

import (
	"context"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions in the shape ent's migrator expects. Timestamps are
// stored as Unix milliseconds.
var (
	sessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "access_token", Type: field.TypeString, Size: 2147483647},
		{Name: "refresh_token", Type: field.TypeString, Size: 2147483647},
		{Name: "user_id", Type: field.TypeString},
		{Name: "email", Type: field.TypeString, Default: ""},
		{Name: "expires_at", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	sessionsTable = &schema.Table{
		Name:       "sessions",
		Columns:    sessionsColumns,
		PrimaryKey: []*schema.Column{sessionsColumns[0]},
	}

	requestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "service", Type: field.TypeString},
		{Name: "method", Type: field.TypeString},
		{Name: "path", Type: field.TypeString},
		{Name: "status_code", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	requestEventsTable = &schema.Table{
		Name:       "request_events",
		Columns:    requestEventsColumns,
		PrimaryKey: []*schema.Column{requestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "requestevent_timestamp", Columns: []*schema.Column{requestEventsColumns[2]}},
			{Name: "requestevent_path", Columns: []*schema.Column{requestEventsColumns[5]}},
		},
	}

	tables = []*schema.Table{sessionsTable, requestEventsTable}
)

// migrate creates or updates all tables.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	return m.Create(ctx, tables...)
}
