package supabase

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Query is a PostgREST request under construction. Filters are ANDed.
type Query struct {
	client *Client
	table  string
	token  string
	params url.Values
}

// From starts a query on table, authorized as the holder of token.
func (c *Client) From(table, token string) *Query {
	return &Query{client: c, table: table, token: token, params: url.Values{}}
}

// Select restricts the returned columns.
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq filters on column = value.
func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Order sorts by column.
func (q *Query) Order(column string, desc bool) *Query {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	q.params.Set("order", column+"."+dir)
	return q
}

// Limit caps the number of rows.
func (q *Query) Limit(n int) *Query {
	q.params.Set("limit", strconv.Itoa(n))
	return q
}

func (q *Query) path() string {
	p := "/rest/v1/" + url.PathEscape(q.table)
	if len(q.params) > 0 {
		p += "?" + q.params.Encode()
	}
	return p
}

// List decodes all matching rows into out, a pointer to a slice.
func (q *Query) List(ctx context.Context, out any) error {
	return q.client.do(ctx, call{method: http.MethodGet, path: q.path(), token: q.token}, out)
}

// Single decodes exactly one matching row into out. PostgREST answers 406
// when zero or several rows match.
func (q *Query) Single(ctx context.Context, out any) error {
	return q.client.do(ctx, call{
		method:  http.MethodGet,
		path:    q.path(),
		token:   q.token,
		headers: map[string]string{"Accept": "application/vnd.pgrst.object+json"},
	}, out)
}

// Insert adds row and decodes the stored representation into out when
// non-nil.
func (q *Query) Insert(ctx context.Context, row any, out any) error {
	cl := call{method: http.MethodPost, path: q.path(), token: q.token, body: row}
	if out != nil {
		cl.headers = map[string]string{
			"Prefer": "return=representation",
			"Accept": "application/vnd.pgrst.object+json",
		}
	} else {
		cl.headers = map[string]string{"Prefer": "return=minimal"}
	}
	return q.client.do(ctx, cl, out)
}

// Delete removes matching rows.
func (q *Query) Delete(ctx context.Context) error {
	return q.client.do(ctx, call{method: http.MethodDelete, path: q.path(), token: q.token}, nil)
}
