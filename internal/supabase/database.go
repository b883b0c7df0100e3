package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// DatabaseClient handles PostgREST data operations.
type DatabaseClient struct {
	client *Client
}

// From starts a query builder for a table.
func (d *DatabaseClient) From(table string) *QueryBuilder {
	return &QueryBuilder{
		client:  d.client,
		table:   table,
		method:  "GET",
		columns: "*",
		headers: make(map[string]string),
	}
}

// QueryBuilder builds and executes PostgREST queries.
type QueryBuilder struct {
	client      *Client
	table       string
	method      string
	columns     string
	filters     []string
	orders      []string
	limitVal    *int
	body        []byte
	headers     map[string]string
	accessToken string
	serviceKey  bool
}

// Select specifies columns to select.
func (q *QueryBuilder) Select(columns string) *QueryBuilder {
	q.method = "GET"
	q.columns = columns
	return q
}

// Insert inserts records and asks PostgREST to return the representation.
func (q *QueryBuilder) Insert(data interface{}) *QueryBuilder {
	q.method = "POST"
	body, _ := json.Marshal(data)
	q.body = body
	q.headers["Prefer"] = "return=representation"
	return q
}

// Update updates matching records.
func (q *QueryBuilder) Update(data interface{}) *QueryBuilder {
	q.method = "PATCH"
	body, _ := json.Marshal(data)
	q.body = body
	q.headers["Prefer"] = "return=representation"
	return q
}

// Delete deletes matching records.
func (q *QueryBuilder) Delete() *QueryBuilder {
	q.method = "DELETE"
	q.headers["Prefer"] = "return=representation"
	return q
}

// Eq adds an equality filter.
func (q *QueryBuilder) Eq(column string, value interface{}) *QueryBuilder {
	q.filters = append(q.filters, fmt.Sprintf("%s=eq.%v", column, value))
	return q
}

// Order adds an order clause; ascending unless desc is true.
func (q *QueryBuilder) Order(column string, desc bool) *QueryBuilder {
	dir := "asc"
	if desc {
		dir = "desc"
	}
	q.orders = append(q.orders, fmt.Sprintf("%s.%s", column, dir))
	return q
}

// Limit sets the maximum number of rows.
func (q *QueryBuilder) Limit(n int) *QueryBuilder {
	q.limitVal = &n
	return q
}

// Single expects exactly one row. PostgREST answers 406 when zero or more
// than one row match.
func (q *QueryBuilder) Single() *QueryBuilder {
	q.headers["Accept"] = "application/vnd.pgrst.object+json"
	return q
}

// WithToken runs the query as the token's user so row-level security applies.
func (q *QueryBuilder) WithToken(token string) *QueryBuilder {
	q.accessToken = token
	return q
}

// WithServiceKey runs the query with the service role key, bypassing RLS.
func (q *QueryBuilder) WithServiceKey() *QueryBuilder {
	q.serviceKey = true
	return q
}

// Execute executes the query and returns the raw response body.
func (q *QueryBuilder) Execute(ctx context.Context) ([]byte, error) {
	urlStr := q.buildURL()

	var respBody []byte
	var statusCode int
	var err error

	switch {
	case q.accessToken != "":
		respBody, statusCode, err = q.client.requestWithToken(ctx, q.method, urlStr, q.body, q.headers, q.accessToken)
	case q.serviceKey:
		respBody, statusCode, err = q.client.requestWithServiceKey(ctx, q.method, urlStr, q.body, q.headers)
	default:
		respBody, statusCode, err = q.client.request(ctx, q.method, urlStr, q.body, q.headers)
	}
	if err != nil {
		return nil, err
	}
	if statusCode >= 400 {
		return nil, parseError(respBody, statusCode)
	}

	return respBody, nil
}

// ExecuteInto executes the query and unmarshals the result into dest.
func (q *QueryBuilder) ExecuteInto(ctx context.Context, dest interface{}) error {
	data, err := q.Execute(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// buildURL builds the request URL with select, filters, order and limit.
func (q *QueryBuilder) buildURL() string {
	urlStr := q.client.restURL + "/" + url.PathEscape(q.table)

	params := make([]string, 0, len(q.filters)+3)
	if q.method == "GET" && q.columns != "" {
		params = append(params, "select="+url.QueryEscape(q.columns))
	}
	params = append(params, q.filters...)
	if len(q.orders) > 0 {
		params = append(params, "order="+strings.Join(q.orders, ","))
	}
	if q.limitVal != nil {
		params = append(params, fmt.Sprintf("limit=%d", *q.limitVal))
	}

	if len(params) > 0 {
		urlStr += "?" + strings.Join(params, "&")
	}

	return urlStr
}
