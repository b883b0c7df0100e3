// Package store provides typed access to the Supabase-hosted tables backing
// profiles, products and orders.
package store

import (
	"errors"
	"time"

	"github.com/marketgreen/api/internal/supabase"
)

// ErrNotFound is returned by single-record lookups with no matching row.
var ErrNotFound = errors.New("record not found")

// ErrNoUpdatableFields is returned when an update payload is empty after
// read-only columns are stripped.
var ErrNoUpdatableFields = errors.New("no updatable fields")

// Record is a schemaless row. Products and orders carry arbitrary attribute
// sets; the store does not validate them beyond what Postgres enforces.
type Record map[string]interface{}

// Profile is the application-side account record, 1:1 with the identity that
// produced it.
type Profile struct {
	ID              string     `json:"id"`
	Username        string     `json:"username,omitempty"`
	Email           string     `json:"email,omitempty"`
	Role            string     `json:"role,omitempty"`
	MarketingEmails bool       `json:"marketing_emails"`
	CreatedAt       *time.Time `json:"created_at,omitempty"`
}

// OrderStatusPending is the status every new order is created with.
const OrderStatusPending = "pending"

// isSingleObjectMiss reports whether err is PostgREST's "zero or multiple
// rows" answer to a single-object request.
func isSingleObjectMiss(err error) bool {
	var sbErr *supabase.Error
	if !errors.As(err, &sbErr) {
		return false
	}
	return sbErr.Code == "PGRST116" || sbErr.StatusCode == 406
}
