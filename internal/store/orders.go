package store

import (
	"context"
	"fmt"

	"github.com/marketgreen/api/internal/supabase"
)

// OrdersInterface defines order data access. Allows mocking in tests.
type OrdersInterface interface {
	ListByUser(ctx context.Context, userToken, userID string) ([]Record, error)
	GetByIDForUser(ctx context.Context, userToken, id, userID string) (Record, error)
	Create(ctx context.Context, userToken, userID string, order Record) (Record, error)
	UpdateStatus(ctx context.Context, id, status string) (Record, error)
}

var _ OrdersInterface = (*Orders)(nil)

// Orders provides access to the orders table. Owned reads and writes run as
// the calling user so row-level security applies.
type Orders struct {
	client *supabase.Client
}

// NewOrders creates an orders repository.
func NewOrders(client *supabase.Client) *Orders {
	return &Orders{client: client}
}

// ListByUser returns the caller's orders, newest first.
func (o *Orders) ListByUser(ctx context.Context, userToken, userID string) ([]Record, error) {
	var rows []Record
	err := o.client.Database().From("orders").
		Eq("user_id", userID).
		Order("created_at", true).
		WithToken(userToken).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if rows == nil {
		rows = []Record{}
	}
	return rows, nil
}

// GetByIDForUser fetches one order scoped to its owner. Returns ErrNotFound
// when no row matches both id and owner.
func (o *Orders) GetByIDForUser(ctx context.Context, userToken, id, userID string) (Record, error) {
	var row Record
	err := o.client.Database().From("orders").
		Eq("id", id).
		Eq("user_id", userID).
		Single().
		WithToken(userToken).
		ExecuteInto(ctx, &row)
	if err != nil {
		if isSingleObjectMiss(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return row, nil
}

// Create inserts an order for the caller. The owner reference is set exactly
// once here and the status always starts out pending, whatever the payload
// said.
func (o *Orders) Create(ctx context.Context, userToken, userID string, order Record) (Record, error) {
	rec := make(Record, len(order)+2)
	for k, v := range order {
		rec[k] = v
	}
	rec["user_id"] = userID
	rec["status"] = OrderStatusPending

	var row Record
	err := o.client.Database().From("orders").
		Insert(rec).
		Single().
		WithToken(userToken).
		ExecuteInto(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return row, nil
}

// UpdateStatus sets the status of any order by id. There is deliberately no
// ownership or role check here; see the route that calls it.
func (o *Orders) UpdateStatus(ctx context.Context, id, status string) (Record, error) {
	var row Record
	err := o.client.Database().From("orders").
		Update(Record{"status": status}).
		Eq("id", id).
		Single().
		ExecuteInto(ctx, &row)
	if err != nil {
		if isSingleObjectMiss(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update order status: %w", err)
	}
	return row, nil
}
