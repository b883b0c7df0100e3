package store

import (
	"context"
	"fmt"

	"github.com/marketgreen/api/internal/supabase"
)

// ProductsInterface defines product data access. Allows mocking in tests.
type ProductsInterface interface {
	List(ctx context.Context) ([]Record, error)
	GetByID(ctx context.Context, id string) (Record, error)
	Create(ctx context.Context, product Record) (Record, error)
	Update(ctx context.Context, id string, updates Record) (Record, error)
	Delete(ctx context.Context, id string) error
}

var _ ProductsInterface = (*Products)(nil)

// Products provides access to the products table. The catalog is public, so
// every call runs with the anon key.
type Products struct {
	client *supabase.Client
}

// NewProducts creates a products repository.
func NewProducts(client *supabase.Client) *Products {
	return &Products{client: client}
}

// List returns all products, newest first.
func (p *Products) List(ctx context.Context) ([]Record, error) {
	var rows []Record
	err := p.client.Database().From("products").
		Order("created_at", true).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if rows == nil {
		rows = []Record{}
	}
	return rows, nil
}

// GetByID fetches one product. Returns ErrNotFound when no row matches.
func (p *Products) GetByID(ctx context.Context, id string) (Record, error) {
	var row Record
	err := p.client.Database().From("products").
		Eq("id", id).
		Single().
		ExecuteInto(ctx, &row)
	if err != nil {
		if isSingleObjectMiss(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return row, nil
}

// Create inserts a product row as supplied. No schema validation beyond what
// the store enforces.
func (p *Products) Create(ctx context.Context, product Record) (Record, error) {
	var row Record
	err := p.client.Database().From("products").
		Insert(product).
		Single().
		ExecuteInto(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return row, nil
}

// Update applies the given fields to a product row.
func (p *Products) Update(ctx context.Context, id string, updates Record) (Record, error) {
	var row Record
	err := p.client.Database().From("products").
		Update(updates).
		Eq("id", id).
		Single().
		ExecuteInto(ctx, &row)
	if err != nil {
		if isSingleObjectMiss(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update product: %w", err)
	}
	return row, nil
}

// Delete removes a product row.
func (p *Products) Delete(ctx context.Context, id string) error {
	_, err := p.client.Database().From("products").
		Delete().
		Eq("id", id).
		Execute(ctx)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}
