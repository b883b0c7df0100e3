package store

import (
	"context"
	"fmt"

	"github.com/marketgreen/api/internal/supabase"
)

// ProfilesInterface defines profile data access. Allows mocking in tests.
type ProfilesInterface interface {
	GetByID(ctx context.Context, userToken, id string) (*Profile, error)
	Update(ctx context.Context, userToken, id string, fields Record) (*Profile, error)
	Insert(ctx context.Context, profile *Profile) error
	GetRole(ctx context.Context, id string) (string, error)
}

var _ ProfilesInterface = (*Profiles)(nil)

// Profiles provides access to the profiles table.
type Profiles struct {
	client *supabase.Client
}

// NewProfiles creates a profiles repository.
func NewProfiles(client *supabase.Client) *Profiles {
	return &Profiles{client: client}
}

// GetByID fetches a profile as the calling user, so row-level security
// applies. Returns ErrNotFound when no row matches.
func (p *Profiles) GetByID(ctx context.Context, userToken, id string) (*Profile, error) {
	var profile Profile
	err := p.client.Database().From("profiles").
		Eq("id", id).
		Single().
		WithToken(userToken).
		ExecuteInto(ctx, &profile)
	if err != nil {
		if isSingleObjectMiss(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Update applies the given fields to the caller's profile row. The id and
// role columns are never written from here: the row key is immutable and the
// role is read-only at this layer.
func (p *Profiles) Update(ctx context.Context, userToken, id string, fields Record) (*Profile, error) {
	updates := make(Record, len(fields))
	for k, v := range fields {
		if k == "id" || k == "role" {
			continue
		}
		updates[k] = v
	}
	if len(updates) == 0 {
		return nil, ErrNoUpdatableFields
	}

	var profile Profile
	err := p.client.Database().From("profiles").
		Update(updates).
		Eq("id", id).
		Single().
		WithToken(userToken).
		ExecuteInto(ctx, &profile)
	if err != nil {
		if isSingleObjectMiss(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return &profile, nil
}

// Insert creates the profile row for a freshly registered identity. Runs with
// the service role key when one is configured, since the new user may not
// have a usable session yet.
func (p *Profiles) Insert(ctx context.Context, profile *Profile) error {
	q := p.client.Database().From("profiles").Insert(profile)
	if p.client.HasServiceKey() {
		q = q.WithServiceKey()
	}
	if _, err := q.Execute(ctx); err != nil {
		return fmt.Errorf("insert profile: %w", err)
	}
	return nil
}

// GetRole fetches only the role column for an authorization check. Uses the
// service role key when available so the check cannot be spoofed by RLS
// policies; any error is surfaced to the caller, which must deny.
func (p *Profiles) GetRole(ctx context.Context, id string) (string, error) {
	var row struct {
		Role string `json:"role"`
	}
	q := p.client.Database().From("profiles").
		Select("role").
		Eq("id", id).
		Single()
	if p.client.HasServiceKey() {
		q = q.WithServiceKey()
	}
	if err := q.ExecuteInto(ctx, &row); err != nil {
		return "", fmt.Errorf("get role: %w", err)
	}
	return row.Role, nil
}
