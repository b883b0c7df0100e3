package auth

import (
	"context"

	"github.com/marketgreen/api/internal/supabase"
)

type contextKey string

const (
	userContextKey contextKey = "supabase_user"
	// tokenContextKey stores the raw bearer token so store calls can run
	// under the caller's row-level security.
	tokenContextKey contextKey = "supabase_token"
)

// WithUser attaches the authenticated user to the context.
func WithUser(ctx context.Context, user *supabase.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext retrieves the authenticated user, or nil.
func UserFromContext(ctx context.Context) *supabase.User {
	user, ok := ctx.Value(userContextKey).(*supabase.User)
	if !ok {
		return nil
	}
	return user
}

// WithToken attaches the raw bearer token to the context.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// TokenFromContext retrieves the bearer token, or "".
func TokenFromContext(ctx context.Context) string {
	token, ok := ctx.Value(tokenContextKey).(string)
	if !ok {
		return ""
	}
	return token
}
