// Package api contains the HTTP handlers and router for the MarketGreen
// storefront backend. Handlers are stateless: each one validates input,
// issues one or two calls against Supabase, and maps the result to JSON.
package api

import (
	stderrors "errors"
	"strings"

	"github.com/marketgreen/api/internal/errors"
	"github.com/marketgreen/api/internal/store"
	"github.com/marketgreen/api/internal/supabase"
)

// providerCodeMap maps structured Supabase error codes to service errors.
// GoTrue sends `error_code`, PostgREST sends SQLSTATE or PGRST codes; both
// land in supabase.Error.Code, which is preferred over message matching.
var providerCodeMap = map[string]func(message string) *errors.ServiceError{
	// GoTrue
	"user_already_exists":        errors.Conflict,
	"email_exists":               errors.Conflict,
	"invalid_credentials":        errors.Unauthorized,
	"email_not_confirmed":        errors.Forbidden,
	"over_request_rate_limit":    errors.RateLimited,
	"over_email_send_rate_limit": errors.RateLimited,
	"validation_failed":          errors.InvalidInput,
	"weak_password":              errors.InvalidInput,
	"user_not_found":             errors.NotFound,
	"session_not_found":          errors.Unauthorized,
	"refresh_token_not_found":    errors.Unauthorized,
	"bad_jwt":                    errors.Unauthorized,

	// PostgREST / Postgres
	"PGRST116": errors.NotFound,
	"23505":    errors.Conflict, // unique_violation
	"23503":    errors.InvalidInput,
}

// mapProviderError translates a Supabase client failure to a ServiceError.
// Structured codes win; the "already registered" substring is kept only as a
// fallback for older GoTrue versions that send no error_code on duplicate
// signups.
func mapProviderError(err error) *errors.ServiceError {
	if err == nil {
		return nil
	}
	if serr := errors.GetServiceError(err); serr != nil {
		return serr
	}
	if stderrors.Is(err, store.ErrNotFound) {
		return errors.NotFound("Record not found")
	}
	if stderrors.Is(err, store.ErrNoUpdatableFields) {
		return errors.InvalidInput("No updatable fields in request body")
	}

	var perr *supabase.Error
	if stderrors.As(err, &perr) {
		if mk, ok := providerCodeMap[perr.Code]; ok {
			return mk(perr.Message)
		}
		if strings.Contains(strings.ToLower(perr.Message), "already registered") {
			return errors.Conflict(perr.Message)
		}
		switch {
		case perr.StatusCode == 401:
			return errors.Unauthorized(perr.Message)
		case perr.StatusCode == 403:
			return errors.Forbidden(perr.Message)
		case perr.StatusCode == 404:
			return errors.NotFound(perr.Message)
		case perr.StatusCode == 429:
			return errors.RateLimited(perr.Message)
		case perr.StatusCode >= 400 && perr.StatusCode < 500:
			return errors.InvalidInput(perr.Message)
		}
		return errors.Internal("Upstream service error", err)
	}

	return errors.Internal("Internal server error", err)
}
