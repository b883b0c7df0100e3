package api

import (
	stderrors "errors"
	"net/http"

	"github.com/marketgreen/api/internal/auth"
	"github.com/marketgreen/api/internal/httputil"
	"github.com/marketgreen/api/internal/store"
)

// UsersHandler serves the caller's own profile.
type UsersHandler struct {
	profiles store.ProfilesInterface
}

// NewUsersHandler creates the users handler group.
func NewUsersHandler(profiles store.ProfilesInterface) *UsersHandler {
	return &UsersHandler{profiles: profiles}
}

// GetProfile returns the profile row for the authenticated identity.
func (h *UsersHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.Unauthorized(w, "Authentication required")
		return
	}

	profile, err := h.profiles.GetByID(r.Context(), auth.TokenFromContext(r.Context()), user.ID)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			httputil.NotFound(w, "Profile not found")
			return
		}
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}

// UpdateProfile applies caller-supplied fields to the caller's profile row.
// The store strips id and role before the update reaches PostgREST.
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.Unauthorized(w, "Authentication required")
		return
	}

	var fields store.Record
	if !httputil.DecodeJSON(w, r, &fields) {
		return
	}

	profile, err := h.profiles.Update(r.Context(), auth.TokenFromContext(r.Context()), user.ID, fields)
	if err != nil {
		if stderrors.Is(err, store.ErrNotFound) {
			httputil.NotFound(w, "Profile not found")
			return
		}
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, profile)
}
