package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/marketgreen/api/internal/auth"
	"github.com/marketgreen/api/internal/errors"
	"github.com/marketgreen/api/internal/httputil"
	"github.com/marketgreen/api/internal/logging"
	"github.com/marketgreen/api/internal/store"
	"github.com/marketgreen/api/internal/supabase"
	"github.com/marketgreen/api/internal/validation"
)

// AuthProvider is the slice of the GoTrue client the auth handlers need.
type AuthProvider interface {
	SignUp(ctx context.Context, req supabase.SignUpRequest) (*supabase.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*supabase.Session, error)
	RefreshToken(ctx context.Context, refreshToken string) (*supabase.Session, error)
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
	SignOut(ctx context.Context, accessToken string) error
}

// AuthHandler serves registration, login, logout, refresh and identity
// lookup.
type AuthHandler struct {
	provider AuthProvider
	profiles store.ProfilesInterface
	logger   *logging.Logger
}

// NewAuthHandler creates the auth handler group.
func NewAuthHandler(provider AuthProvider, profiles store.ProfilesInterface, logger *logging.Logger) *AuthHandler {
	return &AuthHandler{provider: provider, profiles: profiles, logger: logger}
}

type signupRequest struct {
	Email           string `json:"email"`
	Username        string `json:"username"`
	Password        string `json:"password"`
	MarketingEmails bool   `json:"marketingEmails"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Signup registers a new identity and then best-effort inserts the profile
// row. A profile insert failure is logged and swallowed: the identity
// registration is never rolled back over it.
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	if serr := validateSignup(req); serr != nil {
		httputil.WriteServiceError(w, serr)
		return
	}

	session, err := h.provider.SignUp(r.Context(), supabase.SignUpRequest{
		Email:    req.Email,
		Password: req.Password,
		Data: map[string]interface{}{
			"username": req.Username,
		},
	})
	if err != nil {
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}

	if session.User != nil {
		profile := &store.Profile{
			ID:              session.User.ID,
			Username:        req.Username,
			Email:           req.Email,
			MarketingEmails: req.MarketingEmails,
		}
		if err := h.profiles.Insert(r.Context(), profile); err != nil {
			h.logger.WithContext(r.Context()).WithError(err).
				Warn("profile insert failed after signup; identity kept without profile")
		}
	}

	// session is null in the response until the email is confirmed.
	var sessionOut *supabase.Session
	if session.AccessToken != "" {
		sessionOut = session
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"message": "User registered successfully",
		"user":    session.User,
		"session": sessionOut,
	})
}

// validateSignup runs the field validators and reports the first failing
// field with its complete error list.
func validateSignup(req signupRequest) *errors.ServiceError {
	if res := validation.Email(req.Email); !res.Valid {
		return errors.InvalidInput(res.Error()).
			WithDetails("field", "email").
			WithDetails("errors", res.Errors)
	}
	if res := validation.Username(req.Username); !res.Valid {
		return errors.InvalidInput(res.Error()).
			WithDetails("field", "username").
			WithDetails("errors", res.Errors)
	}
	if res := validation.Password(req.Password); !res.Valid {
		return errors.InvalidInput(res.Error()).
			WithDetails("field", "password").
			WithDetails("errors", res.Errors)
	}
	return nil
}

// Login exchanges email/password for a session.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}

	if req.Email == "" || req.Password == "" {
		httputil.BadRequest(w, "Email and password are required")
		return
	}

	session, err := h.provider.SignInWithPassword(r.Context(), req.Email, req.Password)
	if err != nil {
		httputil.WriteServiceError(w, mapProviderError(err))
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Login successful",
		"user":    session.User,
		"session": session,
	})
}

// Logout revokes the caller's session when a token is supplied. A missing
// token is not an error: the endpoint is idempotent from the client's view.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := bearerToken(r); token != "" {
		if err := h.provider.SignOut(r.Context(), token); err != nil {
			serr := mapProviderError(err)
			// Logout failures surface as 400, matching the rest of the
			// provider pass-through endpoints.
			if serr.HTTPStatus >= 500 {
				httputil.WriteServiceError(w, serr)
				return
			}
			httputil.BadRequest(w, serr.Message)
			return
		}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Logout successful",
	})
}

// Refresh exchanges a refresh token for a new session.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !httputil.DecodeJSON(w, r, &req) {
		return
	}
	if req.RefreshToken == "" {
		httputil.BadRequest(w, "Refresh token is required")
		return
	}

	session, err := h.provider.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		serr := mapProviderError(err)
		if serr.HTTPStatus < 500 {
			httputil.Unauthorized(w, serr.Message)
			return
		}
		httputil.WriteServiceError(w, serr)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"session": session,
	})
}

// Me returns the authenticated identity. Runs behind the auth gate.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	if user == nil {
		httputil.Unauthorized(w, "Authentication required")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// bearerToken pulls a token out of the Authorization header, with or
// without the Bearer prefix.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) >= 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
