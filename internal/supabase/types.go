// Package supabase provides a thin Supabase REST client covering the GoTrue
// auth API and the PostgREST data API.
package supabase

import (
	"encoding/json"
	"strings"
	"time"
)

// User represents a Supabase user.
type User struct {
	ID               string                 `json:"id"`
	Aud              string                 `json:"aud,omitempty"`
	Role             string                 `json:"role,omitempty"`
	Email            string                 `json:"email"`
	EmailConfirmedAt *time.Time             `json:"email_confirmed_at,omitempty"`
	Phone            string                 `json:"phone,omitempty"`
	ConfirmedAt      *time.Time             `json:"confirmed_at,omitempty"`
	LastSignInAt     *time.Time             `json:"last_sign_in_at,omitempty"`
	AppMetadata      map[string]interface{} `json:"app_metadata,omitempty"`
	UserMetadata     map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// Session represents an auth session issued by GoTrue.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// SignUpRequest for user registration. Data is stored as user metadata.
type SignUpRequest struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// Error represents a Supabase API error. Code carries the structured error
// code when the provider sends one: GoTrue `error_code` values such as
// "user_already_exists", or PostgREST codes such as "PGRST116".
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Hint       string `json:"hint,omitempty"`
	StatusCode int    `json:"status_code"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// parseError parses a GoTrue or PostgREST error body. The two APIs use
// different field names, so every known variant is tried before falling back
// to the raw body.
func parseError(body []byte, statusCode int) error {
	var errResp struct {
		Code             json.RawMessage `json:"code"` // numeric in GoTrue, string in PostgREST
		ErrorCode        string          `json:"error_code"`
		Msg              string          `json:"msg"`
		Message          string          `json:"message"`
		Details          string          `json:"details"`
		Hint             string          `json:"hint"`
		Error            string          `json:"error"`
		ErrorDescription string          `json:"error_description"`
	}

	if err := json.Unmarshal(body, &errResp); err != nil {
		return &Error{
			Code:       "unknown",
			Message:    strings.TrimSpace(string(body)),
			StatusCode: statusCode,
		}
	}

	code := errResp.ErrorCode
	if code == "" && len(errResp.Code) > 0 && errResp.Code[0] == '"' {
		_ = json.Unmarshal(errResp.Code, &code)
	}

	msg := errResp.Message
	if msg == "" {
		msg = errResp.Msg
	}
	if msg == "" {
		msg = errResp.Error
	}
	if msg == "" {
		msg = errResp.ErrorDescription
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}

	return &Error{
		Code:       code,
		Message:    msg,
		Details:    errResp.Details,
		Hint:       errResp.Hint,
		StatusCode: statusCode,
	}
}
