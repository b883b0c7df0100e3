// Package httputil provides JSON request/response helpers shared by all handlers.
package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/marketgreen/api/internal/errors"
)

// ErrorBody is the wire shape of every error response.
type ErrorBody struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// WriteErrorResponse writes a structured error body.
func WriteErrorResponse(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	WriteJSON(w, status, ErrorBody{Error: message, Code: code, Details: details})
}

// WriteServiceError writes a *ServiceError using its own status and code.
func WriteServiceError(w http.ResponseWriter, err *errors.ServiceError) {
	WriteErrorResponse(w, err.HTTPStatus, string(err.Code), err.Message, err.Details)
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	WriteServiceError(w, errors.InvalidInput(message))
}

// Unauthorized writes a 401 response.
func Unauthorized(w http.ResponseWriter, message string) {
	WriteServiceError(w, errors.Unauthorized(message))
}

// Forbidden writes a 403 response.
func Forbidden(w http.ResponseWriter, message string) {
	WriteServiceError(w, errors.Forbidden(message))
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string) {
	WriteServiceError(w, errors.NotFound(message))
}

// InternalError writes a 500 response with a generic message.
func InternalError(w http.ResponseWriter, message string) {
	WriteServiceError(w, errors.Internal(message, nil))
}

// maxRequestBodyBytes bounds inbound JSON bodies.
const maxRequestBodyBytes = 1 << 20 // 1 MiB

// DecodeJSON decodes the request body into v. On failure it writes a 400 and
// returns false; callers just return.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if r.Body == nil {
		BadRequest(w, "Request body is required")
		return false
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodyBytes))
	if err := dec.Decode(v); err != nil {
		BadRequest(w, "Invalid JSON body")
		return false
	}
	return true
}

// ReadAllWithLimit reads at most limit bytes, reporting whether the body was
// truncated.
func ReadAllWithLimit(r io.Reader, limit int64) ([]byte, bool, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(data)) > limit {
		return data[:limit], true, nil
	}
	return data, false, nil
}

// ReadAllStrict reads at most limit bytes and fails if the body exceeds it.
func ReadAllStrict(r io.Reader, limit int64) ([]byte, error) {
	data, truncated, err := ReadAllWithLimit(r, limit)
	if err != nil {
		return nil, err
	}
	if truncated {
		return nil, fmt.Errorf("response body exceeds %d bytes", limit)
	}
	return data, nil
}
