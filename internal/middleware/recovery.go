package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/mux"

	"github.com/marketgreen/api/internal/errors"
	"github.com/marketgreen/api/internal/httputil"
	"github.com/marketgreen/api/internal/logging"
)

// Recovery converts panics into 500 responses. The stack trace is always
// logged; it is only included in the response body when exposeDetails is
// set, which should never be the case in production.
func Recovery(logger *logging.Logger, exposeDetails bool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					stack := debug.Stack()
					logger.WithContext(r.Context()).WithFields(map[string]interface{}{
						"panic": fmt.Sprintf("%v", rec),
						"stack": string(stack),
					}).Error("panic recovered in handler")

					if !exposeDetails {
						httputil.InternalError(w, "Internal server error")
						return
					}
					serr := errors.Internal("Internal server error", nil).
						WithDetails("panic", fmt.Sprintf("%v", rec)).
						WithDetails("stack", string(stack))
					httputil.WriteServiceError(w, serr)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
