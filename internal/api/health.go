package api

import (
	"net/http"
	"time"

	"github.com/marketgreen/api/internal/httputil"
)

// Health reports liveness. It deliberately probes nothing upstream: a
// Supabase outage should show up as failing API calls, not as a flapping
// health check taking the whole deployment out of rotation.
func Health(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"status":    "OK",
			"service":   "marketgreen-api",
			"version":   version,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
