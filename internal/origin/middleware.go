package origin

import (
	"log/slog"
	"net/http"

	"github.com/vrclassroom/mentor-gateway/internal/httputil"
	"github.com/vrclassroom/mentor-gateway/internal/telemetry"
)

// Middleware rejects requests from non-allowlisted origins before anything
// else in the pipeline runs. Allowed browser origins get the CORS response
// headers echoed back, and preflight requests are answered here.
func Middleware(v *Validator, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")
			declared := r.Header.Get("Origin")

			if !v.Allow(declared) {
				slog.Warn("origin denied",
					"request_id", reqID,
					"origin", declared,
					"path", r.URL.Path,
				)
				if metrics != nil {
					metrics.RecordOriginDenied()
				}
				httputil.WriteError(w, reqID, httputil.OriginDenied("CORS blocked"))
				return
			}

			if declared != "" {
				h := w.Header()
				h.Set("Access-Control-Allow-Origin", declared)
				h.Set("Vary", "Origin")
				if r.Method == http.MethodOptions {
					h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
					h.Set("Access-Control-Allow-Headers", "Content-Type")
					w.WriteHeader(http.StatusNoContent)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
