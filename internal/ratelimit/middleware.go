package ratelimit

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/vrclassroom/mentor-gateway/internal/httputil"
	"github.com/vrclassroom/mentor-gateway/internal/telemetry"
)

const (
	headerRateLimitRequests          = "X-RateLimit-Limit-Requests"
	headerRateLimitRemainingRequests = "X-RateLimit-Remaining-Requests"
	headerRateLimitReset             = "X-RateLimit-Reset-Requests"
	headerRetryAfter                 = "Retry-After"
)

// clientKey derives the rate-limit identity from the request's remote
// address. chi's RealIP middleware has already resolved proxy headers.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Middleware enforces the per-client quota on every route it wraps,
// including the health endpoint.
func Middleware(limiter Limiter, limit int64, window time.Duration, metrics *telemetry.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := w.Header().Get("X-Request-ID")
			key := clientKey(r)

			result, _ := limiter.Check(r.Context(), key)

			w.Header().Set(headerRateLimitRequests, strconv.FormatInt(limit, 10))
			w.Header().Set(headerRateLimitRemainingRequests, strconv.FormatInt(result.Remaining, 10))
			w.Header().Set(headerRateLimitReset, result.ResetAt.Format(time.RFC3339))

			if !result.Allowed {
				slog.Warn("rate limit exceeded",
					"request_id", reqID,
					"client", key,
					"limit", limit,
					"path", r.URL.Path,
				)
				if metrics != nil {
					metrics.RecordRateLimitHit()
				}
				if result.RetryAfter > 0 {
					w.Header().Set(headerRetryAfter, strconv.Itoa(int(result.RetryAfter.Seconds())))
				}
				httputil.WriteError(w, reqID, httputil.RateLimited(
					fmt.Sprintf("rate limit exceeded: %d requests per %s", limit, window)))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
