package gateway

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vrclassroom/mentor-gateway/internal/config"
	"github.com/vrclassroom/mentor-gateway/internal/httputil"
	"github.com/vrclassroom/mentor-gateway/internal/origin"
	"github.com/vrclassroom/mentor-gateway/internal/ratelimit"
	"github.com/vrclassroom/mentor-gateway/internal/telemetry"
)

// NewRouter wires the full middleware chain and the two routes. Stage order
// within a request is fixed: origin check, then rate limit, then the handler's
// own validation and completion call. Both routes share the whole chain.
func NewRouter(handler *Handler, validator *origin.Validator, limiter ratelimit.Limiter, cfg config.RateLimitConfig, metrics *telemetry.Metrics) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestIDMiddleware)
	r.Use(httputil.SecurityHeaders)
	r.Use(origin.Middleware(validator, metrics))
	r.Use(ratelimit.Middleware(limiter, cfg.MaxRequests, cfg.Window, metrics))

	r.Get("/health", handler.Health)
	r.Post("/ask", handler.Ask)

	return r
}

func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = generateRequestID()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), requestIDKey, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type contextKey string

const requestIDKey contextKey = "request_id"

func generateRequestID() string {
	now := time.Now()
	b := make([]byte, 8)
	rand.Read(b)
	return fmt.Sprintf("req_%d_%s", now.UnixMilli(), hex.EncodeToString(b))
}
