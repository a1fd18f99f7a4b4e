// Package gateway composes the request pipeline into the HTTP endpoints.
package gateway

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/vrclassroom/mentor-gateway/internal/httputil"
	"github.com/vrclassroom/mentor-gateway/internal/telemetry"
	"github.com/vrclassroom/mentor-gateway/internal/types"
)

// Completer answers a validated question. Satisfied by *completion.Client.
type Completer interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Handler holds dependencies for the gateway HTTP handlers.
type Handler struct {
	completer    Completer
	metrics      *telemetry.Metrics
	maxBodyBytes int64
}

func NewHandler(completer Completer, metrics *telemetry.Metrics, maxBodyBytes int64) *Handler {
	return &Handler{
		completer:    completer,
		metrics:      metrics,
		maxBodyBytes: maxBodyBytes,
	}
}

// Health handles GET /health. It sits behind the same middleware chain as
// every other route, rate limiting included.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

// Ask handles POST /ask: cap the body, validate, complete, respond. Every
// failure goes through the same classifier.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	receivedAt := time.Now()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.fail(w, r, reqID, receivedAt, err)
		return
	}
	defer r.Body.Close()

	var askReq types.AskRequest
	if err := json.Unmarshal(body, &askReq); err != nil {
		h.fail(w, r, reqID, receivedAt, httputil.Validation("invalid JSON body"))
		return
	}
	if err := askReq.Validate(); err != nil {
		h.fail(w, r, reqID, receivedAt, err)
		return
	}

	answer, err := h.completer.Ask(r.Context(), askReq.Question)
	if err != nil {
		h.fail(w, r, reqID, receivedAt, err)
		return
	}

	duration := time.Since(receivedAt)
	slog.Info("request completed",
		"request_id", reqID,
		"question_len", len(askReq.Question),
		"user_name", askReq.UserName,
		"duration_ms", duration.Milliseconds(),
		"status_code", http.StatusOK,
	)
	if h.metrics != nil {
		h.metrics.RecordRequest(r.URL.Path, "200", float64(duration.Milliseconds()))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(types.AskResponse{Answer: answer})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, reqID string, receivedAt time.Time, err error) {
	apiErr := httputil.Classify(err)
	slog.Warn("request failed",
		"request_id", reqID,
		"status_code", apiErr.Status,
		"code", apiErr.Code,
		"error", apiErr.Message,
		"duration_ms", time.Since(receivedAt).Milliseconds(),
	)
	if h.metrics != nil {
		h.metrics.RecordRequest(r.URL.Path, strconv.Itoa(apiErr.Status), float64(time.Since(receivedAt).Milliseconds()))
	}
	httputil.WriteError(w, reqID, apiErr)
}
