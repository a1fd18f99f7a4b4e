package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Error is a pipeline failure tagged with its HTTP status at construction time.
// Failure sites build errors through the constructors below instead of matching
// on message text to decide the response status.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string { return e.Message }

// OriginDenied marks a request whose declared origin is not allowlisted.
func OriginDenied(message string) *Error {
	return &Error{Status: http.StatusForbidden, Code: "origin_denied", Message: message}
}

// RateLimited marks a request that exceeded the client's quota.
func RateLimited(message string) *Error {
	return &Error{Status: http.StatusTooManyRequests, Code: "rate_limit_exceeded", Message: message}
}

// Validation marks a malformed or out-of-range request body.
func Validation(message string) *Error {
	return &Error{Status: http.StatusBadRequest, Code: "invalid_request", Message: message}
}

// Upstream marks a completion-provider failure after the retry, or a deadline expiry.
func Upstream(message string) *Error {
	return &Error{Status: http.StatusInternalServerError, Code: "upstream_error", Message: message}
}

// Classify maps any failure surfaced by the pipeline to a tagged Error.
// Tagged errors pass through unchanged; an oversized body is a validation
// failure; everything else becomes a 500 carrying its own description.
func Classify(err error) *Error {
	var tagged *Error
	if errors.As(err, &tagged) {
		return tagged
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return Validation("request body too large")
	}
	return &Error{Status: http.StatusInternalServerError, Code: "internal_error", Message: err.Error()}
}

type errorResponse struct {
	Error string `json:"error"`
}

// WriteError classifies err and writes the uniform {"error": string} response.
func WriteError(w http.ResponseWriter, requestID string, err error) {
	apiErr := Classify(err)
	w.Header().Set("Content-Type", "application/json")
	if requestID != "" {
		w.Header().Set("X-Request-ID", requestID)
	}
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(errorResponse{Error: apiErr.Message})
}
