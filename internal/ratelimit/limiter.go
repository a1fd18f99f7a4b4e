// Package ratelimit throttles requests per client identity within a trailing
// time window. Two stores implement the same contract: an in-process
// mutex-guarded map for single-instance deployments, and a Redis-backed
// sliding window when replicas must share counters.
package ratelimit

import (
	"context"
	"time"
)

// Result is the outcome of a rate limit check.
type Result struct {
	Allowed    bool
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Limiter decides whether the current request from a client identity is
// within quota, updating counters as a side effect.
type Limiter interface {
	Check(ctx context.Context, key string) (Result, error)
}
