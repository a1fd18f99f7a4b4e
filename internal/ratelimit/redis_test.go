package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestRedisLimiter_NilClient_FailOpen(t *testing.T) {
	l := NewRedisLimiter(nil, 30, time.Minute)
	result, err := l.Check(context.Background(), "10.0.0.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed {
		t.Error("expected allowed when Redis is nil")
	}
	if result.Remaining != 29 {
		t.Errorf("expected remaining=29, got %d", result.Remaining)
	}
}

func TestRedisLimiter_NilClient_MultipleChecks(t *testing.T) {
	l := NewRedisLimiter(nil, 10, time.Minute)
	// Without Redis, every check passes (fail open)
	for i := 0; i < 100; i++ {
		result, _ := l.Check(context.Background(), "10.0.0.1")
		if !result.Allowed {
			t.Fatalf("expected allowed on check %d", i)
		}
	}
}
