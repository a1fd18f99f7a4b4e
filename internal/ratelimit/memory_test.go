package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestMemoryLimiter_QuotaEnforced(t *testing.T) {
	l := NewMemoryLimiter(30, time.Minute)
	ctx := context.Background()

	for i := 0; i < 30; i++ {
		result, err := l.Check(ctx, "10.0.0.1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !result.Allowed {
			t.Fatalf("request %d should be within quota", i+1)
		}
	}

	// 31st request in the same window is denied
	result, _ := l.Check(ctx, "10.0.0.1")
	if result.Allowed {
		t.Error("31st request should be denied")
	}
	if result.Remaining != 0 {
		t.Errorf("expected remaining=0, got %d", result.Remaining)
	}
	if result.RetryAfter <= 0 {
		t.Error("denied result should carry a positive RetryAfter")
	}
}

func TestMemoryLimiter_WindowReset(t *testing.T) {
	l := NewMemoryLimiter(2, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	l.Check(ctx, "10.0.0.1")
	l.Check(ctx, "10.0.0.1")
	if result, _ := l.Check(ctx, "10.0.0.1"); result.Allowed {
		t.Fatal("third request within window should be denied")
	}

	// After the window elapses the count resets
	now = now.Add(time.Minute)
	if result, _ := l.Check(ctx, "10.0.0.1"); !result.Allowed {
		t.Error("request after window elapse should be allowed")
	}
}

func TestMemoryLimiter_KeysIndependent(t *testing.T) {
	l := NewMemoryLimiter(1, time.Minute)
	ctx := context.Background()

	if result, _ := l.Check(ctx, "10.0.0.1"); !result.Allowed {
		t.Fatal("first client's first request should be allowed")
	}
	if result, _ := l.Check(ctx, "10.0.0.1"); result.Allowed {
		t.Fatal("first client's second request should be denied")
	}
	if result, _ := l.Check(ctx, "10.0.0.2"); !result.Allowed {
		t.Error("second client has its own window")
	}
}

func TestMemoryLimiter_SweepsIdleEntries(t *testing.T) {
	l := NewMemoryLimiter(5, time.Minute)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		l.Check(ctx, string(rune('a'+i%26))+"-client")
	}

	now = now.Add(2 * time.Minute)
	l.Check(ctx, "fresh-client")

	l.mu.Lock()
	size := len(l.clients)
	l.mu.Unlock()
	if size != 1 {
		t.Errorf("expected idle entries reclaimed, map has %d entries", size)
	}
}

func TestMemoryLimiter_ConcurrentCounting(t *testing.T) {
	l := NewMemoryLimiter(100, time.Minute)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, _ := l.Check(ctx, "10.0.0.1")
			if result.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 100 {
		t.Errorf("expected exactly 100 allowed under concurrency, got %d", allowed)
	}
}
