package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter performs sliding-window rate limiting backed by Redis sorted
// sets, so multiple gateway replicas share one set of counters. If rdb is
// nil, all checks pass (fail open).
type RedisLimiter struct {
	rdb    *redis.Client
	limit  int64
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, limit int64, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, limit: limit, window: window}
}

// slidingWindowScript atomically: removes expired entries, adds current, counts.
// KEYS[1] = sorted set key
// ARGV[1] = window start (unix micro)
// ARGV[2] = now (unix micro) — used as both score and member uniqueness
// ARGV[3] = limit
// ARGV[4] = TTL seconds for the key
// Returns: [current_count, 1=allowed/0=denied]
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local now = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
local ttl = tonumber(ARGV[4])

redis.call('ZREMRANGEBYSCORE', key, '-inf', window_start)
local count = redis.call('ZCARD', key)

if count < limit then
    redis.call('ZADD', key, now, now .. ':' .. math.random(1000000))
    redis.call('EXPIRE', key, ttl)
    return {count + 1, 1}
end

redis.call('EXPIRE', key, ttl)
return {count, 0}
`)

func (l *RedisLimiter) Check(ctx context.Context, key string) (Result, error) {
	if l.rdb == nil {
		return Result{Allowed: true, Remaining: l.limit - 1, ResetAt: time.Now().Add(l.window)}, nil
	}

	now := time.Now()
	windowStart := now.Add(-l.window).UnixMicro()
	nowMicro := now.UnixMicro()
	ttlSecs := int64(l.window.Seconds()) + 1

	redisKey := fmt.Sprintf("mentor:rl:%s", key)

	result, err := slidingWindowScript.Run(ctx, l.rdb, []string{redisKey},
		windowStart, nowMicro, l.limit, ttlSecs,
	).Int64Slice()
	if err != nil {
		// Fail open on Redis errors
		return Result{Allowed: true, Remaining: l.limit, ResetAt: now.Add(l.window)}, nil
	}

	count := result[0]
	allowed := result[1] == 1
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetAt := now.Add(l.window)
	var retryAfter time.Duration
	if !allowed {
		retryAfter = l.window / 2 // conservative estimate
	}

	return Result{
		Allowed:    allowed,
		Remaining:  remaining,
		ResetAt:    resetAt,
		RetryAfter: retryAfter,
	}, nil
}
