package redisrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/kirinyoku/tixlife/internal/clock"
)

// Sorted set of hits scored by unix milliseconds. A rejected hit is removed
// again so that hammering a full window does not extend it.
//
// KEYS[1] window key; ARGV: now_ms, window_ms, limit, member.
// Returns {allowed, hits, retry_ms}.
var slidingWindowScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])

redis.call('ZREMRANGEBYSCORE', KEYS[1], '-inf', now - window)
redis.call('ZADD', KEYS[1], now, ARGV[4])
redis.call('PEXPIRE', KEYS[1], window)

local hits = redis.call('ZCARD', KEYS[1])
if hits <= tonumber(ARGV[3]) then
  return {1, hits, 0}
end

redis.call('ZREM', KEYS[1], ARGV[4])
local oldest = redis.call('ZRANGE', KEYS[1], 0, 0, 'WITHSCORES')
local retry = 0
if oldest[2] then
  retry = math.max(0, window - (now - tonumber(oldest[2])))
end
return {0, hits - 1, retry}
`)

// Decision is the outcome of one rate-limited call.
type Decision struct {
	Allowed bool
	// Hits counted in the window, including this one when allowed.
	Hits       int64
	RetryAfter time.Duration
}

// SlidingWindowLimiter allows at most limit hits per window for each scope.
type SlidingWindowLimiter struct {
	rdb    *redis.Client
	clk    clock.Clock
	prefix string
	limit  int
	window time.Duration
}

func NewSlidingWindowLimiter(
	rdb *redis.Client,
	clk clock.Clock,
	prefix string,
	limit int,
	window time.Duration,
) *SlidingWindowLimiter {
	return &SlidingWindowLimiter{
		rdb:    rdb,
		clk:    clk,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow records a hit for scope. A nil limiter or a non-positive limit
// allows everything.
func (l *SlidingWindowLimiter) Allow(ctx context.Context, scope string) (Decision, error) {
	const op = "redisrepo.SlidingWindowLimiter.Allow"

	if l == nil || l.limit <= 0 {
		return Decision{Allowed: true}, nil
	}

	vals, err := slidingWindowScript.Run(ctx, l.rdb,
		[]string{l.prefix + ":" + scope},
		l.clk.Now().UnixMilli(),
		l.window.Milliseconds(),
		l.limit,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return Decision{}, fmt.Errorf("%s: %w", op, err)
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("%s: unexpected script result %v", op, vals)
	}

	return Decision{
		Allowed:    vals[0] == 1,
		Hits:       vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}
