package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// slidingWindowScript keeps one sorted set per caller, scored by call time in
// milliseconds. It trims expired calls, then admits the call if the set is
// below the limit. Returns {allowed, count, retry_after_ms}.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])

redis.call("ZREMRANGEBYSCORE", key, "-inf", now - window)
local count = redis.call("ZCARD", key)
if count >= limit then
	local oldest = redis.call("ZRANGE", key, 0, 0, "WITHSCORES")
	return {0, count, tonumber(oldest[2]) + window - now}
end

redis.call("ZADD", key, ARGV[1], ARGV[4])
redis.call("PEXPIRE", key, window)
return {1, count + 1, 0}
`)

// RedisLimiter shares sliding-window state between service instances.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	policy Policy
	now    func() time.Time
}

func NewRedisLimiter(client *redis.Client, prefix string, policy Policy) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: prefix,
		policy: policy,
		now:    time.Now,
	}
}

func (l *RedisLimiter) Policy() Policy {
	return l.policy
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	nowMs := l.now().UnixMilli()
	res, err := slidingWindowScript.Run(ctx, l.client,
		[]string{fmt.Sprintf("%s:%s", l.prefix, key)},
		nowMs, l.policy.Window.Milliseconds(), l.policy.Limit, uuid.New().String(),
	).Slice()
	if err != nil {
		return Result{}, fmt.Errorf("failed to evaluate rate limit: %w", err)
	}
	if len(res) != 3 {
		return Result{}, fmt.Errorf("unexpected rate limit reply: %v", res)
	}

	allowed, _ := res[0].(int64)
	count, _ := res[1].(int64)
	retryMs, _ := res[2].(int64)

	result := Result{
		Allowed: allowed == 1,
		Limit:   l.policy.Limit,
	}
	if result.Allowed {
		result.Remaining = l.policy.Limit - int(count)
	} else {
		result.RetryAfter = time.Duration(retryMs) * time.Millisecond
	}
	return result, nil
}
