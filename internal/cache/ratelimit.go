package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
)

// rateLimitIPPrefix is the Redis key segment for IP rate limits.
const rateLimitIPPrefix = "ratelimit:ip:"

// RateLimitResult contains the result of a rate limit check.
type RateLimitResult struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// tokenBucketScript refills and consumes one token atomically.
// ARGV: rate (tokens/s), burst, now (fractional seconds), ttl (s).
// Returns {allowed, retry_after_ms, remaining_tokens}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = math.max(0, now - last_update)
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after_ms = 0
	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after_ms = math.ceil((1 - tokens) / rate * 1000)
	end

	redis.call('HSET', key, 'tokens', tostring(tokens), 'last_update', tostring(now))
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after_ms, math.floor(tokens)}
`)

// RedisIPLimiter is a token bucket per client IP shared by every API
// instance through Redis.
type RedisIPLimiter struct {
	cache *Cache
	rate  float64
	burst int
	ttl   int
}

// NewRedisIPLimiter allows rps requests per second per IP with bursts of
// up to burst requests.
func NewRedisIPLimiter(c *Cache, rps float64, burst int) *RedisIPLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	// Keep a key until an idle bucket would have refilled, plus slack.
	ttl := int(math.Ceil(float64(burst)/rps)) + 1
	return &RedisIPLimiter{cache: c, rate: rps, burst: burst, ttl: ttl}
}

// CheckIPRateLimit consumes one token for ip. The IP is hashed so raw
// addresses are never stored.
func (l *RedisIPLimiter) CheckIPRateLimit(ctx context.Context, ip string) (*RateLimitResult, error) {
	key := l.cache.key(rateLimitIPPrefix, hashIP(ip))
	now := float64(time.Now().UnixMicro()) / 1e6

	res, err := tokenBucketScript.Run(ctx, l.cache.client,
		[]string{key},
		l.rate, l.burst, now, l.ttl,
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("run token bucket script: %w", err)
	}
	if len(res) != 3 {
		return nil, fmt.Errorf("token bucket script returned %d values", len(res))
	}

	return &RateLimitResult{
		Allowed:    res[0] == 1,
		RetryAfter: time.Duration(res[1]) * time.Millisecond,
		Remaining:  res[2],
	}, nil
}

// hashIP creates a truncated SHA256 hash of an IP address.
func hashIP(ip string) string {
	hash := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(hash[:8])
}
