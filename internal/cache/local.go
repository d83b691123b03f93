package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// localIdleTTL is how long an unused per-IP bucket is kept.
const localIdleTTL = 10 * time.Minute

type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalIPLimiter is an in-process token bucket per client IP, used when no
// Redis is configured. Limits are per instance.
type LocalIPLimiter struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	buckets   map[string]*localBucket
	lastSweep time.Time
	now       func() time.Time
}

// NewLocalIPLimiter allows rps requests per second per IP with bursts of
// up to burst requests.
func NewLocalIPLimiter(rps float64, burst int) *LocalIPLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst < 1 {
		burst = 1
	}
	return &LocalIPLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: make(map[string]*localBucket),
		now:     time.Now,
	}
}

// CheckIPRateLimit consumes one token for ip. It never fails.
func (l *LocalIPLimiter) CheckIPRateLimit(ctx context.Context, ip string) (*RateLimitResult, error) {
	now := l.now()
	key := hashIP(ip)

	l.mu.Lock()
	l.sweep(now)
	b, ok := l.buckets[key]
	if !ok {
		b = &localBucket{limiter: rate.NewLimiter(l.rps, l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	if b.limiter.AllowN(now, 1) {
		return &RateLimitResult{
			Allowed:   true,
			Remaining: int64(b.limiter.TokensAt(now)),
		}, nil
	}

	r := b.limiter.ReserveN(now, 1)
	retryAfter := r.DelayFrom(now)
	r.CancelAt(now)

	return &RateLimitResult{
		Allowed:    false,
		Remaining:  0,
		RetryAfter: retryAfter,
	}, nil
}

// sweep drops idle buckets at most once per localIdleTTL. Callers hold mu.
func (l *LocalIPLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < localIdleTTL {
		return
	}
	for k, b := range l.buckets {
		if now.Sub(b.lastSeen) > localIdleTTL {
			delete(l.buckets, k)
		}
	}
	l.lastSweep = now
}
