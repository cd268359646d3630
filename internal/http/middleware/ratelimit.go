package middleware

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	limiterSweepInterval = 5 * time.Minute
	limiterIdleAfter     = 10 * time.Minute
)

// RateLimiter holds one token bucket limiter per key.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*keyLimiter
	rate     float64
	burst    int
	now      func() time.Time
}

type keyLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter allows rate requests per second per key with the given burst.
func NewRateLimiter(rps float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*keyLimiter),
		rate:     rps,
		burst:    burst,
		now:      time.Now,
	}
}

// Allow takes a token from key's bucket.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	l, ok := rl.limiters[key]
	if !ok {
		l = &keyLimiter{limiter: rate.NewLimiter(rate.Limit(rl.rate), rl.burst)}
		rl.limiters[key] = l
	}
	l.lastSeen = now
	return l.limiter.AllowN(now, 1)
}

// Sweep drops limiters idle since before cutoff.
func (rl *RateLimiter) Sweep(cutoff time.Time) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for key, l := range rl.limiters {
		if l.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Run sweeps idle limiters until ctx is done.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(limiterSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.Sweep(rl.now().Add(-limiterIdleAfter))
		}
	}
}

// Middleware rejects requests over the limit with 429. Requests are keyed by
// staff username when StaffUser has run, otherwise by client IP.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	retryAfter := "1"
	if rl.rate > 0 && rl.rate < 1 {
		retryAfter = strconv.Itoa(int(1/rl.rate + 0.5))
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(limiterKey(r)) {
			w.Header().Set("Retry-After", retryAfter)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func limiterKey(r *http.Request) string {
	if user := UsernameFromContext(r.Context()); user != "" {
		return "user:" + user
	}
	// chi's RealIP middleware has already rewritten RemoteAddr when present.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}
