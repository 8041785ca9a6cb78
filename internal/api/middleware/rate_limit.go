package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"signalrelay/internal/pkg/errors"
)

// RateLimiter is a per-client token bucket. Buckets refill continuously at
// limit/minute and are evicted after ten minutes of silence.
type RateLimiter struct {
	store *sync.Map // map[string]*bucket
	limit int
}

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
	mu         sync.Mutex
}

func NewRateLimiter(perMinute int) *RateLimiter {
	rl := &RateLimiter{
		store: &sync.Map{},
		limit: perMinute,
	}

	go rl.cleanupLoop()

	return rl
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.store.Range(func(key, value interface{}) bool {
			b := value.(*bucket)
			b.mu.Lock()
			if now.Sub(b.lastAccess) > 10*time.Minute {
				rl.store.Delete(key)
			}
			b.mu.Unlock()
			return true
		})
	}
}

func (rl *RateLimiter) Allow(key string) bool {
	now := time.Now()

	val, _ := rl.store.LoadOrStore(key, &bucket{
		tokens:     rl.limit,
		lastRefill: now,
		lastAccess: now,
	})

	b := val.(*bucket)
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastAccess = now

	elapsed := now.Sub(b.lastRefill)
	refillRate := float64(rl.limit) / 60.0
	refill := int(elapsed.Seconds() * refillRate)

	if refill > 0 {
		if b.tokens+refill > rl.limit {
			b.tokens = rl.limit
		} else {
			b.tokens += refill
		}
		b.lastRefill = now
	}

	if b.tokens > 0 {
		b.tokens--
		return true
	}

	return false
}

// Handle limits by client IP. A nil receiver or zero limit disables the
// middleware entirely.
func (rl *RateLimiter) Handle(next http.HandlerFunc) http.HandlerFunc {
	if rl == nil || rl.limit <= 0 {
		return next
	}

	return func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !rl.Allow(host) {
			w.Header().Set("Retry-After", "60")
			errors.WriteError(w, http.StatusTooManyRequests, errors.ErrCodeRateLimitExceeded,
				"Rate limit exceeded", nil)
			return
		}

		next(w, r)
	}
}
