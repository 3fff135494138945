package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/clementroume/holbertonschool-files-manager/internal/ctxkeys"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// maxTrackedClients bounds limiter memory. The least recently seen client is
// forgotten first.
const maxTrackedClients = 10_000

// RateLimiter allows limit requests per sliding window for each client IP
type RateLimiter struct {
	mu      sync.Mutex
	limit   int
	window  time.Duration
	clients *expirable.LRU[string, []time.Time]
	now     func() time.Time
}

// NewRateLimiter creates a new rate limiter. Idle clients expire after one window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:   limit,
		window:  window,
		clients: expirable.NewLRU[string, []time.Time](maxTrackedClients, nil, window),
		now:     time.Now,
	}
}

// Allow records a request from ip. When the limit is reached it returns false
// and how long until the oldest request in the window expires.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rl.window)

	previous, _ := rl.clients.Get(ip)
	recent := make([]time.Time, 0, len(previous)+1)
	for _, t := range previous {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.clients.Add(ip, recent)
		return false, recent[0].Add(rl.window).Sub(now)
	}

	rl.clients.Add(ip, append(recent, now))
	return true, 0
}

// RateLimitAuth creates middleware for auth endpoints
// Limits: limit requests per window per client IP
func RateLimitAuth(limit int, window time.Duration) func(http.HandlerFunc) http.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := ctxkeys.ClientIP(r.Context())
			if ip == "" {
				ip = remoteHost(r)
			}

			ok, retryAfter := limiter.Allow(ip)
			if !ok {
				slog.Warn("rate limit exceeded",
					"ip", ip,
					"path", r.URL.Path,
					"retry_after", retryAfter,
				)
				seconds := int(math.Ceil(retryAfter.Seconds()))
				w.Header().Set("Retry-After", strconv.Itoa(max(seconds, 1)))
				writeError(w, http.StatusTooManyRequests, "Too many requests")
				return
			}

			next(w, r)
		}
	}
}
