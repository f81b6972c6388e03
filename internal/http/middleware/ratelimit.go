package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"product-catalog/internal/logger"
)

// RateLimitOptions configures RateLimit.
type RateLimitOptions struct {
	RPS        float64
	Burst      int
	RetryAfter time.Duration
	// IdleTTL drops limiters of clients not seen for this long. Zero keeps them forever.
	IdleTTL time.Duration
}

type limiterEntry struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

type limiterStore struct {
	mu      sync.Mutex
	opts    RateLimitOptions
	entries map[string]*limiterEntry
	lastGC  time.Time
}

func (s *limiterStore) get(key string, now time.Time) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.IdleTTL > 0 && now.Sub(s.lastGC) > s.opts.IdleTTL {
		for k, e := range s.entries {
			if now.Sub(e.lastSeen) > s.opts.IdleTTL {
				delete(s.entries, k)
			}
		}
		s.lastGC = now
	}

	e, ok := s.entries[key]
	if !ok {
		e = &limiterEntry{lim: rate.NewLimiter(rate.Limit(s.opts.RPS), s.opts.Burst)}
		s.entries[key] = e
	}
	e.lastSeen = now
	return e.lim
}

// RateLimit applies a token bucket per client IP and answers 429 when empty.
func RateLimit(opts RateLimitOptions) func(http.Handler) http.Handler {
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = time.Second
	}
	store := &limiterStore{opts: opts, entries: map[string]*limiterEntry{}}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := clientIP(r)
			if !store.get(key, time.Now()).Allow() {
				logger.Debugf("rate limited %s %s %s", key, r.Method, r.URL.Path)
				w.Header().Set("Retry-After", strconv.Itoa(int(opts.RetryAfter.Seconds())))
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
