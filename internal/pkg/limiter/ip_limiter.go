/*
Package limiter provides per-IP request rate limiting.

Each client IP gets its own token bucket (rate.Limiter). A background sweep
drops buckets that have refilled completely, so idle IPs do not accumulate.
*/
package limiter

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"dmchat/internal/pkg/errs"
	"dmchat/internal/pkg/logx"
	"dmchat/internal/pkg/resp"
)

// sweepInterval is how often idle buckets are reclaimed.
const sweepInterval = 3 * time.Minute

// IPRateLimiter hands out one token bucket per client IP.
type IPRateLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*rate.Limiter

	// limit and burst configure every bucket this limiter creates.
	limit rate.Limit
	burst int
}

// NewIPRateLimiter creates a limiter allowing `limit` events per second with
// the given burst per IP, and starts the background sweep.
func NewIPRateLimiter(limit rate.Limit, burst int) *IPRateLimiter {
	l := &IPRateLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   limit,
		burst:   burst,
	}

	go l.sweep()

	return l
}

// GetLimiter returns the bucket for ip, creating it on first sight.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.RLock()
	bucket, ok := l.buckets[ip]
	l.mu.RUnlock()
	if ok {
		return bucket
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Another request may have created the bucket between the two locks.
	if bucket, ok = l.buckets[ip]; !ok {
		bucket = rate.NewLimiter(l.limit, l.burst)
		l.buckets[ip] = bucket
	}
	return bucket
}

// sweep periodically removes buckets whose tokens have fully refilled. A full
// bucket means the IP has been quiet long enough that recreating the bucket
// on its next request loses nothing.
func (l *IPRateLimiter) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		removed := 0
		for ip, bucket := range l.buckets {
			if bucket.TokensAt(time.Now()) >= float64(bucket.Burst()) {
				delete(l.buckets, ip)
				removed++
			}
		}
		remaining := len(l.buckets)
		l.mu.Unlock()

		logx.Info("Rate limiter sweep finished.", "removed", removed, "active", remaining)
	}
}

// Middleware rejects requests from IPs that have exhausted their bucket with
// a 429 response; everything else passes through.
func (l *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}
		if ip == "" {
			ip = "unknown_ip"
		}

		if !l.GetLimiter(ip).Allow() {
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		next.ServeHTTP(w, r)
	})
}
