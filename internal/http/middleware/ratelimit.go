package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/revive-underground/smart-booking/pkg/logging"
)

const (
	rateLimitWindow = time.Minute
	// maxLocalLimiters caps the fallback map during a long Redis outage.
	maxLocalLimiters = 10000
)

// RateLimiter counts requests per client IP and route group in fixed
// one-minute windows kept in Redis. When Redis is missing or failing it
// falls back to an in-process token bucket per IP so requests keep flowing.
type RateLimiter struct {
	client redis.Cmdable
	limit  int
	group  string
	logger *logging.Logger
	now    func() time.Time

	mu        sync.Mutex
	local     map[string]*localLimiter
	maxLocal  int
	lastSweep time.Time
}

type localLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter builds a limiter allowing limitPerMinute requests per IP.
// client may be nil.
func NewRateLimiter(client redis.Cmdable, limitPerMinute int, group string, logger *logging.Logger) *RateLimiter {
	if logger == nil {
		logger = logging.Default()
	}
	return &RateLimiter{
		client: client,
		limit:  limitPerMinute,
		group:  group,
		logger: logger,
		now:      time.Now,
		local:    make(map[string]*localLimiter),
		maxLocal: maxLocalLimiters,
	}
}

// Allow reports whether ip may make another request, and if not, how long
// until it may retry.
func (rl *RateLimiter) Allow(ctx context.Context, ip string) (bool, time.Duration) {
	if rl.limit <= 0 {
		return true, 0
	}
	if rl.client != nil {
		allowed, retry, err := rl.allowRedis(ctx, ip)
		if err == nil {
			return allowed, retry
		}
		rl.logger.Warn("rate limit: redis unavailable, using local limiter", "group", rl.group, "error", err)
	}
	return rl.allowLocal(ip)
}

func (rl *RateLimiter) allowRedis(ctx context.Context, ip string) (bool, time.Duration, error) {
	now := rl.now()
	windowStart := now.Truncate(rateLimitWindow)
	key := fmt.Sprintf("ratelimit:%s:%s:%d", rl.group, ip, windowStart.Unix())

	var incr *redis.IntCmd
	_, err := rl.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rateLimitWindow)
		return nil
	})
	if err != nil {
		return false, 0, fmt.Errorf("ratelimit: incr %s: %w", key, err)
	}
	if incr.Val() > int64(rl.limit) {
		return false, windowStart.Add(rateLimitWindow).Sub(now), nil
	}
	return true, 0, nil
}

func (rl *RateLimiter) allowLocal(ip string) (bool, time.Duration) {
	now := rl.now()
	rl.mu.Lock()
	if now.Sub(rl.lastSweep) >= rateLimitWindow || len(rl.local) >= rl.maxLocal {
		rl.sweepLocked(now)
	}
	entry, ok := rl.local[ip]
	if !ok {
		if len(rl.local) >= rl.maxLocal {
			for k := range rl.local {
				delete(rl.local, k)
				break
			}
		}
		entry = &localLimiter{
			limiter: rate.NewLimiter(rate.Every(rateLimitWindow/time.Duration(rl.limit)), rl.limit),
		}
		rl.local[ip] = entry
	}
	entry.lastSeen = now
	limiter := entry.limiter
	rl.mu.Unlock()

	res := limiter.ReserveN(now, 1)
	if !res.OK() {
		return false, rateLimitWindow
	}
	delay := res.DelayFrom(now)
	if delay > 0 {
		res.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweepLocked drops limiters idle for a full window; their buckets have
// refilled, so a fresh limiter behaves the same.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	for ip, entry := range rl.local {
		if now.Sub(entry.lastSeen) >= rateLimitWindow {
			delete(rl.local, ip)
		}
	}
	rl.lastSweep = now
}

// Middleware rejects requests over the limit with 429 and a Retry-After
// header in whole seconds.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		allowed, retry := rl.Allow(r.Context(), ip)
		if !allowed {
			secs := int(math.Ceil(retry.Seconds()))
			if secs < 1 {
				secs = 1
			}
			rl.logger.Warn("rate limit exceeded", "group", rl.group, "remote_ip", ip)
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			writeJSONError(w, http.StatusTooManyRequests, "Too many requests. Please try again shortly.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit returns an HTTP middleware limiting each client IP to
// limitPerMinute requests per minute within group.
func RateLimit(client redis.Cmdable, limitPerMinute int, group string, logger *logging.Logger) func(http.Handler) http.Handler {
	return NewRateLimiter(client, limitPerMinute, group, logger).Middleware
}

// clientIP prefers the address chi's RealIP middleware wrote into RemoteAddr.
func clientIP(r *http.Request) string {
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprintf(w, "{\"error\":%q}\n", message)
}
