package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"reps-auth/internal/apierror"
	"reps-auth/internal/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterIdleTTL    = 5 * time.Minute
	limiterSweepEvery = 3 * time.Minute
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP. Idle entries are swept
// lazily on access rather than by a background goroutine.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*ipLimiter
	rate      rate.Limit
	burst     int
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*ipLimiter),
		rate:      rate.Limit(perSecond),
		burst:     burst,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// Allow consumes one token for ip.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) > limiterSweepEvery {
		for key, l := range rl.limiters {
			if now.Sub(l.lastSeen) > limiterIdleTTL {
				delete(rl.limiters, key)
			}
		}
		rl.lastSweep = now
	}

	l, ok := rl.limiters[ip]
	if !ok {
		l = &ipLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[ip] = l
	}
	l.lastSeen = now

	return l.limiter.AllowN(now, 1)
}

// Gin returns a middleware answering 429 once a client exceeds its budget.
func (rl *RateLimiter) Gin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if rl.Allow(ip) {
			c.Next()
			return
		}

		logger.Warn("rate limit exceeded", map[string]any{
			"ip":   ip,
			"path": c.FullPath(),
		})

		retryAfter := max(int(1.0/float64(rl.rate)), 1)
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		apierror.Abort(c, http.StatusTooManyRequests, apierror.CodeTooManyRequests,
			"Too many sign-in attempts. Please wait and try again.")
	}
}
