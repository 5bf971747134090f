package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	lastSeen map[string]time.Time
	limit    rate.Limit
	burst    int
}

// NewRateLimiter allows limit requests per window per client IP
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		lastSeen: make(map[string]time.Time),
		limit:    rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, ok := rl.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[ip] = limiter
	}
	rl.lastSeen[ip] = time.Now()
	return limiter
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.limiter(c.ClientIP()).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests, please try later."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// StartCleanup drops limiters for IPs not seen within maxIdle
func (rl *RateLimiter) StartCleanup(interval, maxIdle time.Duration) {
	go func() {
		for {
			time.Sleep(interval)
			rl.mu.Lock()
			now := time.Now()
			for ip, seen := range rl.lastSeen {
				if now.Sub(seen) > maxIdle {
					delete(rl.limiters, ip)
					delete(rl.lastSeen, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
}
