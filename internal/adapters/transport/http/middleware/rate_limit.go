package middleware

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter *rate.Limiter
	last    atomic.Int64 // UnixNano of the most recent request
}

// NewRateLimitPerIP limits RPS per client IP with an LRU cache of limiters.
// Idle entries are swept inline at most once per ttl, so the middleware owns
// no background goroutine.
func NewRateLimitPerIP(
	limit, burst, cacheSize int,
	ttl time.Duration,
) gin.HandlerFunc {

	visitors, _ := lru.New[string, *visitor](cacheSize)

	var lastSweep atomic.Int64
	lastSweep.Store(time.Now().UnixNano())

	return func(c *gin.Context) {
		now := time.Now()

		if prev := lastSweep.Load(); now.Sub(time.Unix(0, prev)) > ttl &&
			lastSweep.CompareAndSwap(prev, now.UnixNano()) {
			for _, key := range visitors.Keys() {
				if v, ok := visitors.Peek(key); ok && now.Sub(time.Unix(0, v.last.Load())) > ttl {
					visitors.Remove(key)
				}
			}
		}

		host, _, _ := net.SplitHostPort(c.Request.RemoteAddr)

		v, ok := visitors.Get(host)
		if !ok {
			v = &visitor{
				limiter: rate.NewLimiter(rate.Limit(limit), burst),
			}
			visitors.Add(host, v)
		}
		v.last.Store(now.UnixNano())

		if !v.limiter.Allow() {
			c.AbortWithStatusJSON(429, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
