package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/TFHGit/skumaster_api/internal/cache"
)

// UploadRateLimiter throttles the multipart update endpoint per client IP
// using fixed-window counters in Redis, so the limit holds across instances.
type UploadRateLimiter struct {
	cache  *cache.RedisClient
	limit  int
	window time.Duration
}

// NewUploadRateLimiter constructs an UploadRateLimiter allowing limit requests
// per window per IP.
func NewUploadRateLimiter(c *cache.RedisClient, limit int, window time.Duration) *UploadRateLimiter {
	return &UploadRateLimiter{cache: c, limit: limit, window: window}
}

// Handle returns the gin middleware. Redis failures fail open: an unavailable
// limiter must not take the API down with it.
func (l *UploadRateLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ratelimit:upload:%s", c.ClientIP())

		n, err := l.cache.IncrWindow(c.Request.Context(), key, l.window)
		if err != nil {
			log.Warn().Err(err).Msg("rate limiter unavailable, allowing request")
			c.Next()
			return
		}
		if n > int64(l.limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message": "too many upload requests, try again later",
			})
			return
		}
		c.Next()
	}
}
