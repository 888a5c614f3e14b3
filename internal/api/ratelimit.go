package api

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RateCounter counts hits per key within an expiring window. Satisfied by the
// redis client.
type RateCounter interface {
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)
}

// RateLimit caps requests per client IP within the window. Counter failures
// fail open.
func RateLimit(counter RateCounter, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()
		count, err := counter.IncrWindow(c.Request.Context(), key, window)
		if err != nil {
			log.Printf("rate limit check failed: %v", err)
			c.Next()
			return
		}
		if count > int64(limit) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many messages. Please slow down."})
			return
		}
		c.Next()
	}
}
