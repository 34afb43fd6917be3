package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"abstractdesk/internal/logging"
	"abstractdesk/internal/port"
)

// RateLimit rejects requests over quota with 429, keyed by scope and client IP.
// A nil limiter disables the check. Limiter errors let the request through.
func RateLimit(limiter port.RateLimiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		ok, err := limiter.Allow(c.Request.Context(), scope+":"+c.ClientIP())
		if err != nil {
			logging.LoggerFrom(c.Request.Context()).Warn("rate limiter unavailable", "scope", scope, "error", err)
			c.Next()
			return
		}
		if !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"error":   gin.H{"code": "RATE_LIMITED", "message": "too many requests, try again later"},
			})
			return
		}
		c.Next()
	}
}
