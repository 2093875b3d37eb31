package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"reviewhub/internal/ratelimit"
)

// RateLimit throttles per client IP. Limiter backend failures fail open:
// auth availability wins over throttling strictness.
func RateLimit(limiter ratelimit.Limiter, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("rate limiter unavailable", "error", err)
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			c.Abort()
			return
		}
		c.Next()
	}
}
