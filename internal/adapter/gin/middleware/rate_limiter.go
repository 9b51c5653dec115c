package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	grpcmiddleware "employee-qbe-service/internal/adapter/grpc/middleware"
)

// RateLimiter returns a Gin middleware applying the shared token bucket per
// route and client IP. A nil limiter disables the middleware.
func RateLimiter(limiter *grpcmiddleware.RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope := c.Request.Method + " " + c.FullPath()
		if limiter.Allow(c.Request.Context(), scope, c.ClientIP()) {
			c.Next()
			return
		}

		cfg := limiter.Config()
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"error":   "rate_limit_exceeded",
			"message": fmt.Sprintf("Rate limit exceeded: %.2f requests/second (burst capacity: %d)", cfg.RequestsPerSecond, cfg.BurstCapacity),
		})
	}
}
