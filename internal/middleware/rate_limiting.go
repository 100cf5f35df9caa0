package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"beam-website/pkg/logger"
)

// RateLimitMiddleware rejects clients that exceed their bucket with 429.
func RateLimitMiddleware(manager *RateLimitManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		limiter := manager.GetVisitor(c.ClientIP())
		if limiter == nil {
			c.Next()
			return
		}

		if !limiter.Allow() {
			logger.FromContext(c.Request.Context()).
				WithField("client_ip", c.ClientIP()).
				WithField("path", c.Request.URL.Path).
				Warn("Rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "too many requests, please try again later",
			})
			return
		}
		c.Next()
	}
}
