package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const defaultRobotsDirectives = "noindex, nofollow"

// NoIndexMiddleware sets X-Robots-Tag on every response. It guards the JSON
// API and non-production deployments from being indexed.
func NoIndexMiddleware(directives ...string) gin.HandlerFunc {
	value := defaultRobotsDirectives

	cleaned := make([]string, 0, len(directives))
	for _, directive := range directives {
		if directive = strings.TrimSpace(directive); directive != "" {
			cleaned = append(cleaned, directive)
		}
	}
	if len(cleaned) > 0 {
		value = strings.Join(cleaned, ", ")
	}

	return func(c *gin.Context) {
		c.Header("X-Robots-Tag", value)
		c.Next()
	}
}
