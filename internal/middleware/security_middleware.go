package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware sets the hardening headers for every response.
// assetOrigins are allowed as image and media sources so CMS uploads load.
func SecurityHeadersMiddleware(assetOrigins ...string) gin.HandlerFunc {
	policy := buildContentSecurityPolicy(assetOrigins, nil)

	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-DNS-Prefetch-Control", "off")
		c.Header("X-Permitted-Cross-Domain-Policies", "none")
		c.Header("Cross-Origin-Opener-Policy", "same-origin")
		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Header("Content-Security-Policy", policy)
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		c.Next()
	}
}

func buildContentSecurityPolicy(mediaOrigins, connectOrigins []string) string {
	media := joinSources([]string{"'self'", "data:", "blob:"}, mediaOrigins)
	connect := joinSources([]string{"'self'"}, connectOrigins)

	directives := []string{
		"default-src 'self'",
		"img-src " + media,
		"media-src " + media,
		"style-src 'self' 'unsafe-inline'",
		"script-src 'self'",
		"connect-src " + connect,
		"font-src 'self' data:",
		"object-src 'none'",
		"base-uri 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}
	return strings.Join(directives, "; ")
}

func joinSources(base, extra []string) string {
	seen := make(map[string]struct{}, len(base)+len(extra))
	out := make([]string, 0, len(base)+len(extra))
	for _, source := range append(base, extra...) {
		source = strings.TrimRight(strings.TrimSpace(source), "/")
		if source == "" {
			continue
		}
		if _, ok := seen[source]; ok {
			continue
		}
		seen[source] = struct{}{}
		out = append(out, source)
	}
	return strings.Join(out, " ")
}
