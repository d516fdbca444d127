package httpapi

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nishchay412/Social-Distribution/services/node/internal/core/ports"
)

const viewerKey = "social_viewer"

// Authenticate lit "Authorization: Bearer <token>".
// Sans header la requête continue en anonyme ; un header présent mais invalide est un 401,
// même sur les routes publiques.
func Authenticate(identity ports.IdentityService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Next()
			return
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			unauthenticated(c, "invalid token format")
			return
		}
		username, err := identity.ValidateToken(c.Request.Context(), token)
		if err != nil {
			unauthenticated(c, "invalid or expired token")
			return
		}
		c.Set(viewerKey, username)
		c.Next()
	}
}

// RequireAuth refuse les requêtes anonymes.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if viewer(c) == "" {
			unauthenticated(c, "authentication required")
			return
		}
		c.Next()
	}
}

// viewer retourne "" pour un anonyme.
func viewer(c *gin.Context) string {
	return c.GetString(viewerKey)
}

// Metrics : une observation par requête, étiquetée par route et non par URL.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
