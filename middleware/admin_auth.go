package middleware

import (
	"crypto/subtle"
	"net/http"

	"amanthos/config"

	"github.com/gin-gonic/gin"
)

// AdminAuthMiddleware guards operator-only endpoints with a shared-secret
// header. The pending-bookings listing exposes guest PII, so a missing or
// wrong key is a hard 403.
func AdminAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		expected := config.AppConfig.AdminAPIKey
		if expected == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		c.Next()
	}
}
