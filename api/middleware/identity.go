package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OwnerIDKey is the gin context key holding the caller's owner id.
const OwnerIDKey = "ownerID"

// Identity reads the caller identity from the X-User-ID header.
// Authentication happens upstream; this service only scopes data by owner.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.GetHeader("X-User-ID")
		if ownerID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing X-User-ID header",
			})
			return
		}
		c.Set(OwnerIDKey, ownerID)
		c.Next()
	}
}

// OwnerID returns the caller identity set by Identity.
func OwnerID(c *gin.Context) string {
	return c.GetString(OwnerIDKey)
}
