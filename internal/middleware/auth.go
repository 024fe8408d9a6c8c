// Package middleware contains the gin middleware shared by all routes.
package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminKeyHeader carries the admin key on admin routes.
const AdminKeyHeader = "X-Admin-Key"

// AdminKeyAuth guards admin endpoints. An empty key list rejects everything.
func AdminKeyAuth(adminKeys []string) gin.HandlerFunc {
	keys := make([][]byte, 0, len(adminKeys))
	for _, k := range adminKeys {
		if k != "" {
			keys = append(keys, []byte(k))
		}
	}

	return func(c *gin.Context) {
		key := c.GetHeader(AdminKeyHeader)
		if key == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "missing admin API key",
			})
			return
		}

		for _, k := range keys {
			if subtle.ConstantTimeCompare([]byte(key), k) == 1 {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "invalid admin API key",
		})
	}
}
