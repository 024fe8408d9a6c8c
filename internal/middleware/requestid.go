package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/aspirebot/crypto-advisor/internal/requestid"
)

// RequestID takes the caller's X-Request-ID or generates one, stores it in the
// request context and echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestid.Header)
		if id == "" || len(id) > 128 {
			id = requestid.New()
		}

		c.Request = c.Request.WithContext(requestid.With(c.Request.Context(), id))
		c.Header(requestid.Header, id)
		c.Next()
	}
}
