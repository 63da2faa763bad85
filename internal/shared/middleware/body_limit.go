package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"iptv-manager/internal/shared/response"
)

// MaxBodySize caps the request body at limit bytes. A declared length over
// the cap is refused up front; a body that turns out longer fails its read
// with *http.MaxBytesError, before multipart parsing spools it to disk.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			response.ErrorResponse(c, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
