package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// MaxBodySize rejects bodies declared larger than limit and caps the bytes
// a handler can read from any other body.  A limit ≤ 0 disables the check.
func MaxBodySize(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			AbortWithError(c, errors.Newf(errors.CodeTooLarge, "request body of %d bytes exceeds %d", c.Request.ContentLength, limit))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
