package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-restraints/internal/interfaces/http/middleware"
	"github.com/turtacn/hbond-restraints/pkg/errors"
	"github.com/turtacn/hbond-restraints/pkg/types/common"
)

// writeJSON wraps data in the success envelope.
func writeJSON[T any](c *gin.Context, statusCode int, data T) {
	c.JSON(statusCode, common.NewSuccessResponse(data, middleware.GetRequestID(c)))
}

// writeAppError maps err to its HTTP status and error envelope.
func writeAppError(c *gin.Context, err error) {
	middleware.AbortWithError(c, err)
}

// bindJSON decodes the request body into dst and reports whether the
// handler may continue.  Oversized bodies answer 413, malformed ones 400.
func bindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		writeAppError(c, errors.Newf(errors.CodeTooLarge, "request body exceeds %d bytes", tooLarge.Limit))
		return false
	}
	writeAppError(c, errors.InvalidParam("malformed request body").WithDetail(err.Error()))
	return false
}

// NotFound answers requests that match no route.
func NotFound(c *gin.Context) {
	writeAppError(c, errors.NotFound("no such endpoint").WithDetail(c.Request.Method+" "+c.Request.URL.Path))
}
