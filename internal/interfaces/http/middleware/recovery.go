package middleware

import (
	"fmt"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-restraints/pkg/errors"
)

// Recovery turns a handler panic into a 500 response and an Error log entry.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, rec any) {
		logger.Error("panic recovered",
			logging.String("panic", fmt.Sprint(rec)),
			logging.String("path", c.Request.URL.Path),
			logging.String(logging.FieldRequestID, GetRequestID(c)))
		AbortWithError(c, errors.Internal("panic in handler"))
	})
}
