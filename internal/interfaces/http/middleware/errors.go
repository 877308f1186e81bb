package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-restraints/pkg/errors"
	"github.com/turtacn/hbond-restraints/pkg/types/common"
)

// AbortWithError stops the chain with the standard error envelope.  Server
// errors are reported with the generic message of their code.
func AbortWithError(c *gin.Context, err error) {
	code := errors.GetCode(err)
	if code == errors.CodeUnknown {
		code = errors.CodeInternal
	}
	status := errors.HTTPStatusForCode(code)

	detail := common.ErrorDetail{Code: code.String(), Message: err.Error()}
	if ae, ok := errors.AsAppError(err); ok {
		detail.Message, detail.Detail = ae.Message, ae.Detail
		if ae.Cause != nil {
			detail.Message += ": " + ae.CauseText()
		}
	}
	if status >= 500 {
		detail = common.ErrorDetail{Code: code.String(), Message: errors.DefaultMessageForCode(code)}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, common.NewErrorResponse(detail, GetRequestID(c)))
}
