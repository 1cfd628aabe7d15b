// File: internal/middleware/error_handler.go
package middleware

import (
	"parking_share_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler recovers from panics and converts errors attached to the
// Gin context into the standard error envelope. It is the last line of
// defense; handlers normally respond through common.RespondWithError.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	errLogger := logger.Named("ErrorHandler")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				errLogger.Error("Panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"))
				if !c.Writer.Written() {
					common.RespondWithError(c, common.ErrInternalServer)
				}
				c.Abort()
			}
		}()

		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			err := c.Errors.Last().Err
			errLogger.Error("Unhandled error from handler chain",
				zap.String("path", c.Request.URL.Path), zap.Error(err))
			common.RespondWithError(c, err)
		}
	}
}
