package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/marcos-nsantos/media-storage-adapter/internal/pkg/httputil"
)

// ErrorHandler is the central error chain. Handlers attach failures with
// c.Error and return without writing; the last error is rendered here.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		logger.Error("request failed",
			zap.Error(err),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("request_id", httputil.GetRequestID(c)),
		)

		if c.Writer.Written() {
			return
		}
		httputil.HandleError(c, err)
	}
}
