package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/bravo68web/repodash/pkg/logger"
)

const maxStackSize = 4096

// RecoveryMiddleware returns a panic recovery middleware using the global logger
func RecoveryMiddleware() gin.HandlerFunc {
	return RecoveryMiddlewareWithLogger(nil)
}

// RecoveryMiddlewareWithLogger turns a panic into a logged 500 JSON response
func RecoveryMiddlewareWithLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			l := log
			if l == nil {
				l = logger.Get()
			}

			stack := debug.Stack()
			if len(stack) > maxStackSize {
				stack = stack[:maxStackSize]
			}

			l.WithContext(c.Request.Context()).Error("Panic recovered",
				logger.Any("panic", rec),
				logger.RequestID(GetRequestID(c)),
				logger.Method(c.Request.Method),
				logger.Path(c.Request.URL.Path),
				logger.ClientIP(c.ClientIP()),
				logger.ByteString("stacktrace", stack),
			)

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":      "Internal server error",
				"request_id": GetRequestID(c),
			})
		}()

		c.Next()
	}
}
