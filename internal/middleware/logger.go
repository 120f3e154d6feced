package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger returns a Gin middleware that logs each request using zap. Client
// errors log at warn and server errors at error so they stand out of the
// access log.
func Logger(log *zap.Logger) gin.HandlerFunc {
	accessLog := log.Named("HTTP")
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
		}
		switch {
		case status >= http.StatusInternalServerError:
			accessLog.Error("request", fields...)
		case status >= http.StatusBadRequest:
			accessLog.Warn("request", fields...)
		default:
			accessLog.Info("request", fields...)
		}
	}
}
