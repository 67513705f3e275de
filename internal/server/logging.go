package server

import (
	"time"

	"github.com/Omarzahran17/gym-flow-sub001/internal/logger"

	"github.com/gin-gonic/gin"
)

// RequestLoggingMiddleware logs one line per request. Errors attached with
// c.Error are logged alongside so handlers can return generic messages.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		attrs := []any{
			"request_id", c.GetString(ctxRequestID),
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if id, ok := c.Get("user_id"); ok {
			attrs = append(attrs, "user_id", id)
		}

		if len(c.Errors) > 0 {
			logger.Error("HTTP request", append(attrs, "error", c.Errors.String())...)
			return
		}
		logger.Info("HTTP request", attrs...)
	}
}
