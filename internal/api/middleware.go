package api

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// requestLogger tags every request with an id and logs it once it completes.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.New().String()

		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)

		c.Next()

		status := c.Writer.Status()
		keyvals := []any{
			"request_id", requestID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"latency", time.Since(start),
			"ip", c.ClientIP(),
		}
		if userID, ok := c.Get("user_id"); ok {
			keyvals = append(keyvals, "user_id", userID)
		}

		switch {
		case len(c.Errors) > 0:
			log.Error("request error", append(keyvals, "error", c.Errors.String())...)
		case status >= 500:
			log.Error("server error", keyvals...)
		case status >= 400:
			log.Warn("client error", keyvals...)
		default:
			log.Debug("request completed", keyvals...)
		}
	}
}
