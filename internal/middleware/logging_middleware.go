package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hvngo/shop-backend/pkg/logger"
)

const loggerContextKey = "request_logger"

// RequestLogger tags every request with a request id and logs it after
// completion, level chosen by the response status.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := uuid.NewString()

		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Set(loggerContextKey, logger.WithContext(map[string]interface{}{
			"request_id": requestID,
		}))

		c.Next()

		status := c.Writer.Status()
		fields := map[string]interface{}{
			"request_id": requestID,
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= 500:
			logger.Error("Request failed", nil, fields)
		case status >= 400:
			logger.Warn("Request rejected", fields)
		default:
			logger.Info("Request completed", fields)
		}
	}
}

// GetLoggerFromContext returns the request-scoped logger, falling back to the
// global one outside RequestLogger.
func GetLoggerFromContext(c *gin.Context) *logger.Logger {
	if value, exists := c.Get(loggerContextKey); exists {
		if l, ok := value.(*logger.Logger); ok {
			return l
		}
	}
	return logger.Get()
}
