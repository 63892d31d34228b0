package middleware

import (
	"time"

	"solar-storage-sim/internal/logger"
	"solar-storage-sim/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Logger writes one structured entry per request.
func Logger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := map[string]any{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		if c.Writer.Status() >= 500 {
			log.Errorw("request failed", fields)
			return
		}
		log.Debugw("request", fields)
	}
}

// Metrics counts requests by matched route.
func Metrics(rec *metrics.Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		rec.RecordRequest(c.Request.Method, c.FullPath(), c.Writer.Status())
	}
}
