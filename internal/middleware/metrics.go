// internal/middleware/metrics.go
package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"bayup-finance/internal/logger"
	"bayup-finance/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Metrics records request count and latency per route pattern.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// шаблон маршрута, чтобы /records/:id не плодил метки
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		metrics.RequestDuration.WithLabelValues(c.Request.Method, endpoint, status).Observe(time.Since(start).Seconds())
		metrics.RequestCount.WithLabelValues(c.Request.Method, endpoint, status).Inc()
	}
}

// RequestLogger attaches a request-scoped slog logger and logs each request once.
func RequestLogger(base *slog.Logger) gin.HandlerFunc {
	if base == nil {
		base = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		l := base.With("method", c.Request.Method, "path", c.Request.URL.Path)
		c.Request = c.Request.WithContext(logger.ToContext(c.Request.Context(), l))

		c.Next()

		attrs := []any{"status", c.Writer.Status(), "duration", time.Since(start)}
		if id, ok := c.Get(MerchantIDKey); ok {
			attrs = append(attrs, "merchant_id", id)
		}
		if c.Request.URL.Path == "/health" || c.Request.URL.Path == "/metrics" {
			l.Debug("HTTP request", attrs...)
			return
		}
		l.Info("HTTP request", attrs...)
	}
}
