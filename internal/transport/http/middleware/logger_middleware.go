package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/bravo68web/repodash/pkg/logger"
)

const (
	requestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

// LoggerConfig holds configuration for the access log middleware
type LoggerConfig struct {
	// Logger is the logger instance to use; nil means the global logger
	Logger *logger.Logger

	// SkipPaths are paths that should not be logged
	SkipPaths []string

	// SkipPathPrefixes are path prefixes that should not be logged
	SkipPathPrefixes []string
}

// DefaultLoggerConfig returns a default middleware configuration
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{
		SkipPaths: []string{"/healthz"},
	}
}

// LoggerMiddleware returns a Gin middleware for logging HTTP requests
func LoggerMiddleware() gin.HandlerFunc {
	return LoggerMiddlewareWithConfig(DefaultLoggerConfig())
}

// LoggerMiddlewareWithConfig returns the access log middleware. Every request
// gets an X-Request-ID; 5xx responses log at error, 4xx at warn.
func LoggerMiddlewareWithConfig(cfg *LoggerConfig) gin.HandlerFunc {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}

	skipPaths := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skipPaths[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(requestIDHeader, requestID)
		c.Set(requestIDKey, requestID)

		if _, ok := skipPaths[path]; ok || hasAnyPrefix(path, cfg.SkipPathPrefixes) {
			c.Next()
			return
		}

		log := cfg.Logger
		if log == nil {
			log = logger.Get()
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []logger.Field{
			logger.RequestID(requestID),
			logger.Method(c.Request.Method),
			logger.Path(path),
			logger.Query(c.Request.URL.RawQuery),
			logger.StatusCode(status),
			logger.Latency(latency),
			logger.ClientIP(c.ClientIP()),
			logger.UserAgent(c.Request.UserAgent()),
			logger.BodySize(c.Writer.Size()),
			logger.Protocol(c.Request.Proto),
		}

		if sc := trace.SpanFromContext(c.Request.Context()).SpanContext(); sc.IsValid() {
			fields = append(fields,
				logger.TraceID(sc.TraceID().String()),
				logger.SpanID(sc.SpanID().String()),
			)
		}

		if identity := GetIdentity(c); identity != nil {
			fields = append(fields, logger.Subject(identity.Subject))
		}

		if len(c.Errors) > 0 {
			fields = append(fields, logger.Strings("errors", c.Errors.Errors()))
		}

		switch {
		case status >= 500:
			log.Error("HTTP Request", fields...)
		case status >= 400:
			log.Warn("HTTP Request", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// GetRequestID retrieves the request ID from the gin context
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}
