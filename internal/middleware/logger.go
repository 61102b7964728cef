package middleware

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	HeaderRequestID = "X-Request-ID"
	requestIDKey    = "request_id"
	loggerKey       = "logger"
)

// Logger tags every request with a request id and logs its outcome.
func Logger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get(HeaderRequestID)
		if _, err := uuid.Parse(requestID); err != nil {
			requestID = uuid.NewString()
		}
		c.Set(HeaderRequestID, requestID)

		requestLogger := logger.With("request_id", requestID)
		c.Locals(requestIDKey, requestID)
		c.Locals(loggerKey, requestLogger)

		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		level := slog.LevelInfo
		if status >= fiber.StatusInternalServerError {
			level = slog.LevelError
		}
		requestLogger.Log(c.UserContext(), level, "Request",
			"method", c.Method(),
			"url", c.OriginalURL(),
			"ip", c.IP(),
			"status", status,
			"duration", time.Since(start),
		)

		return err
	}
}

// RequestID returns the id assigned by Logger, or "" outside of it.
func RequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// LoggerOf returns the request scoped logger, falling back to the default logger.
func LoggerOf(c *fiber.Ctx) *slog.Logger {
	if l, ok := c.Locals(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}
