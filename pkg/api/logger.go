package api

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger logs every request, warning on 4xx and erroring on 5xx.
// Health checks are only logged at debug level.
func NewLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()
		err := c.Next()

		msg := "HTTP Request"
		if err != nil {
			msg = err.Error()
		}

		code := c.Response().StatusCode()
		var fiberError *fiber.Error
		if errors.As(err, &fiberError) {
			code = fiberError.Code
		}

		ipAddress := c.IP()
		if forwardedFor := c.Get(fiber.HeaderXForwardedFor); forwardedFor != "" {
			ipAddress = forwardedFor
		}

		requestLogger := log.With().
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", ipAddress).
			Str("latency", time.Since(startTime).String()).
			Str("user-agent", c.Get(fiber.HeaderUserAgent)).
			Logger()

		var event *zerolog.Event
		switch {
		case code >= fiber.StatusInternalServerError:
			event = requestLogger.Error()
		case code >= fiber.StatusBadRequest:
			event = requestLogger.Warn()
		case c.Path() == "/health":
			event = requestLogger.Debug()
		default:
			event = requestLogger.Info()
		}

		if query := string(c.Request().URI().QueryString()); query != "" {
			event = event.Str("query", query)
		}
		event.Msg(msg)

		return err
	}
}
