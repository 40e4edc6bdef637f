package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// AccessLog registra cada petición con zerolog: método, ruta, status, latencia y request id.
func AccessLog(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			// El ErrorHandler todavía no escribió la respuesta.
			status, _ = mapError(err)
		}
		ev := logger.Info()
		if status >= fiber.StatusInternalServerError {
			ev = logger.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = logger.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("http")
		return err
	}
}
