package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/tienda-api/pkg/logger"
)

// LocalLogger key de c.Locals con el logger de la petición.
const LocalLogger = "logger"

// RequestLogger registra método, ruta, status y latencia de cada petición.
// Debe ir después de requestid.New() para incluir el request_id.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		rl := log.WithStr("request_id", reqID)
		c.Locals(LocalLogger, rl)

		err := c.Next()
		if err != nil {
			// Delegar al ErrorHandler para conocer el status final.
			if hErr := c.App().ErrorHandler(c, err); hErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		ev := rl.Info()
		if status >= fiber.StatusInternalServerError {
			ev = rl.Error()
		} else if status >= fiber.StatusBadRequest {
			ev = rl.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
		return nil
	}
}

// reqLogger logger de la petición; Nop si el middleware no está montado.
func reqLogger(c *fiber.Ctx) *logger.Logger {
	if l, ok := c.Locals(LocalLogger).(*logger.Logger); ok {
		return l
	}
	return logger.Nop()
}
