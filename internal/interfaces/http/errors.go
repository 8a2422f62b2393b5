package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/domain"
)

// writeError traduce un error de la aplicación al cuerpo {code, message} con su status.
func writeError(c *fiber.Ctx, err error) error {
	status := domain.StatusCode(err)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		reqLogger(c).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: domain.Code(err), Message: msg})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// NotFound respuesta JSON para rutas no registradas. Se registra al final con app.Use.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Code:    "ROUTE_NOT_FOUND",
		Message: "ruta no encontrada: " + c.Method() + " " + c.OriginalURL(),
	})
}

// ErrorHandler manejador global de Fiber: errores de Fiber (413, 405...) y pánicos recuperados.
func ErrorHandler(c *fiber.Ctx, err error) error {
	if fe, ok := err.(*fiber.Error); ok {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "HTTP_ERROR", Message: fe.Message})
	}
	return writeError(c, err)
}
