package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Categorias-api/internal/application/dto"
	"github.com/jhoicas/Categorias-api/internal/domain"
	"github.com/jhoicas/Categorias-api/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: los errores específicos de jerarquía antes que los genéricos.
var errorMappings = []errorMapping{
	{domain.ErrUpperCategoryNotFound, fiber.StatusUnprocessableEntity, "UPPER_CATEGORY_NOT_FOUND"},
	{domain.ErrCycle, fiber.StatusConflict, "CYCLE"},
	{domain.ErrCategoryHasLowerCategories, fiber.StatusConflict, "HAS_LOWER_CATEGORIES"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrFormatUnavailable, fiber.StatusNotImplemented, "FORMAT_UNAVAILABLE"},
}

// writeError responde los errores de dominio conocidos. Los demás se devuelven para que
// los registre ErrorHandler.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return err
}

// ErrorHandler manejador de errores de fiber: 500 con log para todo lo no mapeado.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: statusCode(fe.Code), Message: fe.Message})
		}
		log.Error().Err(err).
			Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Msg("error no controlado")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

func statusCode(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return "NOT_FOUND"
	case fiber.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case fiber.StatusRequestEntityTooLarge:
		return "BODY_TOO_LARGE"
	default:
		return "HTTP_" + strconv.Itoa(status)
	}
}

// parseID lee un parámetro de ruta entero positivo.
func parseID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c *fiber.Ctx, name string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: name + " debe ser un entero positivo"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
