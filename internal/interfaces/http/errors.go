package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

var statusByCode = map[string]int{
	inventory.CodeValidation:        fiber.StatusBadRequest,
	inventory.CodeConflict:          fiber.StatusConflict,
	inventory.CodeNotFound:          fiber.StatusNotFound,
	inventory.CodeInsufficientStock: fiber.StatusConflict,
	inventory.CodeInternal:          fiber.StatusInternalServerError,
}

// writeError traduce un error de la aplicación a dto.ErrorResponse.
// Los errores internos se registran y no exponen el detalle.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	code := inventory.ErrorCode(err)
	resp := dto.ErrorResponse{Code: code, Message: err.Error(), Field: domain.FieldOf(err)}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		resp.Message = ve.Reason
	}
	if code == inventory.CodeInternal {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
		resp.Message = "error interno"
	}
	return c.Status(statusByCode[code]).JSON(resp)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
