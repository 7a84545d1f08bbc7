package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/badges"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// BadgeHandler carteles de nombre en PDF.
type BadgeHandler struct {
	uc     *badges.UseCase
	logger *logger.Logger
}

// NewBadgeHandler construye el handler.
func NewBadgeHandler(uc *badges.UseCase, log *logger.Logger) *BadgeHandler {
	return &BadgeHandler{uc: uc, logger: log}
}

// Generate godoc
// @Summary      Generar carteles de nombre
// @Description  Una hoja A4 por nombre; el nombre se imprime en ambas mitades para plegar.
// @Tags         badges
// @Security     Bearer
// @Accept       json
// @Produce      application/pdf
// @Param        body  body  dto.BadgeRequest  true  "names"
// @Success      200
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/badges [post]
func (h *BadgeHandler) Generate(c *fiber.Ctx) error {
	var in dto.BadgeRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	pdf, err := h.uc.Generate(c.UserContext(), in.Names)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return sendFile(c, "carteles.pdf", "application/pdf", pdf)
}
