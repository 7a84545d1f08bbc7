package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// SettingsHandler listas de autocompletado.
type SettingsHandler struct {
	svc    *inventory.Service
	logger *logger.Logger
}

// NewSettingsHandler construye el handler.
func NewSettingsHandler(svc *inventory.Service, log *logger.Logger) *SettingsHandler {
	return &SettingsHandler{svc: svc, logger: log}
}

// Get godoc
// @Summary      Organizaciones y operadores conocidos
// @Tags         settings
// @Security     Bearer
// @Produce      json
// @Success      200   {object}  dto.SettingsResponse
// @Router       /api/settings [get]
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.svc.Settings())
}

// Update godoc
// @Summary      Reemplazar las listas de autocompletado
// @Tags         settings
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpdateSettingsRequest  true  "organizations, operators"
// @Success      200   {object}  dto.SettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/settings [put]
func (h *SettingsHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateSettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.UpdateSettings(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}
