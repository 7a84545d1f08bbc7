package http

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/excel"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ReportGenerator renderiza la planilla de stock en PDF.
type ReportGenerator interface {
	InventoryReport(ctx context.Context, records []entity.InventoryRecord) ([]byte, error)
}

// InventoryHandler stock actual (protegido).
type InventoryHandler struct {
	svc     *inventory.Service
	reports ReportGenerator
	logger  *logger.Logger
	now     func() time.Time
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *inventory.Service, reports ReportGenerator, log *logger.Logger, now func() time.Time) *InventoryHandler {
	return &InventoryHandler{svc: svc, reports: reports, logger: log, now: now}
}

// List godoc
// @Summary      Listar stock
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        q     query  string  false  "Texto a buscar en todos los campos"
// @Param        sort  query  string  false  "Campo de orden (por defecto itemId)"
// @Param        desc  query  bool    false  "Orden descendente"
// @Success      200   {object}  dto.InventoryListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, h.logger, domain.NewValidationError("query", "parámetros inválidos"))
	}
	out, err := h.svc.ListInventory(q)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}

// Get godoc
// @Summary      Stock de un artículo
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        itemId  path  string  true  "ID del artículo"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId} [get]
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.GetItem(c.Params("itemId"))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}

// NextID godoc
// @Summary      Sugerir ID libre
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200   {object}  dto.NextItemIDResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/next-id [get]
func (h *InventoryHandler) NextID(c *fiber.Ctx) error {
	out, err := h.svc.NextItemID()
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}

// SetNote godoc
// @Summary      Cambiar la nota de un artículo
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        itemId  path  string                 true  "ID del artículo"
// @Param        body    body  dto.UpdateNoteRequest  true  "note"
// @Success      200   {object}  dto.InventoryResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/{itemId}/note [put]
func (h *InventoryHandler) SetNote(c *fiber.Ctx) error {
	var in dto.UpdateNoteRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.SetNote(c.UserContext(), c.Params("itemId"), in.Note)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}

// Rebuild godoc
// @Summary      Reconstruir el stock desde el log
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200   {object}  dto.RebuildResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/inventory/rebuild [post]
func (h *InventoryHandler) Rebuild(c *fiber.Ctx) error {
	out, err := h.svc.Rebuild(c.UserContext())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	h.logger.Info().Str("submitter", GetSubmitter(c)).Int("skipped", len(out.Skipped)).Msg("reconstrucción solicitada")
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar el stock a .xlsx
// @Tags         inventory
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/inventory/export [get]
func (h *InventoryHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := excel.WriteInventory(&buf, h.svc.ExportInventory()); err != nil {
		return writeError(c, h.logger, err)
	}
	return sendFile(c, excel.Filename("inventario", h.now()), excel.ContentType, buf.Bytes())
}

// Report godoc
// @Summary      Planilla de stock en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Success      200
// @Router       /api/inventory/report.pdf [get]
func (h *InventoryHandler) Report(c *fiber.Ctx) error {
	pdf, err := h.reports.InventoryReport(c.UserContext(), h.svc.ExportInventory())
	if err != nil {
		return writeError(c, h.logger, err)
	}
	name := fmt.Sprintf("inventario_%s.pdf", h.now().Format("20060102_150405"))
	return sendFile(c, name, "application/pdf", pdf)
}
