package http

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/infrastructure/excel"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// OperationHandler log de operaciones: listar, registrar, importar y exportar.
type OperationHandler struct {
	svc    *inventory.Service
	logger *logger.Logger
	now    func() time.Time
}

// NewOperationHandler construye el handler.
func NewOperationHandler(svc *inventory.Service, log *logger.Logger, now func() time.Time) *OperationHandler {
	return &OperationHandler{svc: svc, logger: log, now: now}
}

// List godoc
// @Summary      Listar operaciones
// @Tags         operations
// @Security     Bearer
// @Produce      json
// @Param        q     query  string  false  "Texto a buscar en todos los campos"
// @Param        sort  query  string  false  "Campo de orden (vacío = orden de registro)"
// @Param        desc  query  bool    false  "Orden descendente"
// @Success      200   {object}  dto.OperationListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/operations [get]
func (h *OperationHandler) List(c *fiber.Ctx) error {
	var q dto.ListQuery
	if err := c.QueryParser(&q); err != nil {
		return writeError(c, h.logger, domain.NewValidationError("query", "parámetros inválidos"))
	}
	out, err := h.svc.ListOperations(q)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(out)
}

// Record godoc
// @Summary      Registrar operación
// @Description  El registrador es el del token. Una operación rechazada no se anexa al log.
// @Tags         operations
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordOperationRequest  true  "item_id, operation_kind, quantity, effective_time, operator"
// @Success      201   {object}  dto.RecordOperationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/operations [post]
func (h *OperationHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordOperationRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.svc.Record(c.UserContext(), in, GetSubmitter(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Import godoc
// @Summary      Importar operaciones desde .xlsx
// @Description  Cada fila se valida por separado; las filas rechazadas se informan y no se anexan.
// @Tags         operations
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Libro .xlsx"
// @Success      200   {object}  dto.ImportReport
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/operations/import [post]
func (h *OperationHandler) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return writeError(c, h.logger, domain.NewValidationError("file", "falta el archivo"))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.logger, err)
	}
	defer func() { _ = f.Close() }()

	rows, err := excel.ReadOperations(f)
	if err != nil {
		return writeError(c, h.logger, err)
	}
	report, err := h.svc.ImportOperations(c.UserContext(), rows, GetSubmitter(c))
	if err != nil {
		return writeError(c, h.logger, err)
	}
	return c.JSON(report)
}

// Export godoc
// @Summary      Exportar el log a .xlsx
// @Tags         operations
// @Security     Bearer
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success      200
// @Router       /api/operations/export [get]
func (h *OperationHandler) Export(c *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := excel.WriteOperations(&buf, h.svc.ExportOperations()); err != nil {
		return writeError(c, h.logger, err)
	}
	return sendFile(c, excel.Filename("operaciones", h.now()), excel.ContentType, buf.Bytes())
}

// sendFile responde un adjunto descargable.
func sendFile(c *fiber.Ctx, filename, contentType string, body []byte) error {
	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, contentType)
	return c.Send(body)
}
