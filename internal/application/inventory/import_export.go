package inventory

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/projection"
)

// legacyDateLayout fecha sin hora de las planillas heredadas.
const legacyDateLayout = "2006-01-02"

// ImportOperations registra filas leídas de una hoja de cálculo, en orden.
// Cada fila se valida y se verifica contra el stock resultante de las filas anteriores;
// las que fallan se omiten y se reportan. Las aceptadas se guardan juntas al final.
// submitter es el usuario autenticado, usado cuando la fila no trae registrador.
func (s *Service) ImportOperations(ctx context.Context, rows []dto.ImportRow, submitter string) (*dto.ImportReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	nextLog, nextProj := s.log.Clone(), s.proj.Clone()
	report := &dto.ImportReport{Rejected: []dto.ImportRejection{}}
	var accepted []entity.Operation

	for _, row := range rows {
		op, err := fromImportRow(row, submitter, nextProj)
		if err == nil {
			op, err = s.appendChecked(nextLog, nextProj, op)
		}
		if err != nil {
			code := ErrorCode(err)
			s.metrics.OperationRejected(code)
			report.Rejected = append(report.Rejected, dto.ImportRejection{
				Row:     row.Row,
				Field:   domain.FieldOf(err),
				Code:    code,
				Message: err.Error(),
			})
			continue
		}
		accepted = append(accepted, op)
	}

	if len(accepted) > 0 {
		if err := s.persist(ctx, nextLog, nextProj); err != nil {
			return nil, err
		}
		s.log, s.proj = nextLog, nextProj
		for _, op := range accepted {
			s.metrics.OperationRecorded(op.Kind)
		}
		s.metrics.InventorySize(s.proj.Len())
	}
	report.Accepted = len(accepted)

	s.logger.Info().
		Int("rows", len(rows)).
		Int("accepted", report.Accepted).
		Int("rejected", len(report.Rejected)).
		Msg("importación terminada")
	return report, nil
}

func fromImportRow(row dto.ImportRow, submitter string, p *projection.Projection) (entity.Operation, error) {
	qty, err := parseQuantity(row.Quantity)
	if err != nil {
		return entity.Operation{}, err
	}
	by := strings.TrimSpace(row.Submitter)
	if by == "" {
		by = submitter
	}
	op := entity.Operation{
		ItemID:        strings.TrimSpace(row.ItemID),
		ItemName:      row.ItemName,
		Organization:  row.Organization,
		Kind:          entity.ParseOperationKind(row.Kind),
		Quantity:      qty,
		EffectiveTime: normalizeEffectiveTime(row.EffectiveTime),
		Operator:      row.Operator,
		Submitter:     by,
	}
	return fillFromStock(op, p), nil
}

// parseQuantity acepta enteros y números con parte decimal nula ("12", "12.0").
func parseQuantity(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, domain.NewValidationError("quantity", "es obligatorio")
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != float64(int(f)) {
		return 0, domain.NewValidationError("quantity", "debe ser un número entero")
	}
	return int(f), nil
}

// normalizeEffectiveTime completa con 00:00 las fechas sin hora; lo demás queda para la validación.
func normalizeEffectiveTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(legacyDateLayout, raw); err == nil {
		return raw + " 00:00"
	}
	// Celdas de fecha con segundos ("2024-03-01 10:30:00").
	if t, err := time.Parse("2006-01-02 15:04:05", raw); err == nil {
		return t.Format(entity.EffectiveTimeLayout)
	}
	return raw
}

// ExportOperations copia del log en orden de anexado.
func (s *Service) ExportOperations() []entity.Operation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log.All()
}

// ExportInventory stock actual ordenado por itemID.
func (s *Service) ExportInventory() []entity.InventoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedRecords(s.proj)
}
