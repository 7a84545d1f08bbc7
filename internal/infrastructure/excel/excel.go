// Package excel exporta el log y el inventario a .xlsx e importa operaciones desde hojas de cálculo.
package excel

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/oplog"
	"github.com/jhoicas/almacen-api/internal/domain/projection"
)

// ContentType tipo MIME de los archivos generados.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const submittedAtLayout = "2006-01-02 15:04:05"

// Filename nombre con fecha y hora para una exportación, p. ej. operaciones_20240301_093000.xlsx.
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.Format("20060102_150405"))
}

// WriteOperations escribe el log con las columnas en orden de exportación.
func WriteOperations(w io.Writer, ops []entity.Operation) error {
	header := make([]any, 0, len(oplog.Fields()))
	for _, f := range oplog.Fields() {
		header = append(header, string(f))
	}
	rows := make([][]any, 0, len(ops))
	for _, op := range ops {
		rows = append(rows, []any{
			op.SubmittedAt.Format(submittedAtLayout),
			op.ItemID,
			op.ItemName,
			string(op.Kind),
			op.Organization,
			op.Quantity,
			op.EffectiveTime,
			op.Operator,
			op.Submitter,
		})
	}
	return writeSheet(w, "Operaciones", header, rows)
}

// WriteInventory escribe el stock actual con las columnas en orden de exportación.
func WriteInventory(w io.Writer, records []entity.InventoryRecord) error {
	header := make([]any, 0, len(projection.Fields()))
	for _, f := range projection.Fields() {
		header = append(header, string(f))
	}
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		rows = append(rows, []any{
			r.ItemID,
			r.ItemName,
			r.Organization,
			r.Quantity,
			string(r.LastOperationKind),
			r.LastOperator,
			r.LastOperationTime,
			r.Note,
		})
	}
	return writeSheet(w, "Inventario", header, rows)
}

func writeSheet(w io.Writer, name string, header []any, rows [][]any) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(sheet, name); err != nil {
		return fmt.Errorf("excel: renombrar hoja: %w", err)
	}
	sheet = name

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("excel: encabezado: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: estilo: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("excel: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
		return fmt.Errorf("excel: estilo: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(header))
	if err := f.SetColWidth(sheet, "A", lastCol, 18); err != nil {
		return fmt.Errorf("excel: ancho de columnas: %w", err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("excel: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("excel: fila %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("excel: escribir: %w", err)
	}
	return nil
}

// ReadOperations lee la primera hoja. La primera fila es el encabezado, en cualquier orden;
// las columnas se reconocen por nombre (inglés, español o chino). Las filas vacías se ignoran.
// Los valores se devuelven como texto; la validación ocurre al importar.
func ReadOperations(r io.Reader) ([]dto.ImportRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, domain.NewValidationError("file", "no es un archivo .xlsx legible")
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.NewValidationError("file", "el libro no tiene hojas")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("excel: leer hoja %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, domain.NewValidationError("file", "la hoja está vacía")
	}

	cols := matchColumns(rows[0])
	for _, req := range requiredColumns {
		if _, ok := cols[req]; !ok {
			return nil, domain.NewValidationError("file", "falta la columna "+string(req))
		}
	}

	get := func(row []string, field oplog.Field) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]dto.ImportRow, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if blank(row) {
			continue
		}
		out = append(out, dto.ImportRow{
			Row:           i + 2,
			ItemID:        get(row, oplog.FieldItemID),
			ItemName:      get(row, oplog.FieldItemName),
			Organization:  get(row, oplog.FieldOrganization),
			Kind:          get(row, oplog.FieldOperationKind),
			Quantity:      get(row, oplog.FieldQuantity),
			EffectiveTime: get(row, oplog.FieldEffectiveTime),
			Operator:      get(row, oplog.FieldOperator),
			Submitter:     get(row, oplog.FieldSubmitter),
		})
	}
	return out, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
