package excel_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/excel"
)

// sheetBytes arma un .xlsx con las filas dadas en la primera hoja.
func sheetBytes(t *testing.T, rows ...[]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &rows[i]))
	}
	buf := &bytes.Buffer{}
	require.NoError(t, f.Write(buf))
	return buf
}

func TestFilename(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 5, 0, time.UTC)
	assert.Equal(t, "operaciones_20240301_093005.xlsx", excel.Filename("operaciones", at))
}

func TestWriteOperations_SeReimporta(t *testing.T) {
	ops := []entity.Operation{{
		ID: "a", SubmittedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC),
		ItemID: "01", ItemName: "Guantes", Organization: "Taller", Kind: entity.KindStockIn,
		Quantity: 10, EffectiveTime: "2024-03-01 09:00", Operator: "ana", Submitter: "luis",
	}}
	buf := &bytes.Buffer{}
	require.NoError(t, excel.WriteOperations(buf, ops))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	rows, err := f.GetRows("Operaciones")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"submittedAt", "itemId", "itemName", "operationKind", "organization",
		"quantity", "effectiveTime", "operator", "submitter",
	}, rows[0])
	assert.Equal(t, "2024-03-01 09:30:00", rows[1][0])
	_ = f.Close()

	back, err := excel.ReadOperations(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, 2, back[0].Row)
	assert.Equal(t, "01", back[0].ItemID)
	assert.Equal(t, "StockIn", back[0].Kind)
	assert.Equal(t, "10", back[0].Quantity)
	assert.Equal(t, "luis", back[0].Submitter)
}

func TestWriteInventory_Columnas(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, excel.WriteInventory(buf, []entity.InventoryRecord{
		{ItemID: "01", ItemName: "Guantes", Quantity: 5, LastOperationKind: entity.KindReplenish, Note: "talla M"},
	}))
	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows("Inventario")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"itemId", "itemName", "organization", "quantity",
		"lastOperationKind", "lastOperator", "lastOperationTime", "note",
	}, rows[0])
	assert.Equal(t, "5", rows[1][3])
	assert.Equal(t, "talla M", rows[1][7])
}

func TestReadOperations_EncabezadosEnChinoYDesordenados(t *testing.T) {
	buf := sheetBytes(t,
		[]any{"数量", "编号", "名称", "操作类型", "入库日期(YYYY-MM-DD)", "操作人"},
		[]any{12, "01", "手套", "入库", "2023-05-04", "王"},
		[]any{},
		[]any{"3", "01", "", "部分出库", "2023-05-05", "王"},
	)
	rows, err := excel.ReadOperations(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2, "la fila vacía se ignora")

	assert.Equal(t, 2, rows[0].Row)
	assert.Equal(t, "01", rows[0].ItemID)
	assert.Equal(t, "手套", rows[0].ItemName)
	assert.Equal(t, "12", rows[0].Quantity)
	assert.Equal(t, "入库", rows[0].Kind)
	assert.Equal(t, "2023-05-04", rows[0].EffectiveTime)
	assert.Equal(t, "王", rows[0].Operator)
	assert.Empty(t, rows[0].Submitter)

	assert.Equal(t, 4, rows[1].Row)
	assert.Equal(t, "3", rows[1].Quantity)
}

func TestReadOperations_EncabezadosEnEspanol(t *testing.T) {
	buf := sheetBytes(t,
		[]any{"Fecha de registro", "Código", "Nombre del artículo", "Tipo de operación", "Cantidad", "Fecha", "Operador", "Registrador"},
		[]any{"2024-03-01 09:30:00", "07", "Cinta", "Entrada", 4, "2024-03-01 09:00", "ana", "luis"},
	)
	rows, err := excel.ReadOperations(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	r := rows[0]
	assert.Equal(t, "07", r.ItemID)
	assert.Equal(t, "Cinta", r.ItemName)
	assert.Equal(t, "Entrada", r.Kind)
	assert.Equal(t, "4", r.Quantity)
	assert.Equal(t, "2024-03-01 09:00", r.EffectiveTime, "la fecha de registro no se confunde con la efectiva")
	assert.Equal(t, "ana", r.Operator)
	assert.Equal(t, "luis", r.Submitter)
}

func TestReadOperations_FaltaColumnaObligatoria(t *testing.T) {
	buf := sheetBytes(t, []any{"itemId", "itemName"}, []any{"01", "x"})
	_, err := excel.ReadOperations(buf)
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "operationKind")
}

func TestReadOperations_NoEsXLSX(t *testing.T) {
	_, err := excel.ReadOperations(bytes.NewReader([]byte("no soy un libro")))
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "file", domain.FieldOf(err))
}
