package inventory_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func request(itemID string, kind entity.OperationKind, qty int) dto.RecordOperationRequest {
	return dto.RecordOperationRequest{
		ItemID:        itemID,
		ItemName:      "Guantes",
		Organization:  "Limpieza",
		Kind:          string(kind),
		Quantity:      qty,
		EffectiveTime: "2024-03-01 10:00",
		Operator:      "ana",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Record
// ──────────────────────────────────────────────────────────────────────────────

func TestRecord_EntradaPersisteLogYProyeccion(t *testing.T) {
	store := &memStore{}
	metrics := newCountingMetrics()
	svc := newService(t, store, metrics)

	resp, err := svc.Record(context.Background(), request("01", entity.KindStockIn, 10), "luis")
	require.NoError(t, err)

	assert.Equal(t, "op-001", resp.Operation.ID)
	assert.Equal(t, fixedNow, resp.Operation.SubmittedAt)
	assert.Equal(t, "luis", resp.Operation.Submitter)
	require.NotNil(t, resp.Item)
	assert.Equal(t, 10, resp.Item.Quantity)

	require.Len(t, store.ops, 1)
	rec, ok := store.item("01")
	require.True(t, ok)
	assert.Equal(t, 10, rec.Quantity)
	assert.Equal(t, 1, metrics.recorded[entity.KindStockIn])
	assert.Equal(t, 1, metrics.size)
}

func TestRecord_RechazoNoSeAnexa(t *testing.T) {
	store := &memStore{}
	metrics := newCountingMetrics()
	svc := newService(t, store, metrics)
	ctx := context.Background()

	_, err := svc.Record(ctx, request("01", entity.KindStockIn, 10), "luis")
	require.NoError(t, err)

	// Salida parcial mayor al stock: no debe quedar en el log.
	_, err = svc.Record(ctx, request("01", entity.KindPartialStockOut, 11), "luis")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	// Segunda entrada del mismo artículo.
	_, err = svc.Record(ctx, request("01", entity.KindStockIn, 1), "luis")
	require.ErrorIs(t, err, domain.ErrConflict)

	// Reposición de un artículo inexistente.
	_, err = svc.Record(ctx, request("99", entity.KindReplenish, 1), "luis")
	require.ErrorIs(t, err, domain.ErrNotFound)

	list, err := svc.ListOperations(dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
	assert.Len(t, store.ops, 1)
	assert.Equal(t, 1, metrics.rejected[inventory.CodeInsufficientStock])
	assert.Equal(t, 1, metrics.rejected[inventory.CodeConflict])
	assert.Equal(t, 1, metrics.rejected[inventory.CodeNotFound])
}

func TestRecord_ValidacionIndicaCampo(t *testing.T) {
	svc := newService(t, &memStore{}, nil)

	req := request("01", entity.KindStockIn, 10)
	req.EffectiveTime = "01/03/2024"
	_, err := svc.Record(context.Background(), req, "luis")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "effective_time", domain.FieldOf(err))

	_, err = svc.Record(context.Background(), request("01", entity.KindStockIn, 10), "")
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "submitter", domain.FieldOf(err))
}

func TestRecord_CompletaNombreYOrganizacionDesdeStock(t *testing.T) {
	svc := newService(t, &memStore{}, nil)
	ctx := context.Background()

	_, err := svc.Record(ctx, request("01", entity.KindStockIn, 10), "luis")
	require.NoError(t, err)

	req := request("01", entity.KindReplenish, 5)
	req.ItemName, req.Organization = "", ""
	resp, err := svc.Record(ctx, req, "luis")
	require.NoError(t, err)
	assert.Equal(t, "Guantes", resp.Operation.ItemName)
	assert.Equal(t, "Limpieza", resp.Operation.Organization)
	assert.Equal(t, 15, resp.Item.Quantity)
}

func TestRecord_SalidaTotalDevuelveItemNil(t *testing.T) {
	svc := newService(t, &memStore{}, nil)
	ctx := context.Background()

	_, err := svc.Record(ctx, request("01", entity.KindStockIn, 10), "luis")
	require.NoError(t, err)
	resp, err := svc.Record(ctx, request("01", entity.KindStockOut, 1), "luis")
	require.NoError(t, err)
	assert.Nil(t, resp.Item)

	_, err = svc.GetItem("01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRecord_FalloDePersistenciaNoCambiaElEstado(t *testing.T) {
	for _, tc := range []struct {
		name    string
		failOps bool
		failInv bool
	}{
		{"falla el log", true, false},
		{"falla el inventario", false, true},
	} {
		t.Run(tc.name, func(t *testing.T) {
			store := &memStore{}
			svc := newService(t, store, nil)
			ctx := context.Background()
			_, err := svc.Record(ctx, request("01", entity.KindStockIn, 10), "luis")
			require.NoError(t, err)

			store.failOps, store.failInv = tc.failOps, tc.failInv
			_, err = svc.Record(ctx, request("01", entity.KindReplenish, 5), "luis")
			require.Error(t, err)
			assert.ErrorIs(t, err, errDisk)

			item, err := svc.GetItem("01")
			require.NoError(t, err)
			assert.Equal(t, 10, item.Quantity, "la proyección en memoria no cambia")
			list, err := svc.ListOperations(dto.ListQuery{})
			require.NoError(t, err)
			assert.Equal(t, 1, list.Total, "el log en memoria no cambia")
		})
	}
}

func TestRecord_LogDeSoloInsercionNoPierdeOperaciones(t *testing.T) {
	store := &memStore{}
	svc := newServiceWith(t, insertOnlyLog{store}, store, nil, nil)
	ctx := context.Background()
	_, err := svc.Record(ctx, request("01", entity.KindStockIn, 10), "luis")
	require.NoError(t, err)

	// El log ya quedó guardado cuando falla el inventario: la operación se acepta.
	store.failInv = true
	_, err = svc.Record(ctx, request("01", entity.KindReplenish, 1), "luis")
	require.NoError(t, err)
	item, err := svc.GetItem("01")
	require.NoError(t, err)
	assert.Equal(t, 11, item.Quantity)

	store.failInv = false
	_, err = svc.Record(ctx, request("01", entity.KindReplenish, 2), "luis")
	require.NoError(t, err)

	ids := make([]string, 0, len(store.ops))
	for _, op := range store.ops {
		ids = append(ids, op.ID)
	}
	assert.Equal(t, []string{"op-001", "op-002", "op-003"}, ids)
	rec, ok := store.item("01")
	require.True(t, ok)
	assert.Equal(t, 13, rec.Quantity)

	// Al reiniciar el log y la proyección coinciden.
	again := newServiceWith(t, insertOnlyLog{store}, store, nil, nil)
	item, err = again.GetItem("01")
	require.NoError(t, err)
	assert.Equal(t, 13, item.Quantity)
}

// ──────────────────────────────────────────────────────────────────────────────
// Load
// ──────────────────────────────────────────────────────────────────────────────

func TestLoad_ProyeccionNoDisponibleSeReconstruye(t *testing.T) {
	store := &memStore{
		ops: []entity.Operation{
			storedOp("a", "01", entity.KindStockIn, 10),
			storedOp("b", "01", entity.KindPartialStockOut, 4),
		},
		unavailable: true,
	}
	svc := newService(t, store, nil)

	item, err := svc.GetItem("01")
	require.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)
	assert.Equal(t, 1, store.invSaves, "la proyección reconstruida se guarda")
}

func TestLoad_ProyeccionDesalineadaSeReconstruyeConservandoNotas(t *testing.T) {
	store := &memStore{
		ops: []entity.Operation{storedOp("a", "01", entity.KindStockIn, 10)},
		items: []entity.InventoryRecord{
			{ItemID: "01", ItemName: "Artículo 01", Organization: "Taller", Quantity: 7, Note: "estante 3"},
			{ItemID: "02", ItemName: "Fantasma", Quantity: 1},
		},
	}
	svc := newService(t, store, nil)

	list, err := svc.ListInventory(dto.ListQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, 10, list.Items[0].Quantity)
	assert.Equal(t, "estante 3", list.Items[0].Note)
	assert.Equal(t, 1, store.invSaves)
}

func TestLoad_ProyeccionConsistenteNoSeReescribe(t *testing.T) {
	store := &memStore{
		ops: []entity.Operation{storedOp("a", "01", entity.KindStockIn, 10)},
		items: []entity.InventoryRecord{{
			ItemID: "01", ItemName: "Artículo 01", Organization: "Taller", Quantity: 10,
			LastOperationKind: entity.KindStockIn, LastOperator: "ana", LastOperationTime: "2024-03-01 09:00",
			Note: "estante 3",
		}},
	}
	newService(t, store, nil)
	assert.Zero(t, store.invSaves)
	assert.Zero(t, store.opsSaves)
}

func TestLoad_InventarioHeredadoSinLogSintetizaEntradas(t *testing.T) {
	store := &memStore{
		items: []entity.InventoryRecord{
			{ItemID: "02", ItemName: "Cinta", Organization: "Taller", Quantity: 3, LastOperationTime: "2023-05-04 00:00"},
			{ItemID: "01", ItemName: "Guantes", Quantity: 8, Note: "talla M"},
		},
	}
	svc := newService(t, store, nil)

	require.Len(t, store.ops, 2)
	assert.Equal(t, "01", store.ops[0].ItemID)
	assert.Equal(t, entity.KindStockIn, store.ops[0].Kind)
	assert.Equal(t, inventory.MigrationActor, store.ops[0].Submitter)
	assert.Equal(t, "2024-03-01 09:30", store.ops[0].EffectiveTime, "sin fecha se usa el reloj")
	assert.Equal(t, "2023-05-04 00:00", store.ops[1].EffectiveTime)

	item, err := svc.GetItem("01")
	require.NoError(t, err)
	assert.Equal(t, 8, item.Quantity)
	assert.Equal(t, "talla M", item.Note)
}

func TestLoad_UsaConfiguracionPorDefecto(t *testing.T) {
	svc := newService(t, &memStore{}, nil)
	assert.Equal(t, []string{"Taller"}, svc.Settings().Organizations)
}

// ──────────────────────────────────────────────────────────────────────────────
// Rebuild
// ──────────────────────────────────────────────────────────────────────────────

func TestRebuild_ReportaOmitidasYConservaNotas(t *testing.T) {
	store := &memStore{
		ops: []entity.Operation{
			storedOp("a", "01", entity.KindStockIn, 10),
			storedOp("b", "02", entity.KindStockOut, 1),
			storedOp("c", "01", entity.KindStockIn, 3),
			storedOp("d", "01", entity.KindReplenish, 2),
		},
		unavailable: true,
	}
	metrics := newCountingMetrics()
	svc := newService(t, store, metrics)
	ctx := context.Background()
	_, err := svc.SetNote(ctx, "01", "estante 3")
	require.NoError(t, err)

	resp, err := svc.Rebuild(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Applied)
	assert.Equal(t, 1, resp.Items)
	require.Len(t, resp.Skipped, 2)
	assert.Equal(t, "b", resp.Skipped[0].OperationID)
	assert.Equal(t, "c", resp.Skipped[1].OperationID)

	item, err := svc.GetItem("01")
	require.NoError(t, err)
	assert.Equal(t, 12, item.Quantity)
	assert.Equal(t, "estante 3", item.Note)
	assert.Equal(t, 2, metrics.rebuilds, "Load y Rebuild")
}

func TestRebuild_SalidaMayorAlStockVaciaYSeRegistranLasOmitidas(t *testing.T) {
	store := &memStore{
		ops: []entity.Operation{
			storedOp("a", "01", entity.KindStockIn, 5),
			storedOp("b", "01", entity.KindPartialStockOut, 10),
			storedOp("c", "02", entity.KindReplenish, 1),
		},
		unavailable: true,
	}
	var buf bytes.Buffer
	svc := newServiceWith(t, store, store, nil, logger.New(logger.Config{Env: "production", Level: "warn", Out: &buf}))
	buf.Reset()

	resp, err := svc.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Applied)
	assert.Equal(t, 0, resp.Items)
	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "c", resp.Skipped[0].OperationID)

	_, err = svc.GetItem("01")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Contains(t, buf.String(), `"operation_id":"c"`)
	assert.Contains(t, buf.String(), "operación histórica omitida")
}

// ──────────────────────────────────────────────────────────────────────────────
// Consultas
// ──────────────────────────────────────────────────────────────────────────────

func TestListOperations_BusquedaYOrden(t *testing.T) {
	svc := newService(t, &memStore{}, nil)
	ctx := context.Background()
	_, err := svc.Record(ctx, request("02", entity.KindStockIn, 5), "luis")
	require.NoError(t, err)
	req := request("01", entity.KindStockIn, 7)
	req.ItemName = "Cinta aislante"
	_, err = svc.Record(ctx, req, "marta")
	require.NoError(t, err)

	list, err := svc.ListOperations(dto.ListQuery{Q: "MARTA"})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "01", list.Operations[0].ItemID)

	list, err = svc.ListOperations(dto.ListQuery{Sort: "itemId"})
	require.NoError(t, err)
	assert.Equal(t, "01", list.Operations[0].ItemID)

	list, err = svc.ListOperations(dto.ListQuery{Desc: true})
	require.NoError(t, err)
	assert.Equal(t, "01", list.Operations[0].ItemID, "sin columna, desc invierte el orden de anexado")

	list, err = svc.ListOperations(dto.ListQuery{Q: "guantes", Desc: true})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "02", list.Operations[0].ItemID)

	list, err = svc.ListOperations(dto.ListQuery{Q: "cinta", Sort: "quantity", Desc: true})
	require.NoError(t, err)
	require.Equal(t, 1, list.Total)
	assert.Equal(t, "01", list.Operations[0].ItemID)

	_, err = svc.ListOperations(dto.ListQuery{Sort: "precio"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestNextItemID_PrimerHueco(t *testing.T) {
	svc := newService(t, &memStore{}, nil)
	ctx := context.Background()

	next, err := svc.NextItemID()
	require.NoError(t, err)
	assert.Equal(t, "01", next.ItemID)

	for _, id := range []string{"01", "02", "04"} {
		_, err := svc.Record(ctx, request(id, entity.KindStockIn, 1), "luis")
		require.NoError(t, err)
	}
	next, err = svc.NextItemID()
	require.NoError(t, err)
	assert.Equal(t, "03", next.ItemID)
}

func TestSetNote_ArticuloInexistente(t *testing.T) {
	svc := newService(t, &memStore{}, nil)
	_, err := svc.SetNote(context.Background(), "01", "x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ──────────────────────────────────────────────────────────────────────────────
// Importación y exportación
// ──────────────────────────────────────────────────────────────────────────────

func TestImportOperations_OmiteYReportaFilas(t *testing.T) {
	store := &memStore{}
	svc := newService(t, store, nil)

	rows := []dto.ImportRow{
		{Row: 2, ItemID: "01", ItemName: "Guantes", Kind: "入库", Quantity: "10", EffectiveTime: "2024-03-01", Operator: "ana"},
		{Row: 3, ItemID: "01", Kind: "salida parcial", Quantity: "4.0", EffectiveTime: "2024-03-02 08:00", Operator: "ana", Submitter: "marta"},
		{Row: 4, ItemID: "01", Kind: "PartialStockOut", Quantity: "50", EffectiveTime: "2024-03-02 09:00", Operator: "ana"},
		{Row: 5, ItemID: "02", Kind: "StockIn", ItemName: "Cinta", Quantity: "dos", EffectiveTime: "2024-03-02 09:00", Operator: "ana"},
		{Row: 6, ItemID: "03", ItemName: "Cinta", Kind: "Replenish", Quantity: "1", EffectiveTime: "2024-03-02 09:00", Operator: "ana"},
	}
	report, err := svc.ImportOperations(context.Background(), rows, "luis")
	require.NoError(t, err)

	assert.Equal(t, 2, report.Accepted)
	require.Len(t, report.Rejected, 3)
	assert.Equal(t, 4, report.Rejected[0].Row)
	assert.Equal(t, inventory.CodeInsufficientStock, report.Rejected[0].Code)
	assert.Equal(t, 5, report.Rejected[1].Row)
	assert.Equal(t, "quantity", report.Rejected[1].Field)
	assert.Equal(t, inventory.CodeNotFound, report.Rejected[2].Code)

	require.Len(t, store.ops, 2)
	assert.Equal(t, "2024-03-01 00:00", store.ops[0].EffectiveTime)
	assert.Equal(t, "luis", store.ops[0].Submitter)
	assert.Equal(t, "marta", store.ops[1].Submitter)
	assert.Equal(t, "Guantes", store.ops[1].ItemName)
	assert.Equal(t, fixedNow, store.ops[1].SubmittedAt)

	item, err := svc.GetItem("01")
	require.NoError(t, err)
	assert.Equal(t, 6, item.Quantity)
	assert.Equal(t, 1, store.opsSaves, "una sola escritura al final")
}

func TestImportOperations_SinFilasValidasNoEscribe(t *testing.T) {
	store := &memStore{}
	svc := newService(t, store, nil)
	report, err := svc.ImportOperations(context.Background(), []dto.ImportRow{{Row: 2, ItemID: "01"}}, "luis")
	require.NoError(t, err)
	assert.Zero(t, report.Accepted)
	assert.Len(t, report.Rejected, 1)
	assert.Zero(t, store.opsSaves)
}

func TestExportInventory_OrdenadoPorID(t *testing.T) {
	svc := newService(t, &memStore{}, nil)
	ctx := context.Background()
	for _, id := range []string{"03", "01", "02"} {
		_, err := svc.Record(ctx, request(id, entity.KindStockIn, 1), "luis")
		require.NoError(t, err)
	}
	recs := svc.ExportInventory()
	require.Len(t, recs, 3)
	assert.Equal(t, "01", recs[0].ItemID)
	assert.Equal(t, "03", recs[2].ItemID)
	assert.Equal(t, "03", svc.ExportOperations()[0].ItemID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Configuración
// ──────────────────────────────────────────────────────────────────────────────

func TestUpdateSettings(t *testing.T) {
	store := &memStore{}
	svc := newService(t, store, nil)
	ctx := context.Background()

	out, err := svc.UpdateSettings(ctx, dto.UpdateSettingsRequest{
		Organizations: []string{" Taller ", "Taller", "Limpieza"},
		Operators:     []string{"ana"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Taller", "Limpieza"}, out.Organizations)
	assert.Equal(t, 1, store.settingsSave)

	_, err = svc.UpdateSettings(ctx, dto.UpdateSettingsRequest{Operators: []string{"ana", "  "}})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, []string{"Taller", "Limpieza"}, svc.Settings().Organizations)
}
