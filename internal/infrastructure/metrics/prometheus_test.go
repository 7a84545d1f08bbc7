package metrics_test

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/infrastructure/metrics"
)

var _ inventory.Metrics = (*metrics.Prometheus)(nil)

func TestPrometheus_Contadores(t *testing.T) {
	p := metrics.NewPrometheus()
	p.OperationRecorded(entity.KindStockIn)
	p.OperationRecorded(entity.KindStockIn)
	p.OperationRejected(inventory.CodeConflict)
	p.RebuildCompleted(7, 2)
	p.InventorySize(5)

	reg := p.Registry()
	n, err := testutil.GatherAndCount(reg, "almacen_operations_recorded_total")
	require.NoError(t, err)
	assert.Equal(t, len(entity.Kinds()), n, "una serie por tipo desde el inicio")

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `almacen_operations_recorded_total{kind="StockIn"} 2`)
	assert.Contains(t, string(body), `almacen_operations_rejected_total{code="CONFLICT"} 1`)
	assert.Contains(t, string(body), "almacen_rebuild_skipped_operations_total 2")
	assert.Contains(t, string(body), "almacen_inventory_items 5")
}
