package inventory

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// Metrics registra eventos del servicio de inventario (Prometheus en producción).
type Metrics interface {
	OperationRecorded(kind entity.OperationKind)
	OperationRejected(code string)
	RebuildCompleted(applied, skipped int)
	InventorySize(items int)
}

// NopMetrics descarta las métricas.
type NopMetrics struct{}

func (NopMetrics) OperationRecorded(entity.OperationKind) {}
func (NopMetrics) OperationRejected(string)               {}
func (NopMetrics) RebuildCompleted(int, int)              {}
func (NopMetrics) InventorySize(int)                      {}
