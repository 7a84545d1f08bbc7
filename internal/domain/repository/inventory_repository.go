package repository

import (
	"context"
	"errors"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ErrProjectionUnavailable la proyección persistida no existe o no se puede leer;
// el llamador debe reconstruirla desde el log.
var ErrProjectionUnavailable = errors.New("proyección de inventario no disponible")

// InventoryRepository puerto de persistencia de la proyección de inventario.
// SaveInventory reemplaza el documento completo.
type InventoryRepository interface {
	LoadInventory(ctx context.Context) ([]entity.InventoryRecord, error)
	SaveInventory(ctx context.Context, records []entity.InventoryRecord) error
}
