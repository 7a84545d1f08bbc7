package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// OperationLogRepository puerto de persistencia del log de operaciones.
// Save recibe el log completo; las implementaciones nunca eliminan registros ya guardados.
type OperationLogRepository interface {
	LoadOperations(ctx context.Context) ([]entity.Operation, error)
	SaveOperations(ctx context.Context, ops []entity.Operation) error
}

// AppendOnlyLog lo implementan los almacenes que solo insertan: un log guardado no
// se puede volver a una versión anterior.
type AppendOnlyLog interface {
	AppendOnly() bool
}
