package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// SettingsRepository puerto para las listas de autocompletado.
// LoadSettings devuelve (nil, nil) si aún no hay configuración guardada.
type SettingsRepository interface {
	LoadSettings(ctx context.Context) (*entity.Settings, error)
	SaveSettings(ctx context.Context, s entity.Settings) error
}
