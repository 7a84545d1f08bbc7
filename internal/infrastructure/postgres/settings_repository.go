package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.SettingsRepository = (*SettingsRepo)(nil)

// SettingsRepo listas de autocompletado en una única fila.
type SettingsRepo struct {
	q Querier
}

// NewSettingsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSettingsRepository(q Querier) *SettingsRepo {
	return &SettingsRepo{q: q}
}

// LoadSettings devuelve (nil, nil) si no hay configuración guardada.
func (r *SettingsRepo) LoadSettings(ctx context.Context) (*entity.Settings, error) {
	var s entity.Settings
	err := r.q.QueryRow(ctx, `SELECT organizations, operators FROM settings WHERE id = 1`).
		Scan(&s.Organizations, &s.Operators)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("postgres: cargar configuración: %w", err)
	}
	return &s, nil
}

// SaveSettings reemplaza ambas listas.
func (r *SettingsRepo) SaveSettings(ctx context.Context, s entity.Settings) error {
	orgs, ops := s.Organizations, s.Operators
	if orgs == nil {
		orgs = []string{}
	}
	if ops == nil {
		ops = []string{}
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO settings (id, organizations, operators) VALUES (1, $1, $2)
		ON CONFLICT (id) DO UPDATE SET organizations = EXCLUDED.organizations, operators = EXCLUDED.operators`,
		orgs, ops)
	if err != nil {
		return fmt.Errorf("postgres: guardar configuración: %w", err)
	}
	return nil
}
