package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo proyección de inventario sobre PostgreSQL; cada guardado reemplaza la tabla completa.
type InventoryRepo struct {
	q   Querier
	tx  *TxRunner
	now func() time.Time
}

// NewInventoryRepository construye el adaptador de la proyección.
func NewInventoryRepository(q Querier, tx *TxRunner) *InventoryRepo {
	return &InventoryRepo{q: q, tx: tx, now: time.Now}
}

// LoadInventory devuelve los registros ordenados por itemId.
// Si la proyección nunca se guardó devuelve repository.ErrProjectionUnavailable.
func (r *InventoryRepo) LoadInventory(ctx context.Context) ([]entity.InventoryRecord, error) {
	var savedAt time.Time
	err := r.q.QueryRow(ctx, `SELECT saved_at FROM inventory_snapshot WHERE id = 1`).Scan(&savedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrProjectionUnavailable
		}
		return nil, fmt.Errorf("postgres: estado de la proyección: %w", err)
	}

	query := `
		SELECT item_id, item_name, organization, quantity, last_operation_kind,
		       last_operator, last_operation_time, note
		FROM inventory ORDER BY item_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: cargar inventario: %w", err)
	}
	defer rows.Close()

	var out []entity.InventoryRecord
	for rows.Next() {
		var rec entity.InventoryRecord
		var kind string
		if err := rows.Scan(
			&rec.ItemID, &rec.ItemName, &rec.Organization, &rec.Quantity, &kind,
			&rec.LastOperator, &rec.LastOperationTime, &rec.Note,
		); err != nil {
			// Un registro ilegible invalida la proyección; se reconstruye desde el log.
			return nil, fmt.Errorf("%w: %v", repository.ErrProjectionUnavailable, err)
		}
		rec.LastOperationKind = entity.OperationKind(kind)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: cargar inventario: %w", err)
	}
	return out, nil
}

// SaveInventory reemplaza la proyección dentro de una transacción.
func (r *InventoryRepo) SaveInventory(ctx context.Context, records []entity.InventoryRecord) error {
	return r.tx.Run(ctx, func(q Querier) error {
		if _, err := q.Exec(ctx, `DELETE FROM inventory`); err != nil {
			return fmt.Errorf("postgres: vaciar inventario: %w", err)
		}
		if len(records) > 0 {
			batch := &pgx.Batch{}
			for _, rec := range records {
				batch.Queue(`
					INSERT INTO inventory (item_id, item_name, organization, quantity, last_operation_kind,
					                       last_operator, last_operation_time, note)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
					rec.ItemID, rec.ItemName, rec.Organization, rec.Quantity, string(rec.LastOperationKind),
					rec.LastOperator, rec.LastOperationTime, rec.Note,
				)
			}
			br := q.SendBatch(ctx, batch)
			for i := range records {
				if _, err := br.Exec(); err != nil {
					_ = br.Close()
					return fmt.Errorf("postgres: insertar artículo %s: %w", records[i].ItemID, err)
				}
			}
			if err := br.Close(); err != nil {
				return fmt.Errorf("postgres: insertar inventario: %w", err)
			}
		}
		_, err := q.Exec(ctx, `
			INSERT INTO inventory_snapshot (id, saved_at) VALUES (1, $1)
			ON CONFLICT (id) DO UPDATE SET saved_at = EXCLUDED.saved_at`, r.now().UTC())
		if err != nil {
			return fmt.Errorf("postgres: marcar proyección: %w", err)
		}
		return nil
	})
}
