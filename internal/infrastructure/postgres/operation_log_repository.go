package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.OperationLogRepository = (*OperationLogRepo)(nil)

// OperationLogRepo log de operaciones sobre PostgreSQL. Solo inserta; nunca actualiza ni borra.
type OperationLogRepo struct {
	q  Querier
	tx *TxRunner
}

// NewOperationLogRepository construye el adaptador del log.
func NewOperationLogRepository(q Querier, tx *TxRunner) *OperationLogRepo {
	return &OperationLogRepo{q: q, tx: tx}
}

// LoadOperations devuelve el log en orden de inserción.
func (r *OperationLogRepo) LoadOperations(ctx context.Context) ([]entity.Operation, error) {
	query := `
		SELECT id, submitted_at, item_id, item_name, organization, operation_kind,
		       quantity, effective_time, operator, submitter
		FROM operations ORDER BY seq`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: cargar operaciones: %w", err)
	}
	defer rows.Close()

	var ops []entity.Operation
	for rows.Next() {
		var op entity.Operation
		var kind string
		if err := rows.Scan(
			&op.ID, &op.SubmittedAt, &op.ItemID, &op.ItemName, &op.Organization, &kind,
			&op.Quantity, &op.EffectiveTime, &op.Operator, &op.Submitter,
		); err != nil {
			return nil, fmt.Errorf("postgres: leer operación: %w", err)
		}
		op.Kind = entity.OperationKind(kind)
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: cargar operaciones: %w", err)
	}
	return ops, nil
}

// AppendOnly el log en PostgreSQL no se reescribe.
func (r *OperationLogRepo) AppendOnly() bool { return true }

// SaveOperations inserta las operaciones que siguen a la última guardada, buscándola por id.
// Si la última guardada no está en ops se envían todas; un id repetido se ignora.
func (r *OperationLogRepo) SaveOperations(ctx context.Context, ops []entity.Operation) error {
	return r.tx.Run(ctx, func(q Querier) error {
		var lastID string
		err := q.QueryRow(ctx, `SELECT id FROM operations ORDER BY seq DESC LIMIT 1`).Scan(&lastID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("postgres: última operación: %w", err)
		}
		pending := pendingAfter(ops, lastID)
		if len(pending) == 0 {
			return nil
		}

		batch := &pgx.Batch{}
		for _, op := range pending {
			batch.Queue(`
				INSERT INTO operations (id, submitted_at, item_id, item_name, organization,
				                        operation_kind, quantity, effective_time, operator, submitter)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
				ON CONFLICT (id) DO NOTHING`,
				op.ID, op.SubmittedAt, op.ItemID, op.ItemName, op.Organization,
				string(op.Kind), op.Quantity, op.EffectiveTime, op.Operator, op.Submitter,
			)
		}
		br := q.SendBatch(ctx, batch)
		for i := range pending {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("postgres: insertar operación %s: %w", pending[i].ID, err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("postgres: insertar operaciones: %w", err)
		}
		return nil
	})
}

// pendingAfter devuelve las operaciones posteriores a lastID, o todas si lastID no aparece.
func pendingAfter(ops []entity.Operation, lastID string) []entity.Operation {
	if lastID == "" {
		return ops
	}
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].ID == lastID {
			return ops[i+1:]
		}
	}
	return ops
}
