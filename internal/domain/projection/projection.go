// Package projection mantiene la vista de stock actual derivada del log de operaciones.
//
// Invariante: para el log existente, la proyección es igual a reproducir el log completo
// desde vacío aplicando cada operación en orden. Un artículo está presente si y solo si
// su cantidad neta es mayor que cero; llegar a cero elimina el registro.
package projection

import (
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Projection mapa itemID -> registro de inventario.
type Projection struct {
	items map[string]entity.InventoryRecord
}

// New construye una proyección vacía.
func New() *Projection {
	return &Projection{items: make(map[string]entity.InventoryRecord)}
}

// Check devuelve el error que produciría ApplyIncremental(op) sin modificar la proyección.
func (p *Projection) Check(op entity.Operation) error {
	cur, ok := p.items[op.ItemID]
	switch op.Kind {
	case entity.KindStockIn:
		if ok {
			return fmt.Errorf("entrada de %q: ya tiene stock, use Replenish: %w", op.ItemID, domain.ErrConflict)
		}
	case entity.KindReplenish, entity.KindStockOut:
		if !ok {
			return fmt.Errorf("%s de %q: %w", op.Kind, op.ItemID, domain.ErrNotFound)
		}
	case entity.KindPartialStockOut:
		if !ok {
			return fmt.Errorf("%s de %q: %w", op.Kind, op.ItemID, domain.ErrNotFound)
		}
		if op.Quantity > cur.Quantity {
			return fmt.Errorf("salida de %d sobre %d disponibles en %q: %w",
				op.Quantity, cur.Quantity, op.ItemID, domain.ErrInsufficientStock)
		}
	default:
		return domain.NewValidationError("operation_kind", "tipo de operación desconocido")
	}
	return nil
}

// ApplyIncremental aplica una operación ya validada y anexada al log.
// Si devuelve error la proyección queda intacta.
func (p *Projection) ApplyIncremental(op entity.Operation) error {
	if err := p.Check(op); err != nil {
		return err
	}
	p.apply(op)
	return nil
}

// apply asume que Check(op) == nil.
func (p *Projection) apply(op entity.Operation) {
	switch op.Kind {
	case entity.KindStockIn:
		p.items[op.ItemID] = entity.InventoryRecord{
			ItemID:            op.ItemID,
			ItemName:          op.ItemName,
			Organization:      op.Organization,
			Quantity:          op.Quantity,
			LastOperationKind: op.Kind,
			LastOperator:      op.Operator,
			LastOperationTime: op.EffectiveTime,
		}
	case entity.KindReplenish:
		rec := p.items[op.ItemID]
		rec.Quantity += op.Quantity
		p.items[op.ItemID] = touch(rec, op)
	case entity.KindPartialStockOut:
		rec := p.items[op.ItemID]
		rec.Quantity -= op.Quantity
		if rec.Quantity <= 0 {
			delete(p.items, op.ItemID)
			return
		}
		p.items[op.ItemID] = touch(rec, op)
	case entity.KindStockOut:
		// La cantidad registrada es informativa: la salida total siempre vacía el artículo.
		delete(p.items, op.ItemID)
	}
}

func touch(rec entity.InventoryRecord, op entity.Operation) entity.InventoryRecord {
	rec.LastOperationKind = op.Kind
	rec.LastOperator = op.Operator
	rec.LastOperationTime = op.EffectiveTime
	return rec
}

// Get devuelve el registro actual o domain.ErrNotFound.
func (p *Projection) Get(itemID string) (entity.InventoryRecord, error) {
	rec, ok := p.items[itemID]
	if !ok {
		return entity.InventoryRecord{}, fmt.Errorf("artículo %q: %w", itemID, domain.ErrNotFound)
	}
	return rec, nil
}

// Has indica si itemID tiene stock.
func (p *Projection) Has(itemID string) bool {
	_, ok := p.items[itemID]
	return ok
}

// All devuelve los registros actuales sin orden definido.
func (p *Projection) All() []entity.InventoryRecord {
	out := make([]entity.InventoryRecord, 0, len(p.items))
	for _, rec := range p.items {
		out = append(out, rec)
	}
	return out
}

// Len cantidad de artículos con stock.
func (p *Projection) Len() int { return len(p.items) }

// SetNote cambia la nota libre de un artículo presente.
func (p *Projection) SetNote(itemID, note string) error {
	rec, ok := p.items[itemID]
	if !ok {
		return fmt.Errorf("artículo %q: %w", itemID, domain.ErrNotFound)
	}
	rec.Note = note
	p.items[itemID] = rec
	return nil
}

// Clone copia independiente.
func (p *Projection) Clone() *Projection {
	c := &Projection{items: make(map[string]entity.InventoryRecord, len(p.items))}
	for k, v := range p.items {
		c.items[k] = v
	}
	return c
}

// Restore reemplaza el contenido con registros persistidos. Registros con cantidad <= 0 se descartan.
func (p *Projection) Restore(records []entity.InventoryRecord) {
	p.items = make(map[string]entity.InventoryRecord, len(records))
	for _, rec := range records {
		if rec.ItemID == "" || rec.Quantity <= 0 {
			continue
		}
		p.items[rec.ItemID] = rec
	}
}
