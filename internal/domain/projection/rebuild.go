package projection

import (
	"errors"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// SkippedEntry operación histórica que no se pudo aplicar durante la reconstrucción.
type SkippedEntry struct {
	Position  int // índice en el log (0 = más antigua)
	Operation entity.Operation
	Reason    string
}

// RebuildReport resultado de Rebuild.
type RebuildReport struct {
	Applied int
	Skipped []SkippedEntry
}

// Rebuild vacía la proyección y reproduce ops en orden con las mismas reglas que
// ApplyIncremental, pero tolerante. Una salida parcial mayor al stock vacía el
// artículo, igual que llegar a cero. Las salidas o reposiciones huérfanas y las
// entradas duplicadas se omiten y se informan. Nunca falla.
func (p *Projection) Rebuild(ops []entity.Operation) RebuildReport {
	p.items = make(map[string]entity.InventoryRecord)
	var report RebuildReport
	for i, op := range ops {
		if err := p.Check(op); err != nil && !errors.Is(err, domain.ErrInsufficientStock) {
			report.Skipped = append(report.Skipped, SkippedEntry{Position: i, Operation: op, Reason: err.Error()})
			continue
		}
		p.apply(op)
		report.Applied++
	}
	return report
}
