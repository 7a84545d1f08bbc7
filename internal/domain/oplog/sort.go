package oplog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// Field columna del log, con los mismos nombres que la exportación tabular.
type Field string

// Columnas en el orden de exportación.
const (
	FieldSubmittedAt   Field = "submittedAt"
	FieldItemID        Field = "itemId"
	FieldItemName      Field = "itemName"
	FieldOperationKind Field = "operationKind"
	FieldOrganization  Field = "organization"
	FieldQuantity      Field = "quantity"
	FieldEffectiveTime Field = "effectiveTime"
	FieldOperator      Field = "operator"
	FieldSubmitter     Field = "submitter"
)

// Fields devuelve las columnas en el orden de exportación.
func Fields() []Field {
	return []Field{
		FieldSubmittedAt, FieldItemID, FieldItemName, FieldOperationKind, FieldOrganization,
		FieldQuantity, FieldEffectiveTime, FieldOperator, FieldSubmitter,
	}
}

// ParseField acepta el nombre de columna sin distinguir mayúsculas.
func ParseField(s string) (Field, error) {
	for _, f := range Fields() {
		if strings.EqualFold(string(f), strings.TrimSpace(s)) {
			return f, nil
		}
	}
	return "", domain.NewValidationError("sort", "columna desconocida: "+s)
}

// SortedBy devuelve una copia ordenada por field. El orden es estable: los empates
// conservan el orden de anexado. No altera el orden almacenado.
func (l *Log) SortedBy(field Field, descending bool) []entity.Operation {
	out := l.All()
	compare := comparator(field)
	slices.SortStableFunc(out, func(a, b entity.Operation) int {
		c := compare(a, b)
		if descending {
			return -c
		}
		return c
	})
	return out
}

func comparator(field Field) func(a, b entity.Operation) int {
	switch field {
	case FieldSubmittedAt:
		return func(a, b entity.Operation) int { return a.SubmittedAt.Compare(b.SubmittedAt) }
	case FieldItemName:
		return func(a, b entity.Operation) int { return cmp.Compare(a.ItemName, b.ItemName) }
	case FieldOperationKind:
		return func(a, b entity.Operation) int { return cmp.Compare(a.Kind, b.Kind) }
	case FieldOrganization:
		return func(a, b entity.Operation) int { return cmp.Compare(a.Organization, b.Organization) }
	case FieldQuantity:
		return func(a, b entity.Operation) int { return cmp.Compare(a.Quantity, b.Quantity) }
	case FieldEffectiveTime:
		// YYYY-MM-DD HH:MM ordena cronológicamente como texto.
		return func(a, b entity.Operation) int { return cmp.Compare(a.EffectiveTime, b.EffectiveTime) }
	case FieldOperator:
		return func(a, b entity.Operation) int { return cmp.Compare(a.Operator, b.Operator) }
	case FieldSubmitter:
		return func(a, b entity.Operation) int { return cmp.Compare(a.Submitter, b.Submitter) }
	default:
		return func(a, b entity.Operation) int { return cmp.Compare(a.ItemID, b.ItemID) }
	}
}
