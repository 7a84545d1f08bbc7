package projection

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/search"
)

// Field columna de la vista de inventario (mismos nombres que la exportación).
type Field string

// Columnas en el orden de exportación.
const (
	FieldItemID            Field = "itemId"
	FieldItemName          Field = "itemName"
	FieldOrganization      Field = "organization"
	FieldQuantity          Field = "quantity"
	FieldLastOperationKind Field = "lastOperationKind"
	FieldLastOperator      Field = "lastOperator"
	FieldLastOperationTime Field = "lastOperationTime"
	FieldNote              Field = "note"
)

// Fields devuelve las columnas en el orden de exportación.
func Fields() []Field {
	return []Field{
		FieldItemID, FieldItemName, FieldOrganization, FieldQuantity,
		FieldLastOperationKind, FieldLastOperator, FieldLastOperationTime, FieldNote,
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

// Filter devuelve los registros que contienen q en algún campo (sin distinguir mayúsculas).
func Filter(records []entity.InventoryRecord, q string) []entity.InventoryRecord {
	m := search.NewMatcher(q)
	if m.Empty() {
		return records
	}
	out := make([]entity.InventoryRecord, 0, len(records))
	for _, r := range records {
		if m.Match(r.ItemID, r.ItemName, r.Organization, strconv.Itoa(r.Quantity),
			string(r.LastOperationKind), r.LastOperator, r.LastOperationTime, r.Note) {
			out = append(out, r)
		}
	}
	return out
}

// Sort ordena records por field. El itemID desempata para que el resultado sea determinista.
func Sort(records []entity.InventoryRecord, field Field, descending bool) {
	key := func(a, b entity.InventoryRecord) int {
		switch field {
		case FieldItemName:
			return cmp.Compare(a.ItemName, b.ItemName)
		case FieldOrganization:
			return cmp.Compare(a.Organization, b.Organization)
		case FieldQuantity:
			return cmp.Compare(a.Quantity, b.Quantity)
		case FieldLastOperationKind:
			return cmp.Compare(a.LastOperationKind, b.LastOperationKind)
		case FieldLastOperator:
			return cmp.Compare(a.LastOperator, b.LastOperator)
		case FieldLastOperationTime:
			return cmp.Compare(a.LastOperationTime, b.LastOperationTime)
		case FieldNote:
			return cmp.Compare(a.Note, b.Note)
		}
		return 0
	}
	slices.SortFunc(records, func(a, b entity.InventoryRecord) int {
		c := key(a, b)
		if c == 0 {
			c = cmp.Compare(a.ItemID, b.ItemID)
		}
		if descending {
			return -c
		}
		return c
	})
}
