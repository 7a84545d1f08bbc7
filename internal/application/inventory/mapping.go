package inventory

import (
	"cmp"
	"slices"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/projection"
)

func toOperationResponse(op entity.Operation) dto.OperationResponse {
	return dto.OperationResponse{
		ID:            op.ID,
		SubmittedAt:   op.SubmittedAt,
		ItemID:        op.ItemID,
		ItemName:      op.ItemName,
		Organization:  op.Organization,
		Kind:          string(op.Kind),
		Quantity:      op.Quantity,
		EffectiveTime: op.EffectiveTime,
		Operator:      op.Operator,
		Submitter:     op.Submitter,
	}
}

func toInventoryResponse(rec entity.InventoryRecord) dto.InventoryResponse {
	return dto.InventoryResponse{
		ItemID:            rec.ItemID,
		ItemName:          rec.ItemName,
		Organization:      rec.Organization,
		Quantity:          rec.Quantity,
		LastOperationKind: string(rec.LastOperationKind),
		LastOperator:      rec.LastOperator,
		LastOperationTime: rec.LastOperationTime,
		Note:              rec.Note,
	}
}

func toSettingsResponse(s entity.Settings) dto.SettingsResponse {
	return dto.SettingsResponse{
		Organizations: slices.Clone(s.Organizations),
		Operators:     slices.Clone(s.Operators),
	}
}

// sortedRecords registros ordenados por itemID.
func sortedRecords(p *projection.Projection) []entity.InventoryRecord {
	out := p.All()
	slices.SortFunc(out, func(a, b entity.InventoryRecord) int { return cmp.Compare(a.ItemID, b.ItemID) })
	return out
}

func cloneSettings(s entity.Settings) entity.Settings {
	return entity.Settings{
		Organizations: slices.Clone(s.Organizations),
		Operators:     slices.Clone(s.Operators),
	}
}
