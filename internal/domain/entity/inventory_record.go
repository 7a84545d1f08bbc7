package entity

// InventoryRecord stock actual de un artículo.
// Derivado del log de operaciones; solo existe mientras Quantity > 0.
type InventoryRecord struct {
	ItemID            string        `json:"item_id"`
	ItemName          string        `json:"item_name"`
	Organization      string        `json:"organization"`
	Quantity          int           `json:"quantity"`
	LastOperationKind OperationKind `json:"last_operation_kind"`
	LastOperator      string        `json:"last_operator"`
	LastOperationTime string        `json:"last_operation_time"`
	Note              string        `json:"note"`
}
