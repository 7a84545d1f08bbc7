package dto

// InventoryResponse registro de stock actual.
type InventoryResponse struct {
	ItemID            string `json:"item_id"`
	ItemName          string `json:"item_name"`
	Organization      string `json:"organization"`
	Quantity          int    `json:"quantity"`
	LastOperationKind string `json:"last_operation_kind"`
	LastOperator      string `json:"last_operator"`
	LastOperationTime string `json:"last_operation_time"`
	Note              string `json:"note"`
}

// InventoryListResponse listado de stock.
type InventoryListResponse struct {
	Total int                 `json:"total"`
	Items []InventoryResponse `json:"items"`
}

// UpdateNoteRequest body para PUT /api/inventory/:itemId/note.
type UpdateNoteRequest struct {
	Note string `json:"note"`
}

// NextItemIDResponse sugerencia de ID libre.
type NextItemIDResponse struct {
	ItemID string `json:"item_id"`
}

// RebuildSkipped operación histórica omitida al reconstruir.
type RebuildSkipped struct {
	Position    int    `json:"position"`
	OperationID string `json:"operation_id"`
	ItemID      string `json:"item_id"`
	Kind        string `json:"operation_kind"`
	Reason      string `json:"reason"`
}

// RebuildResponse resultado de POST /api/inventory/rebuild.
type RebuildResponse struct {
	Applied int              `json:"applied"`
	Skipped []RebuildSkipped `json:"skipped"`
	Items   int              `json:"items"`
}
