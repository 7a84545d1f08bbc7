package dto

import "time"

// RecordOperationRequest body para POST /api/operations.
// El registrador (submitter) sale del token, no del body.
// ItemName y Organization pueden omitirse en operaciones sobre artículos con stock.
type RecordOperationRequest struct {
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name,omitempty"`
	Organization  string `json:"organization,omitempty"`
	Kind          string `json:"operation_kind"`
	Quantity      int    `json:"quantity"`
	EffectiveTime string `json:"effective_time"`
	Operator      string `json:"operator"`
}

// OperationResponse registro del log.
type OperationResponse struct {
	ID            string    `json:"id"`
	SubmittedAt   time.Time `json:"submitted_at"`
	ItemID        string    `json:"item_id"`
	ItemName      string    `json:"item_name"`
	Organization  string    `json:"organization"`
	Kind          string    `json:"operation_kind"`
	Quantity      int       `json:"quantity"`
	EffectiveTime string    `json:"effective_time"`
	Operator      string    `json:"operator"`
	Submitter     string    `json:"submitter"`
}

// RecordOperationResponse resultado de registrar: la operación y el stock resultante
// (Item es nil si el artículo quedó sin stock).
type RecordOperationResponse struct {
	Operation OperationResponse  `json:"operation"`
	Item      *InventoryResponse `json:"item"`
}

// OperationListResponse listado de operaciones.
type OperationListResponse struct {
	Total      int                 `json:"total"`
	Operations []OperationResponse `json:"operations"`
}

// ImportRow fila leída de una hoja de cálculo, antes de validar.
type ImportRow struct {
	Row           int // número de fila en la hoja (1 = encabezado)
	ItemID        string
	ItemName      string
	Organization  string
	Kind          string
	Quantity      string
	EffectiveTime string
	Operator      string
	Submitter     string
}

// ImportRejection fila omitida durante la importación.
type ImportRejection struct {
	Row     int    `json:"row"`
	Field   string `json:"field,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ImportReport resultado de una importación por lotes.
type ImportReport struct {
	Accepted int               `json:"accepted"`
	Rejected []ImportRejection `json:"rejected"`
}
