package entity

import (
	"strings"
	"time"
)

// OperationKind tipo cerrado de operación de inventario.
type OperationKind string

// Tipos de operación. StockIn y Replenish suman; PartialStockOut resta; StockOut vacía el artículo.
const (
	KindStockIn         OperationKind = "StockIn"
	KindStockOut        OperationKind = "StockOut"
	KindPartialStockOut OperationKind = "PartialStockOut"
	KindReplenish       OperationKind = "Replenish"
)

// Kinds devuelve los tipos válidos en orden de presentación.
func Kinds() []OperationKind {
	return []OperationKind{KindStockIn, KindReplenish, KindPartialStockOut, KindStockOut}
}

// Valid indica si k pertenece al conjunto cerrado.
func (k OperationKind) Valid() bool {
	switch k {
	case KindStockIn, KindStockOut, KindPartialStockOut, KindReplenish:
		return true
	}
	return false
}

// Increases es verdadero para los tipos que suman cantidad.
func (k OperationKind) Increases() bool {
	return k == KindStockIn || k == KindReplenish
}

// EffectiveTimeLayout formato de la hora efectiva escrita por el usuario (YYYY-MM-DD HH:MM).
const EffectiveTimeLayout = "2006-01-02 15:04"

// Operation registro inmutable del log de operaciones.
type Operation struct {
	ID            string        `json:"id"`
	SubmittedAt   time.Time     `json:"submitted_at"`
	ItemID        string        `json:"item_id" validate:"required"`
	ItemName      string        `json:"item_name" validate:"required"`
	Organization  string        `json:"organization"`
	Kind          OperationKind `json:"operation_kind" validate:"required,operation_kind"`
	Quantity      int           `json:"quantity" validate:"gt=0"`
	EffectiveTime string        `json:"effective_time" validate:"required,effective_time"`
	Operator      string        `json:"operator" validate:"required"`
	Submitter     string        `json:"submitter" validate:"required"`
}

// kindAliases nombres aceptados al importar hojas de cálculo (inglés, español y chino de las planillas heredadas).
var kindAliases = map[string]OperationKind{
	"stockin":  KindStockIn,
	"stock in": KindStockIn,
	"entrada":  KindStockIn,
	"ingreso":  KindStockIn,
	"入库":       KindStockIn,

	"replenish":  KindReplenish,
	"reposición": KindReplenish,
	"reposicion": KindReplenish,
	"补货":         KindReplenish,

	"partialstockout":   KindPartialStockOut,
	"partial stock out": KindPartialStockOut,
	"salida parcial":    KindPartialStockOut,
	"部分出库":              KindPartialStockOut,

	"stockout":     KindStockOut,
	"stock out":    KindStockOut,
	"salida":       KindStockOut,
	"salida total": KindStockOut,
	"完全出库":         KindStockOut,
	"出库":           KindStockOut,
}

// ParseOperationKind reconoce el nombre canónico o un alias, sin distinguir mayúsculas.
// Si no lo reconoce devuelve s tal cual para que la validación lo rechace.
func ParseOperationKind(s string) OperationKind {
	s = strings.TrimSpace(s)
	if k, ok := kindAliases[strings.ToLower(s)]; ok {
		return k
	}
	return OperationKind(s)
}
