package inventory

import (
	"errors"

	"github.com/jhoicas/almacen-api/internal/domain"
)

// Códigos de error expuestos a los clientes.
const (
	CodeValidation        = "VALIDATION"
	CodeConflict          = "CONFLICT"
	CodeNotFound          = "NOT_FOUND"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeInternal          = "INTERNAL"
)

// ErrorCode traduce un error de dominio a su código.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return CodeValidation
	case errors.Is(err, domain.ErrConflict):
		return CodeConflict
	case errors.Is(err, domain.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, domain.ErrInsufficientStock):
		return CodeInsufficientStock
	default:
		return CodeInternal
	}
}
