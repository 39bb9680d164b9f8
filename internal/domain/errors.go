package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound                     = errors.New("recurso no encontrado")
	ErrInvalidInput                 = errors.New("entrada inválida")
	ErrForbidden                    = errors.New("acceso denegado")
	ErrInsufficientStock            = errors.New("stock insuficiente")
	ErrInsufficientStockForReversal = errors.New("stock insuficiente para anular el movimiento")
	ErrInvalidTransition            = errors.New("transición de estado inválida")
	ErrConcurrencyConflict          = errors.New("conflicto de concurrencia, reintente")
	// ErrLedgerInconsistency es el único error fatal: el contador no coincide con el kardex.
	ErrLedgerInconsistency = errors.New("inconsistencia entre kardex y stock")
)

// Variantes específicas; errors.Is también reconoce la categoría general.
var (
	ErrProductNotFound  = fmt.Errorf("producto: %w", ErrNotFound)
	ErrSiteNotFound     = fmt.Errorf("sede: %w", ErrNotFound)
	ErrMovementNotFound = fmt.Errorf("movimiento: %w", ErrNotFound)
	ErrTransferNotFound = fmt.Errorf("traspaso: %w", ErrNotFound)
	ErrInvalidQuantity  = fmt.Errorf("cantidad debe ser un entero positivo: %w", ErrInvalidInput)
	ErrSameSite         = fmt.Errorf("sede origen y destino deben ser distintas: %w", ErrInvalidInput)
	ErrAlreadyVoided    = fmt.Errorf("el movimiento ya fue anulado: %w", ErrInvalidTransition)
)

// Códigos estables para la capa de presentación.
const (
	KindNotFound                     = "NOT_FOUND"
	KindInvalidInput                 = "INVALID_INPUT"
	KindInsufficientStock            = "INSUFFICIENT_STOCK"
	KindInsufficientStockForReversal = "INSUFFICIENT_STOCK_FOR_REVERSAL"
	KindAlreadyVoided                = "ALREADY_VOIDED"
	KindInvalidTransition            = "INVALID_TRANSITION"
	KindForbidden                    = "FORBIDDEN"
	KindConcurrencyConflict          = "CONCURRENCY_CONFLICT"
	KindLedgerInconsistency          = "LEDGER_INCONSISTENCY"
	KindInternal                     = "INTERNAL"
)

// Kind clasifica err dentro de la taxonomía de dominio. Errores desconocidos son KindInternal.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAlreadyVoided):
		return KindAlreadyVoided
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrInvalidInput):
		return KindInvalidInput
	case errors.Is(err, ErrInsufficientStockForReversal):
		return KindInsufficientStockForReversal
	case errors.Is(err, ErrInsufficientStock):
		return KindInsufficientStock
	case errors.Is(err, ErrInvalidTransition):
		return KindInvalidTransition
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrConcurrencyConflict):
		return KindConcurrencyConflict
	case errors.Is(err, ErrLedgerInconsistency):
		return KindLedgerInconsistency
	default:
		return KindInternal
	}
}
