package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyMovementRequest body para POST /api/inventory/movements.
// Quantity se recibe como decimal para rechazar cantidades no enteras con un error de dominio.
type ApplyMovementRequest struct {
	ProductID    string           `json:"product_id" validate:"required"`
	SiteID       string           `json:"site_id" validate:"required"`
	Type         string           `json:"type" validate:"required"`
	Quantity     decimal.Decimal  `json:"quantity"`
	Reference    string           `json:"reference,omitempty" validate:"max=100"`
	Reason       string           `json:"reason,omitempty" validate:"max=500"`
	Observations string           `json:"observations,omitempty" validate:"max=1000"`
	UnitCost     *decimal.Decimal `json:"unit_cost,omitempty"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	Force        bool             `json:"force,omitempty"`
}

// MovementAppliedResponse salida de registrar un movimiento.
type MovementAppliedResponse struct {
	MovementID  string `json:"movement_id"`
	StockBefore int64  `json:"stock_before"`
	StockAfter  int64  `json:"stock_after"`
}

// VoidMovementRequest body para POST /api/inventory/movements/:id/void.
type VoidMovementRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
	Force  bool   `json:"force,omitempty"`
}

// VoidMovementResponse saldo antes y después de la anulación.
type VoidMovementResponse struct {
	MovementID  string `json:"movement_id"`
	StockBefore int64  `json:"stock_before"`
	StockAfter  int64  `json:"stock_after"`
}

// MovementResponse una entrada del kardex.
type MovementResponse struct {
	ID               string           `json:"id"`
	ProductID        string           `json:"product_id"`
	SiteID           string           `json:"site_id"`
	Type             string           `json:"type"`
	Direction        string           `json:"direction"` // in | out
	Quantity         int64            `json:"quantity"`
	Applied          bool             `json:"applied"`
	StockBefore      int64            `json:"stock_before"`
	StockAfter       int64            `json:"stock_after"`
	Reference        string           `json:"reference,omitempty"`
	Reason           string           `json:"reason,omitempty"`
	Observations     string           `json:"observations,omitempty"`
	UnitCost         *decimal.Decimal `json:"unit_cost,omitempty"`
	SalePrice        *decimal.Decimal `json:"sale_price,omitempty"`
	Reversible       bool             `json:"reversible"`
	Voided           bool             `json:"voided"`
	VoidReason       string           `json:"void_reason,omitempty"`
	VoidedBy         string           `json:"voided_by,omitempty"`
	VoidedAt         *time.Time       `json:"voided_at,omitempty"`
	TransferID       string           `json:"transfer_id,omitempty"`
	PairedMovementID string           `json:"paired_movement_id,omitempty"`
	TransferStatus   string           `json:"transfer_status,omitempty"`
	ShippedQuantity  int64            `json:"shipped_quantity,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	CreatedBy        string           `json:"created_by,omitempty"`
}

// MovementListResponse lista paginada del kardex.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// StockResponse saldo de un producto en una sede.
type StockResponse struct {
	ProductID string `json:"product_id"`
	SiteID    string `json:"site_id"`
	Quantity  int64  `json:"quantity"`
}

// LedgerCheckResponse resultado de reconstruir el saldo desde el kardex.
type LedgerCheckResponse struct {
	ProductID  string `json:"product_id"`
	SiteID     string `json:"site_id"`
	Counter    int64  `json:"counter"`
	Replayed   int64  `json:"replayed"`
	Movements  int    `json:"movements"`
	Consistent bool   `json:"consistent"`
}
