package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferLineRequest línea de un traspaso.
type TransferLineRequest struct {
	ProductID string          `json:"product_id" validate:"required"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	OriginSiteID      string                `json:"origin_site_id" validate:"required"`
	DestinationSiteID string                `json:"destination_site_id" validate:"required"`
	Reason            string                `json:"reason,omitempty" validate:"max=500"`
	Lines             []TransferLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// ReceivedLineRequest cantidad recibida de un producto.
type ReceivedLineRequest struct {
	ProductID        string          `json:"product_id" validate:"required"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// ConfirmReceiptRequest body opcional para POST /api/transfers/:id/confirm.
type ConfirmReceiptRequest struct {
	ReceivedQuantity *decimal.Decimal     `json:"received_quantity,omitempty"`
	Lines            []ReceivedLineRequest `json:"lines,omitempty" validate:"omitempty,dive"`
}

// TransferReasonRequest body para dispatch, cancel y reject.
type TransferReasonRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// TransferLegResponse piernas de una línea recién creada.
type TransferLegResponse struct {
	ProductID         string `json:"product_id"`
	Quantity          int64  `json:"quantity"`
	OutMovementID     string `json:"out_movement_id"`
	InMovementID      string `json:"in_movement_id"`
	OriginStockBefore int64  `json:"origin_stock_before"`
	OriginStockAfter  int64  `json:"origin_stock_after"`
}

// TransferCreatedResponse salida de crear un traspaso.
type TransferCreatedResponse struct {
	TransferID string                `json:"transfer_id"`
	Reference  string                `json:"reference"`
	Status     string                `json:"status"`
	Legs       []TransferLegResponse `json:"legs"`
}

// TransferStatusResponse salida de una transición.
type TransferStatusResponse struct {
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
}

// TransferLineResponse línea de un traspaso en consultas.
type TransferLineResponse struct {
	ProductID        string `json:"product_id"`
	Quantity         int64  `json:"quantity"`
	ReceivedQuantity int64  `json:"received_quantity"`
	Shortfall        int64  `json:"shortfall"`
	OutMovementID    string `json:"out_movement_id"`
	InMovementID     string `json:"in_movement_id"`
}

// TransferResponse resumen de un traspaso (lote).
type TransferResponse struct {
	ID                string                 `json:"id"`
	Reference         string                 `json:"reference"`
	OriginSiteID      string                 `json:"origin_site_id"`
	DestinationSiteID string                 `json:"destination_site_id"`
	Status            string                 `json:"status"`
	Reason            string                 `json:"reason,omitempty"`
	Lines             []TransferLineResponse `json:"lines"`
	TotalQuantity     int64                  `json:"total_quantity"`
	CreatedBy         string                 `json:"created_by,omitempty"`
	CreatedAt         time.Time              `json:"created_at"`
	DispatchedAt      *time.Time             `json:"dispatched_at,omitempty"`
	ResolvedBy        string                 `json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time             `json:"resolved_at,omitempty"`
	ResolutionReason  string                 `json:"resolution_reason,omitempty"`
}

// TransferListResponse lista paginada de traspasos.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
