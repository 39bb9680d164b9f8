package entity

import "time"

// TransferStatus estado del ciclo de vida de un traspaso entre sedes.
type TransferStatus string

const (
	TransferStatusPendiente  TransferStatus = "PENDIENTE"
	TransferStatusEnTransito TransferStatus = "EN_TRANSITO"
	TransferStatusRecibido   TransferStatus = "RECIBIDO"
	TransferStatusRechazado  TransferStatus = "RECHAZADO"
	TransferStatusCancelado  TransferStatus = "CANCELADO"
)

// Valid indica si s es un estado conocido.
func (s TransferStatus) Valid() bool {
	switch s {
	case TransferStatusPendiente, TransferStatusEnTransito, TransferStatusRecibido,
		TransferStatusRechazado, TransferStatusCancelado:
		return true
	}
	return false
}

// Terminal indica si el estado ya no admite transiciones.
func (s TransferStatus) Terminal() bool {
	return s == TransferStatusRecibido || s == TransferStatusRechazado || s == TransferStatusCancelado
}

// Transfer (lote) agrupa las piernas TRASPASO_SALIDA / TRASPASO_ENTRADA de un envío entre sedes.
type Transfer struct {
	ID                string
	Reference         string // código de lote compartido por todas las piernas
	OriginSiteID      string
	DestinationSiteID string
	Status            TransferStatus
	Reason            string
	Lines             []TransferLine

	CreatedBy    string
	CreatedAt    time.Time
	DispatchedBy string
	DispatchedAt *time.Time

	ResolvedBy       string
	ResolvedAt       *time.Time
	ResolutionReason string
	UpdatedAt        time.Time
}

// TransferLine una línea de producto dentro del traspaso.
type TransferLine struct {
	ProductID        string
	Quantity         int64 // despachada
	ReceivedQuantity int64 // acreditada en destino; 0 hasta recibir
	OutMovementID    string
	InMovementID     string
}

// Shortfall devuelve lo despachado que no llegó a destino.
func (l TransferLine) Shortfall() int64 {
	if l.ReceivedQuantity == 0 {
		return 0
	}
	return l.Quantity - l.ReceivedQuantity
}
