package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementFilter filtros del listado paginado del kardex.
type MovementFilter struct {
	ProductID     string
	SiteID        string
	Type          entity.MovementType
	From          *time.Time
	To            *time.Time
	IncludeVoided bool
	Limit         int
	Offset        int
}

// MovementRepository define el puerto de persistencia del kardex (DIP).
type MovementRepository interface {
	// Create persiste el movimiento y asigna ID (si falta) y Seq.
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate bloquea la fila del movimiento hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// Update modifica solo los campos mutables: aplicación, anulación y estado de traspaso.
	Update(ctx context.Context, movement *entity.Movement) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, int, error)
	// ListByPair devuelve todos los movimientos de un producto en una sede en orden de creación.
	ListByPair(ctx context.Context, productID, siteID string) ([]*entity.Movement, error)
	ListByTransfer(ctx context.Context, transferID string) ([]*entity.Movement, error)
}
