package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// TransferFilter filtros del listado de traspasos.
type TransferFilter struct {
	Status entity.TransferStatus
	SiteID string // origen o destino
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// TransferRepository define el puerto de persistencia de traspasos (lotes) con sus líneas.
type TransferRepository interface {
	Create(ctx context.Context, transfer *entity.Transfer) error
	GetByID(ctx context.Context, id string) (*entity.Transfer, error)
	// GetForUpdate bloquea el traspaso para serializar transiciones de estado.
	GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error)
	Update(ctx context.Context, transfer *entity.Transfer) error
	List(ctx context.Context, filter TransferFilter) ([]*entity.Transfer, int, error)
}
