package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRepository directorio de productos (solo verificación de existencia).
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
