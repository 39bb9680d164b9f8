package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por sede+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve stock cero si no existe la fila.
	Get(ctx context.Context, productID, siteID string) (*entity.Stock, error)
	// GetForUpdate crea la fila si no existe y la bloquea (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, productID, siteID string) (*entity.Stock, error)
	Upsert(ctx context.Context, stock *entity.Stock) error
}
