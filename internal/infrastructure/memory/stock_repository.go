package memory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo contadores de stock en memoria.
type StockRepo struct {
	view view
}

// Get devuelve el stock del par; cero si no existe.
func (r *StockRepo) Get(_ context.Context, productID, siteID string) (*entity.Stock, error) {
	out := &entity.Stock{ProductID: productID, SiteID: siteID}
	r.view.with(func(s *state) {
		if st, ok := s.stock[pairKey{productID, siteID}]; ok {
			*out = st
		}
	})
	return out, nil
}

// GetForUpdate equivale a Get: la tx en memoria ya es exclusiva.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, siteID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, siteID)
}

// Upsert guarda el contador del par.
func (r *StockRepo) Upsert(_ context.Context, stock *entity.Stock) error {
	r.view.with(func(s *state) {
		s.stock[pairKey{stock.ProductID, stock.SiteID}] = *stock
	})
	return nil
}
