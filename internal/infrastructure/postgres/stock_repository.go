package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un producto en una sede.
func (r *StockRepo) Get(ctx context.Context, productID, siteID string) (*entity.Stock, error) {
	query := `
		SELECT product_id, site_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND site_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, productID, siteID).Scan(
		&s.ProductID, &s.SiteID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{ProductID: productID, SiteID: siteID}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por producto y sede).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, site_id, quantity, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (product_id, site_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(ctx, query, stock.ProductID, stock.SiteID, stock.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// GetForUpdate garantiza que la fila exista y la bloquea (SELECT FOR UPDATE).
// Sin el INSERT previo dos primeras entradas concurrentes no tendrían fila que bloquear.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, siteID string) (*entity.Stock, error) {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (product_id, site_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (product_id, site_id) DO NOTHING`, productID, siteID)
	if err != nil {
		return nil, fmt.Errorf("ensure stock row: %w", err)
	}
	query := `
		SELECT product_id, site_id, quantity, updated_at
		FROM stock WHERE product_id = $1 AND site_id = $2
		FOR UPDATE`
	var s entity.Stock
	err = r.q.QueryRow(ctx, query, productID, siteID).Scan(
		&s.ProductID, &s.SiteID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return &s, nil
}
