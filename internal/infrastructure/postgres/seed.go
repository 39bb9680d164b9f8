package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/catalog"
)

// SeedCatalog inserta o actualiza sedes y productos del catálogo en una sola transacción.
func SeedCatalog(ctx context.Context, pool *pgxpool.Pool, c *catalog.Catalog) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	now := time.Now().UTC()
	sites := NewSiteRepository(tx)
	for _, s := range c.SiteEntities(now) {
		s := s
		if err := sites.Upsert(ctx, &s); err != nil {
			return err
		}
	}
	products := NewProductRepository(tx)
	for _, p := range c.ProductEntities(now) {
		p := p
		if err := products.Upsert(ctx, &p); err != nil {
			return err
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed: %w", err)
	}
	return nil
}
