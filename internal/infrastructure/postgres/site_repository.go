package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.SiteRepository = (*SiteRepo)(nil)

// SiteRepo implementación del puerto SiteRepository sobre PostgreSQL.
type SiteRepo struct {
	q Querier
}

// NewSiteRepository construye el adaptador de persistencia para sedes.
func NewSiteRepository(q Querier) *SiteRepo {
	return &SiteRepo{q: q}
}

// GetByID obtiene una sede por ID.
func (r *SiteRepo) GetByID(ctx context.Context, id string) (*entity.Site, error) {
	query := `
		SELECT id, name, address, active, created_at, updated_at
		FROM sites WHERE id = $1`
	var s entity.Site
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Address, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get site: %w", err)
	}
	return &s, nil
}

// List lista sedes por nombre con paginación.
func (r *SiteRepo) List(ctx context.Context, limit, offset int) ([]*entity.Site, error) {
	query := `
		SELECT id, name, address, active, created_at, updated_at
		FROM sites ORDER BY name LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	defer rows.Close()
	var list []*entity.Site
	for rows.Next() {
		var s entity.Site
		if err := rows.Scan(&s.ID, &s.Name, &s.Address, &s.Active, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan site: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Upsert crea o actualiza una sede (siembra del directorio).
func (r *SiteRepo) Upsert(ctx context.Context, site *entity.Site) error {
	query := `
		INSERT INTO sites (id, name, address, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, address = EXCLUDED.address,
			active = EXCLUDED.active, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query,
		site.ID, site.Name, site.Address, site.Active, site.CreatedAt, site.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert site: %w", err)
	}
	return nil
}
