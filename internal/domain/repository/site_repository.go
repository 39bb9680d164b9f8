package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// SiteRepository directorio de sedes (solo lectura para el kardex).
type SiteRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Site, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Site, error)
}
