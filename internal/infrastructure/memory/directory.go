package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var (
	_ repository.ProductRepository = (*ProductRepo)(nil)
	_ repository.SiteRepository    = (*SiteRepo)(nil)
)

// ProductRepo directorio de productos en memoria.
type ProductRepo struct {
	s *Store
}

// GetByID obtiene un producto; nil si no existe.
func (r *ProductRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// SiteRepo directorio de sedes en memoria.
type SiteRepo struct {
	s *Store
}

// GetByID obtiene una sede; nil si no existe.
func (r *SiteRepo) GetByID(_ context.Context, id string) (*entity.Site, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	site, ok := r.s.sites[id]
	if !ok {
		return nil, nil
	}
	return &site, nil
}

// List lista sedes por nombre.
func (r *SiteRepo) List(_ context.Context, limit, offset int) ([]*entity.Site, error) {
	r.s.mu.Lock()
	list := make([]*entity.Site, 0, len(r.s.sites))
	for _, site := range r.s.sites {
		site := site
		list = append(list, &site)
	}
	r.s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return paginate(list, limit, offset), nil
}
