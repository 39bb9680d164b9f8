package usecase

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// SiteUseCase consultas sobre el directorio de sedes (el alta/baja vive fuera del kardex).
type SiteUseCase struct {
	repo repository.SiteRepository
}

// NewSiteUseCase construye el caso de uso.
func NewSiteUseCase(repo repository.SiteRepository) *SiteUseCase {
	return &SiteUseCase{repo: repo}
}

// GetByID obtiene una sede por ID.
func (uc *SiteUseCase) GetByID(ctx context.Context, id string) (*dto.SiteResponse, error) {
	site, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if site == nil {
		return nil, domain.ErrSiteNotFound
	}
	return toSiteResponse(site), nil
}

// List lista sedes con paginación.
func (uc *SiteUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SiteListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SiteResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSiteResponse(s))
	}
	return &dto.SiteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

func toSiteResponse(s *entity.Site) *dto.SiteResponse {
	if s == nil {
		return nil
	}
	return &dto.SiteResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
