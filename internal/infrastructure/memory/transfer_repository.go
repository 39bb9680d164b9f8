package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.TransferRepository = (*TransferRepo)(nil)

// TransferRepo traspasos en memoria.
type TransferRepo struct {
	view view
}

// Create persiste el traspaso con sus líneas.
func (r *TransferRepo) Create(_ context.Context, transfer *entity.Transfer) error {
	var err error
	r.view.with(func(s *state) {
		if _, exists := s.transfers[transfer.ID]; exists {
			err = fmt.Errorf("create transfer %s: duplicado", transfer.ID)
			return
		}
		s.transfers[transfer.ID] = copyTransfer(*transfer)
	})
	return err
}

// GetByID obtiene un traspaso; nil si no existe.
func (r *TransferRepo) GetByID(_ context.Context, id string) (*entity.Transfer, error) {
	var out *entity.Transfer
	r.view.with(func(s *state) {
		if t, ok := s.transfers[id]; ok {
			c := copyTransfer(t)
			out = &c
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: la tx en memoria ya es exclusiva.
func (r *TransferRepo) GetForUpdate(ctx context.Context, id string) (*entity.Transfer, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza el traspaso completo.
func (r *TransferRepo) Update(_ context.Context, transfer *entity.Transfer) error {
	var err error
	r.view.with(func(s *state) {
		if _, ok := s.transfers[transfer.ID]; !ok {
			err = domain.ErrTransferNotFound
			return
		}
		s.transfers[transfer.ID] = copyTransfer(*transfer)
	})
	return err
}

// List filtra por estado, sede y fecha de creación (más reciente primero).
func (r *TransferRepo) List(_ context.Context, f repository.TransferFilter) ([]*entity.Transfer, int, error) {
	var matched []*entity.Transfer
	r.view.with(func(s *state) {
		for _, t := range s.transfers {
			if f.Status != "" && t.Status != f.Status {
				continue
			}
			if f.SiteID != "" && t.OriginSiteID != f.SiteID && t.DestinationSiteID != f.SiteID {
				continue
			}
			if f.From != nil && t.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && t.CreatedAt.After(*f.To) {
				continue
			}
			c := copyTransfer(t)
			matched = append(matched, &c)
		}
	})
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].ID > matched[j].ID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}
