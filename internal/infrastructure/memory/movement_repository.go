package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo kardex en memoria.
type MovementRepo struct {
	view view
}

// Create persiste un movimiento y le asigna Seq.
func (r *MovementRepo) Create(_ context.Context, movement *entity.Movement) error {
	if movement.ID == "" {
		movement.ID = uuid.New().String()
	}
	var err error
	r.view.with(func(s *state) {
		if _, exists := s.movements[movement.ID]; exists {
			err = fmt.Errorf("create movement %s: duplicado", movement.ID)
			return
		}
		s.nextSeq++
		movement.Seq = s.nextSeq
		s.movements[movement.ID] = *movement
		s.order = append(s.order, movement.ID)
	})
	return err
}

// GetByID obtiene un movimiento; nil si no existe.
func (r *MovementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	var out *entity.Movement
	r.view.with(func(s *state) {
		if m, ok := s.movements[id]; ok {
			out = &m
		}
	})
	return out, nil
}

// GetForUpdate equivale a GetByID: la tx en memoria ya es exclusiva.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.GetByID(ctx, id)
}

// Update reemplaza los campos mutables del movimiento.
func (r *MovementRepo) Update(_ context.Context, movement *entity.Movement) error {
	var err error
	r.view.with(func(s *state) {
		cur, ok := s.movements[movement.ID]
		if !ok {
			err = domain.ErrMovementNotFound
			return
		}
		cur.Quantity = movement.Quantity
		cur.Applied = movement.Applied
		cur.StockBefore = movement.StockBefore
		cur.StockAfter = movement.StockAfter
		cur.AppliedAt = movement.AppliedAt
		cur.Voided = movement.Voided
		cur.VoidReason = movement.VoidReason
		cur.VoidedBy = movement.VoidedBy
		cur.VoidedAt = movement.VoidedAt
		cur.VoidStockBefore = movement.VoidStockBefore
		cur.VoidStockAfter = movement.VoidStockAfter
		cur.TransferStatus = movement.TransferStatus
		cur.ShippedQuantity = movement.ShippedQuantity
		s.movements[movement.ID] = cur
	})
	return err
}

// List filtra y pagina (más reciente primero). Devuelve también el total sin paginar.
func (r *MovementRepo) List(_ context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	var matched []*entity.Movement
	r.view.with(func(s *state) {
		for i := len(s.order) - 1; i >= 0; i-- {
			m := s.movements[s.order[i]]
			if f.ProductID != "" && m.ProductID != f.ProductID {
				continue
			}
			if f.SiteID != "" && m.SiteID != f.SiteID {
				continue
			}
			if f.Type != "" && m.Type != f.Type {
				continue
			}
			if !f.IncludeVoided && m.Voided {
				continue
			}
			if f.From != nil && m.CreatedAt.Before(*f.From) {
				continue
			}
			if f.To != nil && m.CreatedAt.After(*f.To) {
				continue
			}
			matched = append(matched, &m)
		}
	})
	return paginate(matched, f.Limit, f.Offset), len(matched), nil
}

// ListByPair devuelve los movimientos de un par en orden de creación.
func (r *MovementRepo) ListByPair(_ context.Context, productID, siteID string) ([]*entity.Movement, error) {
	var list []*entity.Movement
	r.view.with(func(s *state) {
		for _, id := range s.order {
			m := s.movements[id]
			if m.ProductID == productID && m.SiteID == siteID {
				list = append(list, &m)
			}
		}
	})
	return list, nil
}

// ListByTransfer devuelve las piernas de un traspaso en orden de creación.
func (r *MovementRepo) ListByTransfer(_ context.Context, transferID string) ([]*entity.Movement, error) {
	var list []*entity.Movement
	r.view.with(func(s *state) {
		for _, id := range s.order {
			m := s.movements[id]
			if m.TransferID == transferID {
				list = append(list, &m)
			}
		}
	})
	return list, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
