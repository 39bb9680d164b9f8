package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LedgerQueryUseCase superficie de lectura del kardex (saldo, movimientos, traspasos).
type LedgerQueryUseCase struct {
	movRepo      repository.MovementRepository
	stockRepo    repository.StockRepository
	transferRepo repository.TransferRepository
	productRepo  repository.ProductRepository
	siteRepo     repository.SiteRepository
}

// NewLedgerQueryUseCase construye el caso de uso. Los repositorios van sobre el pool (fuera de tx).
func NewLedgerQueryUseCase(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	transferRepo repository.TransferRepository,
	productRepo repository.ProductRepository,
	siteRepo repository.SiteRepository,
) *LedgerQueryUseCase {
	return &LedgerQueryUseCase{
		movRepo:      movRepo,
		stockRepo:    stockRepo,
		transferRepo: transferRepo,
		productRepo:  productRepo,
		siteRepo:     siteRepo,
	}
}

// GetStock devuelve el saldo actual de un producto en una sede (0 si nunca tuvo movimientos).
func (uc *LedgerQueryUseCase) GetStock(ctx context.Context, productID, siteID string) (int64, error) {
	if productID == "" || siteID == "" {
		return 0, domain.ErrInvalidInput
	}
	if err := checkDirectory(ctx, uc.productRepo, uc.siteRepo, []string{productID}, siteID); err != nil {
		return 0, err
	}
	stock, err := uc.stockRepo.Get(ctx, productID, siteID)
	if err != nil {
		return 0, err
	}
	return stock.Quantity, nil
}

// MovementQuery filtros de ListMovements.
type MovementQuery struct {
	ProductID     string
	SiteID        string
	Type          string
	From          *time.Time
	To            *time.Time
	IncludeVoided bool
	Page          dto.PageRequest
}

// ListMovements lista el kardex filtrado y paginado (más reciente primero).
// Requiere al menos producto o sede.
func (uc *LedgerQueryUseCase) ListMovements(ctx context.Context, q MovementQuery) (*dto.MovementListResponse, error) {
	if q.ProductID == "" && q.SiteID == "" {
		return nil, domain.ErrInvalidInput
	}
	movType := entity.MovementType(q.Type)
	if q.Type != "" && !movType.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, domain.ErrInvalidInput
	}
	q.Page.DefaultPage()
	list, total, err := uc.movRepo.List(ctx, repository.MovementFilter{
		ProductID:     q.ProductID,
		SiteID:        q.SiteID,
		Type:          movType,
		From:          q.From,
		To:            q.To,
		IncludeVoided: q.IncludeVoided,
		Limit:         q.Page.Limit,
		Offset:        q.Page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Page.Limit, Offset: q.Page.Offset, Total: total},
	}, nil
}

// TransferQuery filtros de ListTransfers.
type TransferQuery struct {
	Status string
	SiteID string
	From   *time.Time
	To     *time.Time
	Page   dto.PageRequest
}

// ListTransfers lista traspasos por estado, sede y rango de fechas.
func (uc *LedgerQueryUseCase) ListTransfers(ctx context.Context, q TransferQuery) (*dto.TransferListResponse, error) {
	status := entity.TransferStatus(q.Status)
	if q.Status != "" && !status.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return nil, domain.ErrInvalidInput
	}
	q.Page.DefaultPage()
	list, total, err := uc.transferRepo.List(ctx, repository.TransferFilter{
		Status: status,
		SiteID: q.SiteID,
		From:   q.From,
		To:     q.To,
		Limit:  q.Page.Limit,
		Offset: q.Page.Offset,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.TransferResponse, 0, len(list))
	for _, t := range list {
		items = append(items, toTransferResponse(t))
	}
	return &dto.TransferListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: q.Page.Limit, Offset: q.Page.Offset, Total: total},
	}, nil
}

// GetTransfer obtiene un traspaso con sus líneas.
func (uc *LedgerQueryUseCase) GetTransfer(ctx context.Context, id string) (*dto.TransferResponse, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	t, err := uc.transferRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTransferNotFound
	}
	out := toTransferResponse(t)
	return &out, nil
}

// VerifyStock reconstruye el saldo desde el kardex y lo compara con el contador.
func (uc *LedgerQueryUseCase) VerifyStock(ctx context.Context, productID, siteID string) (*dto.LedgerCheckResponse, error) {
	if productID == "" || siteID == "" {
		return nil, domain.ErrInvalidInput
	}
	stock, err := uc.stockRepo.Get(ctx, productID, siteID)
	if err != nil {
		return nil, err
	}
	movs, err := uc.movRepo.ListByPair(ctx, productID, siteID)
	if err != nil {
		return nil, err
	}
	return &dto.LedgerCheckResponse{
		ProductID:  productID,
		SiteID:     siteID,
		Counter:    stock.Quantity,
		Replayed:   domaininv.Replay(movs),
		Movements:  len(movs),
		Consistent: domaininv.Verify(stock.Quantity, movs) == nil,
	}, nil
}

func toMovementResponse(m *entity.Movement) dto.MovementResponse {
	caps := m.Type.Capabilities()
	direction := "in"
	if caps.Direction == entity.DirectionOutbound {
		direction = "out"
	}
	return dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		SiteID:           m.SiteID,
		Type:             string(m.Type),
		Direction:        direction,
		Quantity:         m.Quantity,
		Applied:          m.Applied,
		StockBefore:      m.StockBefore,
		StockAfter:       m.StockAfter,
		Reference:        m.Reference,
		Reason:           m.Reason,
		Observations:     m.Observations,
		UnitCost:         m.UnitCost,
		SalePrice:        m.SalePrice,
		Reversible:       caps.Reversible && !m.Voided,
		Voided:           m.Voided,
		VoidReason:       m.VoidReason,
		VoidedBy:         m.VoidedBy,
		VoidedAt:         m.VoidedAt,
		TransferID:       m.TransferID,
		PairedMovementID: m.PairedMovementID,
		TransferStatus:   string(m.TransferStatus),
		ShippedQuantity:  m.ShippedQuantity,
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}

func toTransferResponse(t *entity.Transfer) dto.TransferResponse {
	out := dto.TransferResponse{
		ID:                t.ID,
		Reference:         t.Reference,
		OriginSiteID:      t.OriginSiteID,
		DestinationSiteID: t.DestinationSiteID,
		Status:            string(t.Status),
		Reason:            t.Reason,
		Lines:             make([]dto.TransferLineResponse, 0, len(t.Lines)),
		CreatedBy:         t.CreatedBy,
		CreatedAt:         t.CreatedAt,
		DispatchedAt:      t.DispatchedAt,
		ResolvedBy:        t.ResolvedBy,
		ResolvedAt:        t.ResolvedAt,
		ResolutionReason:  t.ResolutionReason,
	}
	for _, l := range t.Lines {
		out.TotalQuantity += l.Quantity
		out.Lines = append(out.Lines, dto.TransferLineResponse{
			ProductID:        l.ProductID,
			Quantity:         l.Quantity,
			ReceivedQuantity: l.ReceivedQuantity,
			Shortfall:        l.Shortfall(),
			OutMovementID:    l.OutMovementID,
			InMovementID:     l.InMovementID,
		})
	}
	return out
}
