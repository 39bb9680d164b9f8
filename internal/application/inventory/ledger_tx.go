package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// ledger agrupa las operaciones de bajo nivel que comparten el motor de movimientos,
// el coordinador de traspasos y el motor de anulación. Todas asumen una tx abierta.
type ledger struct {
	policy domaininv.Policy
	log    *logger.Logger
	now    func() time.Time
}

// lockStock bloquea el par (producto, sede) y detecta contadores imposibles bajo la política vigente.
func (l *ledger) lockStock(ctx context.Context, stockRepo repository.StockRepository, productID, siteID string) (*entity.Stock, error) {
	stock, err := stockRepo.GetForUpdate(ctx, productID, siteID)
	if err != nil {
		return nil, err
	}
	if stock.Quantity < 0 && !l.policy.AllowNegativeOverride {
		l.log.Error().
			Str("product_id", productID).
			Str("site_id", siteID).
			Int64("stock", stock.Quantity).
			Msg("stock negativo con forzado deshabilitado")
		return nil, domain.ErrLedgerInconsistency
	}
	return stock, nil
}

// apply bloquea el par, calcula el saldo, persiste el movimiento (insert o update si ya
// existía, caso TRASPASO_ENTRADA pendiente) y actualiza el contador.
func (l *ledger) apply(
	ctx context.Context,
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	mov *entity.Movement,
	allowNegative bool,
) error {
	stock, err := l.lockStock(ctx, stockRepo, mov.ProductID, mov.SiteID)
	if err != nil {
		return err
	}
	after, err := domaininv.ApplyDelta(stock.Quantity, mov.SignedDelta(), allowNegative, domain.ErrInsufficientStock)
	if err != nil {
		return err
	}
	now := l.now()
	mov.Applied = true
	mov.StockBefore = stock.Quantity
	mov.StockAfter = after
	mov.AppliedAt = &now

	existing := mov.ID != "" && mov.Seq != 0
	if existing {
		err = movRepo.Update(ctx, mov)
	} else {
		err = movRepo.Create(ctx, mov)
	}
	if err != nil {
		return err
	}

	stock.Quantity = after
	stock.UpdatedAt = now
	return stockRepo.Upsert(ctx, stock)
}

// reverse aplica el delta compensatorio de un movimiento sobre el stock actual
// (no restaura el snapshot) y lo marca como anulado.
func (l *ledger) reverse(
	ctx context.Context,
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	mov *entity.Movement,
	actor entity.Actor,
	reason string,
	allowNegative bool,
) error {
	if mov.Voided {
		return domain.ErrAlreadyVoided
	}
	if !mov.Applied {
		return domain.ErrInvalidTransition
	}
	stock, err := l.lockStock(ctx, stockRepo, mov.ProductID, mov.SiteID)
	if err != nil {
		return err
	}
	after, err := domaininv.ApplyDelta(stock.Quantity, -mov.SignedDelta(), allowNegative, domain.ErrInsufficientStockForReversal)
	if err != nil {
		return err
	}
	now := l.now()
	mov.Voided = true
	mov.VoidReason = reason
	mov.VoidedBy = actor.UserID
	mov.VoidedAt = &now
	mov.VoidStockBefore = stock.Quantity
	mov.VoidStockAfter = after
	if err := movRepo.Update(ctx, mov); err != nil {
		return err
	}

	stock.Quantity = after
	stock.UpdatedAt = now
	return stockRepo.Upsert(ctx, stock)
}

// checkDirectory verifica que producto(s) y sede(s) existan en los directorios externos.
func checkDirectory(
	ctx context.Context,
	productRepo repository.ProductRepository,
	siteRepo repository.SiteRepository,
	productIDs []string,
	siteIDs ...string,
) error {
	for _, id := range siteIDs {
		site, err := siteRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if site == nil {
			return domain.ErrSiteNotFound
		}
	}
	for _, id := range productIDs {
		product, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
	}
	return nil
}

func newID() string {
	return uuid.New().String()
}

// isBusinessError distingue errores de negocio (esperados) de fallos de infraestructura para el log.
func isBusinessError(err error) bool {
	return domain.Kind(err) != domain.KindInternal && !errors.Is(err, domain.ErrLedgerInconsistency)
}
