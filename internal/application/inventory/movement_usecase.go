package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/shopspring/decimal"
)

// MovementUseCase motor de movimientos y de anulación: registra cada cambio de stock en el kardex
// de forma transaccional (SELECT FOR UPDATE sobre el par producto-sede) y compensa anulaciones.
type MovementUseCase struct {
	ledger
	txRunner    TxRunner
	productRepo repository.ProductRepository
	siteRepo    repository.SiteRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	siteRepo repository.SiteRepository,
	policy domaininv.Policy,
	log *logger.Logger,
) *MovementUseCase {
	return &MovementUseCase{
		ledger:      ledger{policy: policy, log: log.Component("movimientos"), now: time.Now},
		txRunner:    txRunner,
		productRepo: productRepo,
		siteRepo:    siteRepo,
	}
}

// ApplyMovementInput entrada para registrar un movimiento simple.
// Los tipos TRASPASO_* no se aceptan aquí; los crea TransferUseCase.
type ApplyMovementInput struct {
	Actor        entity.Actor
	ProductID    string
	SiteID       string
	Type         entity.MovementType
	Quantity     int64
	Reference    string
	Reason       string
	Observations string
	UnitCost     *decimal.Decimal
	SalePrice    *decimal.Decimal
	// Force solicita el forzado administrativo de stock negativo.
	Force bool
}

// MovementResult resultado de aplicar un movimiento.
type MovementResult struct {
	MovementID  string
	StockBefore int64
	StockAfter  int64
}

// ApplyMovement valida, bloquea el par producto-sede, verifica stock en salidas y persiste
// movimiento y contador en la misma transacción.
func (uc *MovementUseCase) ApplyMovement(ctx context.Context, input ApplyMovementInput) (*MovementResult, error) {
	if err := validateApply(input); err != nil {
		return nil, err
	}
	if !input.Actor.IsAdmin() && !input.Actor.AtSite(input.SiteID) {
		return nil, domain.ErrForbidden
	}
	allowNegative, err := uc.policy.Override(input.Actor, input.Force)
	if err != nil {
		return nil, err
	}
	if err := checkDirectory(ctx, uc.productRepo, uc.siteRepo, []string{input.ProductID}, input.SiteID); err != nil {
		return nil, err
	}

	mov := &entity.Movement{
		ID:           newID(),
		ProductID:    input.ProductID,
		SiteID:       input.SiteID,
		Type:         input.Type,
		Quantity:     input.Quantity,
		Reference:    strings.TrimSpace(input.Reference),
		Reason:       strings.TrimSpace(input.Reason),
		Observations: input.Observations,
		UnitCost:     input.UnitCost,
		SalePrice:    input.SalePrice,
		CreatedAt:    uc.now(),
		CreatedBy:    input.Actor.UserID,
	}
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		_ repository.TransferRepository,
	) error {
		return uc.apply(ctx, movRepo, stockRepo, mov, allowNegative)
	})
	if err != nil {
		if !isBusinessError(err) {
			uc.log.Error().Err(err).Str("product_id", input.ProductID).Str("site_id", input.SiteID).Msg("registrar movimiento")
		}
		return nil, err
	}
	if allowNegative && mov.StockAfter < 0 {
		uc.log.Warn().
			Str("movement_id", mov.ID).
			Str("user_id", input.Actor.UserID).
			Int64("stock_after", mov.StockAfter).
			Msg("salida forzada deja stock negativo")
	}
	return &MovementResult{MovementID: mov.ID, StockBefore: mov.StockBefore, StockAfter: mov.StockAfter}, nil
}

func validateApply(input ApplyMovementInput) error {
	if input.ProductID == "" || input.SiteID == "" {
		return domain.ErrInvalidInput
	}
	if !input.Type.Valid() {
		return domain.ErrInvalidInput
	}
	caps := input.Type.Capabilities()
	if caps.TransferLeg {
		return domain.ErrInvalidInput
	}
	if input.Quantity <= 0 {
		return domain.ErrInvalidQuantity
	}
	if caps.RequiresReason && strings.TrimSpace(input.Reason) == "" {
		return domain.ErrInvalidInput
	}
	if input.UnitCost != nil && input.UnitCost.IsNegative() {
		return domain.ErrInvalidInput
	}
	if input.SalePrice != nil && input.SalePrice.IsNegative() {
		return domain.ErrInvalidInput
	}
	return nil
}

// VoidMovementInput entrada para anular un movimiento.
type VoidMovementInput struct {
	Actor      entity.Actor
	MovementID string
	Reason     string
	Force      bool
}

// VoidResult saldo antes y después del delta compensatorio.
type VoidResult struct {
	MovementID  string
	StockBefore int64
	StockAfter  int64
}

// VoidMovement aplica el inverso de un movimiento sobre el stock actual y lo marca anulado.
// Las piernas de traspaso solo se deshacen con Cancel/Reject del traspaso.
func (uc *MovementUseCase) VoidMovement(ctx context.Context, input VoidMovementInput) (*VoidResult, error) {
	reason := strings.TrimSpace(input.Reason)
	if input.MovementID == "" || reason == "" {
		return nil, domain.ErrInvalidInput
	}
	allowNegative, err := uc.policy.Override(input.Actor, input.Force)
	if err != nil {
		return nil, err
	}

	var out VoidResult
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		_ repository.TransferRepository,
	) error {
		mov, err := movRepo.GetForUpdate(ctx, input.MovementID)
		if err != nil {
			return err
		}
		if mov == nil {
			return domain.ErrMovementNotFound
		}
		if !input.Actor.IsAdmin() && !input.Actor.AtSite(mov.SiteID) {
			return domain.ErrForbidden
		}
		if mov.Voided {
			return domain.ErrAlreadyVoided
		}
		if !mov.Type.Capabilities().Reversible {
			return domain.ErrInvalidTransition
		}
		if err := uc.reverse(ctx, movRepo, stockRepo, mov, input.Actor, reason, allowNegative); err != nil {
			return err
		}
		out = VoidResult{MovementID: mov.ID, StockBefore: mov.VoidStockBefore, StockAfter: mov.VoidStockAfter}
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			uc.log.Error().Err(err).Str("movement_id", input.MovementID).Msg("anular movimiento")
		}
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", out.MovementID).
		Str("user_id", input.Actor.UserID).
		Int64("stock_before", out.StockBefore).
		Int64("stock_after", out.StockAfter).
		Msg("movimiento anulado")
	return &out, nil
}
