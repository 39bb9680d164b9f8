package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// TransferUseCase coordina traspasos entre sedes: debita el origen al crear, acredita el destino
// al confirmar y revierte el origen al cancelar o rechazar. Nunca bloquea ambas sedes en un mismo paso.
type TransferUseCase struct {
	ledger
	txRunner    TxRunner
	productRepo repository.ProductRepository
	siteRepo    repository.SiteRepository
}

// NewTransferUseCase construye el caso de uso.
func NewTransferUseCase(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	siteRepo repository.SiteRepository,
	policy domaininv.Policy,
	log *logger.Logger,
) *TransferUseCase {
	return &TransferUseCase{
		ledger:      ledger{policy: policy, log: log.Component("traspasos"), now: time.Now},
		txRunner:    txRunner,
		productRepo: productRepo,
		siteRepo:    siteRepo,
	}
}

// TransferLineInput una línea de producto del traspaso.
type TransferLineInput struct {
	ProductID string
	Quantity  int64
}

// CreateTransferInput entrada para crear un traspaso.
type CreateTransferInput struct {
	Actor             entity.Actor
	OriginSiteID      string
	DestinationSiteID string
	Reason            string
	Lines             []TransferLineInput
}

// TransferLegResult piernas creadas para una línea.
type TransferLegResult struct {
	ProductID         string
	Quantity          int64
	OutMovementID     string
	InMovementID      string
	OriginStockBefore int64
	OriginStockAfter  int64
}

// TransferResult resultado de crear un traspaso.
type TransferResult struct {
	TransferID string
	Reference  string
	Status     entity.TransferStatus
	Legs       []TransferLegResult
}

// CreateTransfer debita el origen línea a línea (TRASPASO_SALIDA) y deja una TRASPASO_ENTRADA
// pendiente por línea. Todo o nada: si una línea no tiene stock se revierte el traspaso completo.
func (uc *TransferUseCase) CreateTransfer(ctx context.Context, input CreateTransferInput) (*TransferResult, error) {
	lines, err := validateCreateTransfer(input)
	if err != nil {
		return nil, err
	}
	if err := domaininv.Authorize(input.Actor, domaininv.ActionCreate, input.OriginSiteID, input.DestinationSiteID); err != nil {
		return nil, err
	}
	productIDs := make([]string, 0, len(lines))
	for _, l := range lines {
		productIDs = append(productIDs, l.ProductID)
	}
	if err := checkDirectory(ctx, uc.productRepo, uc.siteRepo, productIDs, input.OriginSiteID, input.DestinationSiteID); err != nil {
		return nil, err
	}

	now := uc.now()
	transfer := &entity.Transfer{
		ID:                newID(),
		Reference:         newReference(now),
		OriginSiteID:      input.OriginSiteID,
		DestinationSiteID: input.DestinationSiteID,
		Status:            entity.TransferStatusPendiente,
		Reason:            strings.TrimSpace(input.Reason),
		CreatedBy:         input.Actor.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	outs := make([]*entity.Movement, 0, len(lines))
	ins := make([]*entity.Movement, 0, len(lines))
	for _, l := range lines {
		outID, inID := newID(), newID()
		transfer.Lines = append(transfer.Lines, entity.TransferLine{
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			OutMovementID: outID,
			InMovementID:  inID,
		})
		outs = append(outs, &entity.Movement{
			ID:               outID,
			ProductID:        l.ProductID,
			SiteID:           input.OriginSiteID,
			Type:             entity.MovementTypeTraspasoSalida,
			Quantity:         l.Quantity,
			Reference:        transfer.Reference,
			Reason:           transfer.Reason,
			TransferID:       transfer.ID,
			PairedMovementID: inID,
			TransferStatus:   entity.TransferStatusPendiente,
			CreatedAt:        now,
			CreatedBy:        input.Actor.UserID,
		})
		ins = append(ins, &entity.Movement{
			ID:               inID,
			ProductID:        l.ProductID,
			SiteID:           input.DestinationSiteID,
			Type:             entity.MovementTypeTraspasoEntrada,
			Quantity:         l.Quantity,
			ShippedQuantity:  l.Quantity,
			Reference:        transfer.Reference,
			Reason:           transfer.Reason,
			TransferID:       transfer.ID,
			PairedMovementID: outID,
			TransferStatus:   entity.TransferStatusPendiente,
			CreatedAt:        now,
			CreatedBy:        input.Actor.UserID,
		})
	}

	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error {
		if err := transferRepo.Create(ctx, transfer); err != nil {
			return err
		}
		// Solo se bloquean pares de la sede origen, en orden de producto.
		for i := range outs {
			if err := uc.apply(ctx, movRepo, stockRepo, outs[i], false); err != nil {
				return err
			}
			if err := movRepo.Create(ctx, ins[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			uc.log.Error().Err(err).Str("origin_site_id", input.OriginSiteID).Msg("crear traspaso")
		}
		return nil, err
	}

	res := &TransferResult{TransferID: transfer.ID, Reference: transfer.Reference, Status: transfer.Status}
	for i, l := range transfer.Lines {
		res.Legs = append(res.Legs, TransferLegResult{
			ProductID:         l.ProductID,
			Quantity:          l.Quantity,
			OutMovementID:     l.OutMovementID,
			InMovementID:      l.InMovementID,
			OriginStockBefore: outs[i].StockBefore,
			OriginStockAfter:  outs[i].StockAfter,
		})
	}
	uc.log.Info().
		Str("transfer_id", transfer.ID).
		Str("reference", transfer.Reference).
		Str("origin_site_id", transfer.OriginSiteID).
		Str("destination_site_id", transfer.DestinationSiteID).
		Int("lines", len(transfer.Lines)).
		Msg("traspaso creado")
	return res, nil
}

func validateCreateTransfer(input CreateTransferInput) ([]TransferLineInput, error) {
	if input.OriginSiteID == "" || input.DestinationSiteID == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if input.OriginSiteID == input.DestinationSiteID {
		return nil, domain.ErrSameSite
	}
	seen := make(map[string]struct{}, len(input.Lines))
	lines := make([]TransferLineInput, 0, len(input.Lines))
	for _, l := range input.Lines {
		if l.ProductID == "" {
			return nil, domain.ErrInvalidInput
		}
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if _, dup := seen[l.ProductID]; dup {
			return nil, fmt.Errorf("producto %s repetido: %w", l.ProductID, domain.ErrInvalidInput)
		}
		seen[l.ProductID] = struct{}{}
		lines = append(lines, l)
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

// newReference genera el código de lote, p. ej. TR-20261015-1A2B3C4D.
func newReference(now time.Time) string {
	return fmt.Sprintf("TR-%s-%s", now.Format("20060102"), strings.ToUpper(newID()[:8]))
}

// TransferActionInput entrada común de despachar, cancelar y rechazar.
type TransferActionInput struct {
	Actor      entity.Actor
	TransferID string
	Reason     string
}

// ConfirmReceiptInput entrada para confirmar la recepción en destino.
// ReceivedQuantity aplica solo a traspasos de una línea; Lines indica cantidades por producto.
// Sin cantidades se acredita lo despachado.
type ConfirmReceiptInput struct {
	Actor            entity.Actor
	TransferID       string
	ReceivedQuantity *int64
	Lines            map[string]int64
}

// TransferStatusResult estado resultante de una transición.
type TransferStatusResult struct {
	TransferID string
	Status     entity.TransferStatus
}

// Dispatch marca el traspaso EN_TRANSITO (sin efecto en stock).
func (uc *TransferUseCase) Dispatch(ctx context.Context, input TransferActionInput) (*TransferStatusResult, error) {
	return uc.transition(ctx, input.Actor, input.TransferID, domaininv.ActionDispatch, func(
		_ repository.MovementRepository,
		_ repository.StockRepository,
		transfer *entity.Transfer,
		_ map[string]*entity.Movement,
	) error {
		now := uc.now()
		transfer.DispatchedBy = input.Actor.UserID
		transfer.DispatchedAt = &now
		return nil
	})
}

// ConfirmReceipt acredita el destino con lo recibido y cierra el traspaso como RECIBIDO.
// Un faltante queda registrado en la línea y en la pierna de entrada; no genera MERMA.
func (uc *TransferUseCase) ConfirmReceipt(ctx context.Context, input ConfirmReceiptInput) (*TransferStatusResult, error) {
	return uc.transition(ctx, input.Actor, input.TransferID, domaininv.ActionConfirm, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		transfer *entity.Transfer,
		legs map[string]*entity.Movement,
	) error {
		received, err := receivedQuantities(transfer, input)
		if err != nil {
			return err
		}
		// Solo se bloquean pares de la sede destino.
		for i := range transfer.Lines {
			line := &transfer.Lines[i]
			in := legs[line.InMovementID]
			if in == nil {
				return domain.ErrLedgerInconsistency
			}
			in.ShippedQuantity = line.Quantity
			in.Quantity = received[line.ProductID]
			if err := uc.apply(ctx, movRepo, stockRepo, in, false); err != nil {
				return err
			}
			line.ReceivedQuantity = in.Quantity
			if short := line.Shortfall(); short > 0 {
				uc.log.Warn().
					Str("transfer_id", transfer.ID).
					Str("product_id", line.ProductID).
					Int64("shipped", line.Quantity).
					Int64("received", line.ReceivedQuantity).
					Int64("shortfall", short).
					Msg("faltante en recepción de traspaso")
			}
		}
		return nil
	})
}

func receivedQuantities(transfer *entity.Transfer, input ConfirmReceiptInput) (map[string]int64, error) {
	received := make(map[string]int64, len(transfer.Lines))
	shipped := make(map[string]int64, len(transfer.Lines))
	for _, l := range transfer.Lines {
		received[l.ProductID] = l.Quantity
		shipped[l.ProductID] = l.Quantity
	}
	if input.ReceivedQuantity != nil {
		if len(transfer.Lines) != 1 || len(input.Lines) > 0 {
			return nil, domain.ErrInvalidInput
		}
		received[transfer.Lines[0].ProductID] = *input.ReceivedQuantity
	}
	for productID, qty := range input.Lines {
		if _, ok := shipped[productID]; !ok {
			return nil, fmt.Errorf("producto %s no pertenece al traspaso: %w", productID, domain.ErrInvalidInput)
		}
		received[productID] = qty
	}
	for productID, qty := range received {
		if qty <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if qty > shipped[productID] {
			return nil, fmt.Errorf("recibido mayor a lo despachado: %w", domain.ErrInvalidInput)
		}
	}
	return received, nil
}

// Cancel retira el traspaso desde el origen antes de la recepción: repone el stock de origen.
func (uc *TransferUseCase) Cancel(ctx context.Context, input TransferActionInput) (*TransferStatusResult, error) {
	return uc.unwind(ctx, input, domaininv.ActionCancel)
}

// Reject rechaza el traspaso desde el destino: mismo efecto en stock que Cancel, estado RECHAZADO.
func (uc *TransferUseCase) Reject(ctx context.Context, input TransferActionInput) (*TransferStatusResult, error) {
	return uc.unwind(ctx, input, domaininv.ActionReject)
}

func (uc *TransferUseCase) unwind(ctx context.Context, input TransferActionInput, action domaininv.TransferAction) (*TransferStatusResult, error) {
	reason := strings.TrimSpace(input.Reason)
	if reason == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.transition(ctx, input.Actor, input.TransferID, action, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		transfer *entity.Transfer,
		legs map[string]*entity.Movement,
	) error {
		transfer.ResolutionReason = reason
		// Solo se bloquean pares de la sede origen; la entrada nunca se aplicó.
		for _, line := range transfer.Lines {
			out := legs[line.OutMovementID]
			if out == nil {
				return domain.ErrLedgerInconsistency
			}
			if err := uc.reverse(ctx, movRepo, stockRepo, out, input.Actor, reason, false); err != nil {
				return err
			}
		}
		return nil
	})
}

type transitionFunc func(
	movRepo repository.MovementRepository,
	stockRepo repository.StockRepository,
	transfer *entity.Transfer,
	legs map[string]*entity.Movement,
) error

// transition bloquea el traspaso, autoriza, valida la máquina de estados, ejecuta el efecto
// y propaga el nuevo estado al traspaso y a todas sus piernas.
func (uc *TransferUseCase) transition(
	ctx context.Context,
	actor entity.Actor,
	transferID string,
	action domaininv.TransferAction,
	effect transitionFunc,
) (*TransferStatusResult, error) {
	if transferID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out TransferStatusResult
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		stockRepo repository.StockRepository,
		transferRepo repository.TransferRepository,
	) error {
		transfer, err := transferRepo.GetForUpdate(ctx, transferID)
		if err != nil {
			return err
		}
		if transfer == nil {
			return domain.ErrTransferNotFound
		}
		if err := domaininv.Authorize(actor, action, transfer.OriginSiteID, transfer.DestinationSiteID); err != nil {
			return err
		}
		next, err := domaininv.NextStatus(transfer.Status, action)
		if err != nil {
			return err
		}
		movs, err := movRepo.ListByTransfer(ctx, transfer.ID)
		if err != nil {
			return err
		}
		legs := make(map[string]*entity.Movement, len(movs))
		for _, m := range movs {
			m.TransferStatus = next
			legs[m.ID] = m
		}
		sort.Slice(transfer.Lines, func(i, j int) bool { return transfer.Lines[i].ProductID < transfer.Lines[j].ProductID })

		if err := effect(movRepo, stockRepo, transfer, legs); err != nil {
			return err
		}
		// Persiste el nuevo estado en todas las piernas.
		for _, m := range movs {
			if err := movRepo.Update(ctx, m); err != nil {
				return err
			}
		}

		now := uc.now()
		transfer.Status = next
		transfer.UpdatedAt = now
		if next.Terminal() {
			transfer.ResolvedBy = actor.UserID
			transfer.ResolvedAt = &now
		}
		if err := transferRepo.Update(ctx, transfer); err != nil {
			return err
		}
		out = TransferStatusResult{TransferID: transfer.ID, Status: next}
		return nil
	})
	if err != nil {
		if !isBusinessError(err) {
			uc.log.Error().Err(err).Str("transfer_id", transferID).Str("action", string(action)).Msg("transición de traspaso")
		}
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", out.TransferID).
		Str("action", string(action)).
		Str("status", string(out.Status)).
		Str("user_id", actor.UserID).
		Msg("traspaso actualizado")
	return &out, nil
}
