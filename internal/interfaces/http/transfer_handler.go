package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// TransferHandler maneja traspasos entre sedes (protegido).
type TransferHandler struct {
	transfers *inventory.TransferUseCase
	queries   *inventory.LedgerQueryUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(transfers *inventory.TransferUseCase, queries *inventory.LedgerQueryUseCase) *TransferHandler {
	return &TransferHandler{transfers: transfers, queries: queries}
}

// Create godoc
// @Summary      Crear traspaso
// @Description  Descuenta el origen y deja la entrada pendiente en destino (estado PENDIENTE).
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "Origen, destino y líneas"
// @Success      201   {object}  dto.TransferCreatedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.CreateTransferRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	lines := make([]inventory.TransferLineInput, 0, len(in.Lines))
	for _, l := range in.Lines {
		qty, err := wholeQuantity(l.Quantity)
		if err != nil {
			return writeError(c, err)
		}
		lines = append(lines, inventory.TransferLineInput{ProductID: l.ProductID, Quantity: qty})
	}
	out, err := h.transfers.CreateTransfer(c.UserContext(), inventory.CreateTransferInput{
		Actor:             actor,
		OriginSiteID:      in.OriginSiteID,
		DestinationSiteID: in.DestinationSiteID,
		Reason:            in.Reason,
		Lines:             lines,
	})
	if err != nil {
		return writeError(c, err)
	}
	legs := make([]dto.TransferLegResponse, 0, len(out.Legs))
	for _, l := range out.Legs {
		legs = append(legs, dto.TransferLegResponse{
			ProductID:         l.ProductID,
			Quantity:          l.Quantity,
			OutMovementID:     l.OutMovementID,
			InMovementID:      l.InMovementID,
			OriginStockBefore: l.OriginStockBefore,
			OriginStockAfter:  l.OriginStockAfter,
		})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferCreatedResponse{
		TransferID: out.TransferID,
		Reference:  out.Reference,
		Status:     string(out.Status),
		Legs:       legs,
	})
}

// Dispatch godoc
// @Summary      Despachar traspaso
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traspaso"
// @Success      200  {object}  dto.TransferStatusResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/dispatch [post]
func (h *TransferHandler) Dispatch(c *fiber.Ctx) error {
	return h.action(c, h.transfers.Dispatch)
}

// Confirm godoc
// @Summary      Confirmar recepción
// @Description  Acredita el destino. Sin cantidades se recibe lo despachado; received_quantity solo aplica a traspasos de una línea.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true   "ID del traspaso"
// @Param        body  body  dto.ConfirmReceiptRequest  false  "Cantidades recibidas"
// @Success      200   {object}  dto.TransferStatusResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/confirm [post]
func (h *TransferHandler) Confirm(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.ConfirmReceiptRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
	}
	input := inventory.ConfirmReceiptInput{Actor: actor, TransferID: c.Params("id")}
	if in.ReceivedQuantity != nil {
		qty, err := wholeQuantity(*in.ReceivedQuantity)
		if err != nil {
			return writeError(c, err)
		}
		input.ReceivedQuantity = &qty
	}
	if len(in.Lines) > 0 {
		input.Lines = make(map[string]int64, len(in.Lines))
		for _, l := range in.Lines {
			if _, dup := input.Lines[l.ProductID]; dup {
				return writeError(c, domain.ErrInvalidInput)
			}
			qty, err := wholeQuantity(l.ReceivedQuantity)
			if err != nil {
				return writeError(c, err)
			}
			input.Lines[l.ProductID] = qty
		}
	}
	out, err := h.transfers.ConfirmReceipt(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransferStatusResponse{TransferID: out.TransferID, Status: string(out.Status)})
}

// Cancel godoc
// @Summary      Cancelar traspaso
// @Description  Revierte la salida del origen. Requiere motivo.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del traspaso"
// @Param        body  body  dto.TransferReasonRequest  true  "Motivo"
// @Success      200   {object}  dto.TransferStatusResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	return h.action(c, h.transfers.Cancel)
}

// Reject godoc
// @Summary      Rechazar traspaso
// @Description  El destino rechaza el envío; el stock vuelve al origen. Requiere motivo.
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del traspaso"
// @Param        body  body  dto.TransferReasonRequest  true  "Motivo"
// @Success      200   {object}  dto.TransferStatusResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/reject [post]
func (h *TransferHandler) Reject(c *fiber.Ctx) error {
	return h.action(c, h.transfers.Reject)
}

type transferAction func(ctx context.Context, input inventory.TransferActionInput) (*inventory.TransferStatusResult, error)

func (h *TransferHandler) action(c *fiber.Ctx, run transferAction) error {
	actor := GetActor(c)
	if actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.TransferReasonRequest
	if len(c.Body()) > 0 {
		if ok, err := bindJSON(c, &in); !ok {
			return err
		}
	}
	out, err := run(c.UserContext(), inventory.TransferActionInput{
		Actor:      actor,
		TransferID: c.Params("id"),
		Reason:     in.Reason,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.TransferStatusResponse{TransferID: out.TransferID, Status: string(out.Status)})
}

// GetByID godoc
// @Summary      Obtener traspaso
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del traspaso"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id} [get]
func (h *TransferHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.queries.GetTransfer(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar traspasos
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status   query  string  false  "Estado"
// @Param        site_id  query  string  false  "Sede origen o destino"
// @Param        from     query  string  false  "Desde"
// @Param        to       query  string  false  "Hasta"
// @Param        limit    query  int     false  "Límite"  default(20)
// @Param        offset   query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.queries.ListTransfers(c.UserContext(), inventory.TransferQuery{
		Status: c.Query("status"),
		SiteID: c.Query("site_id"),
		From:   from,
		To:     to,
		Page:   pageFromQuery(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
