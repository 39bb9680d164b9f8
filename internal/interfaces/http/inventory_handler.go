package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP de movimientos y saldos (protegido).
type InventoryHandler struct {
	movements *inventory.MovementUseCase
	queries   *inventory.LedgerQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(movements *inventory.MovementUseCase, queries *inventory.LedgerQueryUseCase) *InventoryHandler {
	return &InventoryHandler{movements: movements, queries: queries}
}

// ApplyMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Aplica un movimiento simple (no traspaso) sobre el stock de una sede.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "product_id, site_id, type, quantity"
// @Success      201   {object}  dto.MovementAppliedResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) ApplyMovement(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.ApplyMovementRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	qty, err := wholeQuantity(in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.movements.ApplyMovement(c.UserContext(), inventory.ApplyMovementInput{
		Actor:        actor,
		ProductID:    in.ProductID,
		SiteID:       in.SiteID,
		Type:         entity.MovementType(in.Type),
		Quantity:     qty,
		Reference:    in.Reference,
		Reason:       in.Reason,
		Observations: in.Observations,
		UnitCost:     in.UnitCost,
		SalePrice:    in.SalePrice,
		Force:        in.Force,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementAppliedResponse{
		MovementID:  out.MovementID,
		StockBefore: out.StockBefore,
		StockAfter:  out.StockAfter,
	})
}

// VoidMovement godoc
// @Summary      Anular movimiento
// @Description  Aplica el delta inverso sobre el stock actual y marca el movimiento como anulado.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID del movimiento"
// @Param        body  body  dto.VoidMovementRequest  true  "Motivo"
// @Success      200   {object}  dto.VoidMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements/{id}/void [post]
func (h *InventoryHandler) VoidMovement(c *fiber.Ctx) error {
	actor := GetActor(c)
	if actor.UserID == "" {
		return unauthorized(c)
	}
	var in dto.VoidMovementRequest
	if ok, err := bindJSON(c, &in); !ok {
		return err
	}
	out, err := h.movements.VoidMovement(c.UserContext(), inventory.VoidMovementInput{
		Actor:      actor,
		MovementID: c.Params("id"),
		Reason:     in.Reason,
		Force:      in.Force,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.VoidMovementResponse{
		MovementID:  out.MovementID,
		StockBefore: out.StockBefore,
		StockAfter:  out.StockAfter,
	})
}

// ListMovements godoc
// @Summary      Kardex paginado
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id      query  string  false  "Producto (requerido si no hay site_id)"
// @Param        site_id         query  string  false  "Sede (requerida si no hay product_id)"
// @Param        type            query  string  false  "Tipo de movimiento"
// @Param        from            query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to              query  string  false  "Hasta (RFC3339 o YYYY-MM-DD)"
// @Param        include_voided  query  bool    false  "Incluir anulados"
// @Param        limit           query  int     false  "Límite"  default(20)
// @Param        offset          query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, err := queryTime(c, "from")
	if err != nil {
		return writeError(c, err)
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.queries.ListMovements(c.UserContext(), inventory.MovementQuery{
		ProductID:     c.Query("product_id"),
		SiteID:        c.Query("site_id"),
		Type:          c.Query("type"),
		From:          from,
		To:            to,
		IncludeVoided: c.QueryBool("include_voided", false),
		Page:          pageFromQuery(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Saldo de un producto en una sede
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "Producto"
// @Param        site_id     query  string  true  "Sede"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	productID, siteID := c.Query("product_id"), c.Query("site_id")
	qty, err := h.queries.GetStock(c.UserContext(), productID, siteID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockResponse{ProductID: productID, SiteID: siteID, Quantity: qty})
}

// VerifyStock godoc
// @Summary      Verificar saldo contra el kardex
// @Description  Reconstruye el saldo desde los movimientos vigentes y lo compara con el contador (solo admin).
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "Producto"
// @Param        site_id     query  string  true  "Sede"
// @Success      200  {object}  dto.LedgerCheckResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock/verify [get]
func (h *InventoryHandler) VerifyStock(c *fiber.Ctx) error {
	out, err := h.queries.VerifyStock(c.UserContext(), c.Query("product_id"), c.Query("site_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
