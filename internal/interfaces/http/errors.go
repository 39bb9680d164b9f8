package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var kindStatus = map[string]int{
	domain.KindNotFound:                     fiber.StatusNotFound,
	domain.KindInvalidInput:                 fiber.StatusBadRequest,
	domain.KindForbidden:                    fiber.StatusForbidden,
	domain.KindInsufficientStock:            fiber.StatusConflict,
	domain.KindInsufficientStockForReversal: fiber.StatusConflict,
	domain.KindAlreadyVoided:                fiber.StatusConflict,
	domain.KindInvalidTransition:            fiber.StatusConflict,
	domain.KindConcurrencyConflict:          fiber.StatusConflict,
	domain.KindLedgerInconsistency:          fiber.StatusInternalServerError,
}

// writeError traduce un error de dominio a ErrorResponse con el status correspondiente.
// Los errores internos no exponen su detalle.
func writeError(c *fiber.Ctx, err error) error {
	kind := domain.Kind(err)
	status, ok := kindStatus[kind]
	if !ok {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: domain.KindInternal, Message: "error interno"})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: kind, Message: err.Error()})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
