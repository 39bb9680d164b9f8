package http

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Los errores usan el nombre JSON del campo.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bindJSON parsea y valida el body. Devuelve false si ya respondió con 400.
func bindJSON(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, invalidBody(c)
	}
	if err := validate.Struct(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: validationMessage(err),
		})
	}
	return true, nil
}

func validationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return "datos inválidos"
	}
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		switch fe.Tag() {
		case "required":
			parts = append(parts, fe.Field()+" es requerido")
		case "min", "max":
			parts = append(parts, fmt.Sprintf("%s fuera de rango (%s=%s)", fe.Field(), fe.Tag(), fe.Param()))
		default:
			parts = append(parts, fe.Field()+" inválido")
		}
	}
	return strings.Join(parts, "; ")
}

// wholeQuantity convierte una cantidad decimal en entero; rechaza fracciones con ErrInvalidQuantity.
// Cero y negativos pasan para que el caso de uso los rechace con el mismo error.
func wholeQuantity(d decimal.Decimal) (int64, error) {
	if !d.IsInteger() {
		return 0, domain.ErrInvalidQuantity
	}
	if !d.BigInt().IsInt64() {
		return 0, domain.ErrInvalidQuantity
	}
	return d.IntPart(), nil
}

// queryTime parsea un parámetro RFC3339 o YYYY-MM-DD; vacío devuelve nil.
// Una fecha sin hora en "to" cubre el día completo en hora local.
func queryTime(c *fiber.Ctx, key string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%s: formato de fecha inválido: %w", key, domain.ErrInvalidInput)
	}
	if key == "to" {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

func pageFromQuery(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	page.DefaultPage()
	return page
}
