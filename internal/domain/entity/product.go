package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o repuesto del catálogo. El kardex solo verifica su existencia;
// el ciclo de vida del catálogo pertenece a otro módulo.
type Product struct {
	ID        string
	SKU       string // código único
	Name      string
	Price     decimal.Decimal // precio de venta vigente
	Cost      decimal.Decimal // costo de referencia
	CreatedAt time.Time
	UpdatedAt time.Time
}
