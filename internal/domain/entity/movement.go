package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType clasifica un movimiento del kardex.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementTypeIngreso         MovementType = "INGRESO"          // compra / entrada de mercancía
	MovementTypeAjustePositivo  MovementType = "AJUSTE_POSITIVO"  // ajuste +
	MovementTypeAjusteNegativo  MovementType = "AJUSTE_NEGATIVO"  // ajuste -
	MovementTypeMerma           MovementType = "MERMA"            // pérdida
	MovementTypeDevolucion      MovementType = "DEVOLUCION"       // devolución de cliente
	MovementTypeUsoServicio     MovementType = "USO_SERVICIO"     // consumido por un servicio técnico
	MovementTypeSalida          MovementType = "SALIDA"           // venta u otra salida
	MovementTypeTraspasoSalida  MovementType = "TRASPASO_SALIDA"  // pierna origen de un traspaso
	MovementTypeTraspasoEntrada MovementType = "TRASPASO_ENTRADA" // pierna destino de un traspaso
)

// Direction indica si un tipo suma o resta stock.
type Direction int

const (
	DirectionInbound  Direction = 1
	DirectionOutbound Direction = -1
)

// Capabilities describe qué permite cada tipo de movimiento.
type Capabilities struct {
	Direction      Direction
	Reversible     bool // anulable con VoidMovement
	RequiresReason bool // motivo obligatorio al registrar
	TransferLeg    bool // solo lo crea el coordinador de traspasos
}

var movementCapabilities = map[MovementType]Capabilities{
	MovementTypeIngreso:         {Direction: DirectionInbound, Reversible: true},
	MovementTypeAjustePositivo:  {Direction: DirectionInbound, Reversible: true, RequiresReason: true},
	MovementTypeAjusteNegativo:  {Direction: DirectionOutbound, Reversible: true, RequiresReason: true},
	MovementTypeMerma:           {Direction: DirectionOutbound, Reversible: true, RequiresReason: true},
	MovementTypeDevolucion:      {Direction: DirectionInbound, Reversible: true, RequiresReason: true},
	MovementTypeUsoServicio:     {Direction: DirectionOutbound, Reversible: true},
	MovementTypeSalida:          {Direction: DirectionOutbound, Reversible: true},
	MovementTypeTraspasoSalida:  {Direction: DirectionOutbound, TransferLeg: true},
	MovementTypeTraspasoEntrada: {Direction: DirectionInbound, TransferLeg: true},
}

// MovementTypes devuelve todos los tipos conocidos en orden estable.
func MovementTypes() []MovementType {
	return []MovementType{
		MovementTypeIngreso, MovementTypeAjustePositivo, MovementTypeAjusteNegativo,
		MovementTypeMerma, MovementTypeDevolucion, MovementTypeUsoServicio,
		MovementTypeSalida, MovementTypeTraspasoSalida, MovementTypeTraspasoEntrada,
	}
}

// Valid indica si t es un tipo conocido.
func (t MovementType) Valid() bool {
	_, ok := movementCapabilities[t]
	return ok
}

// Capabilities devuelve la fila de la tabla de capacidades; tipos desconocidos devuelven el valor cero.
func (t MovementType) Capabilities() Capabilities {
	return movementCapabilities[t]
}

// IsOutbound indica si el tipo resta stock.
func (t MovementType) IsOutbound() bool {
	return t.Capabilities().Direction == DirectionOutbound
}

// Movement es una entrada inmutable del kardex. Solo cambian los campos de anulación
// y, en piernas de traspaso, el estado y la aplicación de la entrada al recibir.
type Movement struct {
	ID        string
	Seq       int64 // orden de creación
	ProductID string
	SiteID    string
	Type      MovementType
	Quantity  int64 // siempre positiva; el signo lo da Type

	Applied     bool // false solo para TRASPASO_ENTRADA aún no recibida
	StockBefore int64
	StockAfter  int64
	AppliedAt   *time.Time

	Reference    string
	Reason       string
	Observations string
	UnitCost     *decimal.Decimal
	SalePrice    *decimal.Decimal

	Voided          bool
	VoidReason      string
	VoidedBy        string
	VoidedAt        *time.Time
	VoidStockBefore int64
	VoidStockAfter  int64

	TransferID       string
	PairedMovementID string
	TransferStatus   TransferStatus
	ShippedQuantity  int64 // TRASPASO_ENTRADA: cantidad despachada; Quantity es lo acreditado

	CreatedAt time.Time
	CreatedBy string
}

// SignedDelta devuelve el efecto del movimiento sobre el stock.
func (m *Movement) SignedDelta() int64 {
	return int64(m.Type.Capabilities().Direction) * m.Quantity
}

// Live indica si el movimiento cuenta para el saldo actual.
func (m *Movement) Live() bool {
	return m.Applied && !m.Voided
}
