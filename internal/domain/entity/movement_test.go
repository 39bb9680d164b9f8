package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMovementCapabilities(t *testing.T) {
	inbound := []MovementType{MovementTypeIngreso, MovementTypeAjustePositivo, MovementTypeDevolucion, MovementTypeTraspasoEntrada}
	outbound := []MovementType{MovementTypeAjusteNegativo, MovementTypeMerma, MovementTypeUsoServicio, MovementTypeSalida, MovementTypeTraspasoSalida}

	for _, mt := range inbound {
		assert.Equal(t, DirectionInbound, mt.Capabilities().Direction, mt)
		assert.False(t, mt.IsOutbound(), mt)
	}
	for _, mt := range outbound {
		assert.Equal(t, DirectionOutbound, mt.Capabilities().Direction, mt)
		assert.True(t, mt.IsOutbound(), mt)
	}
	assert.Len(t, MovementTypes(), len(inbound)+len(outbound))

	for _, mt := range MovementTypes() {
		assert.True(t, mt.Valid(), mt)
		caps := mt.Capabilities()
		// Las piernas de traspaso solo se deshacen desde el traspaso.
		assert.Equal(t, !caps.TransferLeg, caps.Reversible, mt)
	}
}

func TestMovementType_RequiresReason(t *testing.T) {
	for _, mt := range []MovementType{MovementTypeAjustePositivo, MovementTypeAjusteNegativo, MovementTypeMerma, MovementTypeDevolucion} {
		assert.True(t, mt.Capabilities().RequiresReason, mt)
	}
	assert.False(t, MovementTypeIngreso.Capabilities().RequiresReason)
	assert.False(t, MovementTypeSalida.Capabilities().RequiresReason)
}

func TestMovementType_Unknown(t *testing.T) {
	mt := MovementType("REGALO")
	assert.False(t, mt.Valid())
	assert.Equal(t, Capabilities{}, mt.Capabilities())
}

func TestMovement_SignedDeltaAndLive(t *testing.T) {
	in := Movement{Type: MovementTypeIngreso, Quantity: 7, Applied: true}
	out := Movement{Type: MovementTypeSalida, Quantity: 3, Applied: true}
	assert.Equal(t, int64(7), in.SignedDelta())
	assert.Equal(t, int64(-3), out.SignedDelta())
	assert.True(t, in.Live())

	out.Voided = true
	assert.False(t, out.Live())

	pending := Movement{Type: MovementTypeTraspasoEntrada, Quantity: 5}
	assert.False(t, pending.Live())
}

func TestTransferStatusAndShortfall(t *testing.T) {
	assert.True(t, TransferStatusRecibido.Terminal())
	assert.True(t, TransferStatusCancelado.Terminal())
	assert.True(t, TransferStatusRechazado.Terminal())
	assert.False(t, TransferStatusPendiente.Terminal())
	assert.False(t, TransferStatusEnTransito.Terminal())
	assert.False(t, TransferStatus("PERDIDO").Valid())

	line := TransferLine{Quantity: 10}
	assert.Equal(t, int64(0), line.Shortfall())
	line.ReceivedQuantity = 8
	assert.Equal(t, int64(2), line.Shortfall())
}

func TestActor(t *testing.T) {
	admin := Actor{UserID: "u", Role: RoleAdmin}
	assert.True(t, admin.IsAdmin())
	assert.False(t, admin.AtSite(""))

	clerk := Actor{UserID: "u", SiteID: "s1", Role: RoleBodeguero}
	assert.False(t, clerk.IsAdmin())
	assert.True(t, clerk.AtSite("s1"))
	assert.False(t, clerk.AtSite("s2"))
}
