package inventory_test

import (
	"context"
	"math"
	"testing"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyMovement_InboundAndOutbound(t *testing.T) {
	f := newFixture(t, domaininv.Policy{})
	ctx := context.Background()

	res := f.receive(t, product1, siteA, 10)
	assert.Equal(t, int64(0), res.StockBefore)
	assert.Equal(t, int64(10), res.StockAfter)

	cost := decimal.RequireFromString("21500.50")
	out, err := f.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
		Actor:     clerkA,
		ProductID: product1,
		SiteID:    siteA,
		Type:      entity.MovementTypeSalida,
		Quantity:  4,
		Reference: "FV-100",
		SalePrice: &cost,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.StockBefore)
	assert.Equal(t, int64(6), out.StockAfter)
	assert.Equal(t, int64(6), f.stock(t, product1, siteA))

	mov, err := f.store.Movements().GetByID(ctx, out.MovementID)
	require.NoError(t, err)
	require.NotNil(t, mov)
	assert.True(t, mov.Applied)
	assert.Equal(t, "FV-100", mov.Reference)
	assert.Equal(t, clerkA.UserID, mov.CreatedBy)
	assert.True(t, mov.SalePrice.Equal(cost))

	// Otra sede no se ve afectada.
	assert.Equal(t, int64(0), f.stock(t, product1, siteB))
	f.requireConsistent(t)
}

func TestApplyMovement_ExactStockReachesZero(t *testing.T) {
	f := newFixture(t, domaininv.Policy{})
	f.receive(t, product1, siteA, 3)

	out, err := f.movements.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		Actor: clerkA, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeUsoServicio, Quantity: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.StockAfter)
}

func TestApplyMovement_InsufficientStockLeavesNoTrace(t *testing.T) {
	f := newFixture(t, domaininv.Policy{})
	ctx := context.Background()
	f.receive(t, product1, siteA, 2)

	_, err := f.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
		Actor: clerkA, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeSalida, Quantity: 3,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(2), f.stock(t, product1, siteA))

	movs, total, err := f.store.Movements().List(ctx, repository.MovementFilter{ProductID: product1, IncludeVoided: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, movs, 1)
}

func TestApplyMovement_Validation(t *testing.T) {
	f := newFixture(t, domaininv.Policy{})
	ctx := context.Background()

	base := inventory.ApplyMovementInput{Actor: admin, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeIngreso, Quantity: 1}
	negative := decimal.NewFromInt(-1)

	tests := []struct {
		name   string
		mutate func(in *inventory.ApplyMovementInput)
		want   error
	}{
		{"cantidad cero", func(in *inventory.ApplyMovementInput) { in.Quantity = 0 }, domain.ErrInvalidQuantity},
		{"cantidad negativa", func(in *inventory.ApplyMovementInput) { in.Quantity = -5 }, domain.ErrInvalidQuantity},
		{"tipo desconocido", func(in *inventory.ApplyMovementInput) { in.Type = "REGALO" }, domain.ErrInvalidInput},
		{"pierna de traspaso", func(in *inventory.ApplyMovementInput) { in.Type = entity.MovementTypeTraspasoSalida }, domain.ErrInvalidInput},
		{"merma sin motivo", func(in *inventory.ApplyMovementInput) { in.Type = entity.MovementTypeMerma }, domain.ErrInvalidInput},
		{"ajuste sin motivo", func(in *inventory.ApplyMovementInput) { in.Type = entity.MovementTypeAjustePositivo; in.Reason = "  " }, domain.ErrInvalidInput},
		{"costo negativo", func(in *inventory.ApplyMovementInput) { in.UnitCost = &negative }, domain.ErrInvalidInput},
		{"sin producto", func(in *inventory.ApplyMovementInput) { in.ProductID = "" }, domain.ErrInvalidInput},
		{"producto inexistente", func(in *inventory.ApplyMovementInput) { in.ProductID = "nope" }, domain.ErrProductNotFound},
		{"sede inexistente", func(in *inventory.ApplyMovementInput) { in.SiteID = "nope" }, domain.ErrSiteNotFound},
		{"otra sede", func(in *inventory.ApplyMovementInput) { in.Actor = clerkB }, domain.ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.mutate(&in)
			_, err := f.movements.ApplyMovement(ctx, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
	assert.Equal(t, int64(0), f.stock(t, product1, siteA))
}

func TestApplyMovement_CounterOverflowRejected(t *testing.T) {
	f := newFixture(t, domaininv.Policy{})
	ctx := context.Background()
	f.receive(t, product1, siteA, 5)

	_, err := f.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
		Actor: clerkA, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeIngreso, Quantity: math.MaxInt64,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, int64(5), f.stock(t, product1, siteA))

	// El par sigue operable.
	out := f.receive(t, product1, siteA, 1)
	assert.Equal(t, int64(6), out.StockAfter)
	f.requireConsistent(t)
}

func TestVoidMovement_CounterOverflowRejected(t *testing.T) {
	f := newFixture(t, domaininv.Policy{})
	ctx := context.Background()
	f.receive(t, product1, siteA, math.MaxInt64-1)
	sale, err := f.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
		Actor: clerkA, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeSalida, Quantity: 1,
	})
	require.NoError(t, err)
	f.receive(t, product1, siteA, 2)

	_, err = f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: clerkA, MovementID: sale.MovementID, Reason: "venta anulada"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	assert.Equal(t, int64(math.MaxInt64), f.stock(t, product1, siteA))
	f.requireConsistent(t)
}

func TestApplyMovement_ReasonRequiredTypesAccepted(t *testing.T) {
	f := newFixture(t, domaininv.Policy{})
	f.receive(t, product1, siteA, 5)

	out, err := f.movements.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		Actor: clerkA, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeMerma, Quantity: 1, Reason: "caja golpeada",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), out.StockAfter)
}

func TestApplyMovement_NegativeOverride(t *testing.T) {
	ctx := context.Background()
	salida := inventory.ApplyMovementInput{
		Actor: admin, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeSalida, Quantity: 5, Force: true,
	}

	t.Run("no admin no puede forzar", func(t *testing.T) {
		f := newFixture(t, domaininv.Policy{AllowNegativeOverride: true})
		in := salida
		in.Actor = clerkA
		_, err := f.movements.ApplyMovement(ctx, in)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("politica deshabilitada", func(t *testing.T) {
		f := newFixture(t, domaininv.Policy{})
		f.receive(t, product1, siteA, 3)
		_, err := f.movements.ApplyMovement(ctx, salida)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, int64(3), f.stock(t, product1, siteA))
	})

	t.Run("admin fuerza saldo negativo", func(t *testing.T) {
		f := newFixture(t, domaininv.Policy{AllowNegativeOverride: true})
		f.receive(t, product1, siteA, 3)
		out, err := f.movements.ApplyMovement(ctx, salida)
		require.NoError(t, err)
		assert.Equal(t, int64(-2), out.StockAfter)
		assert.Equal(t, int64(-2), f.stock(t, product1, siteA))
		f.requireConsistent(t)

		// Sin forzado una salida adicional se rechaza; una entrada procede.
		in := salida
		in.Force = false
		in.Quantity = 1
		_, err = f.movements.ApplyMovement(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		out = f.receive(t, product1, siteA, 1)
		assert.Equal(t, int64(-1), out.StockAfter)

		// Apagar la política con saldos negativos es una inconsistencia a conciliar.
		strict := withPolicy(f.store, domaininv.Policy{})
		_, err = strict.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
			Actor: admin, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeIngreso, Quantity: 1,
		})
		assert.ErrorIs(t, err, domain.ErrLedgerInconsistency)
	})
}

func TestVoidMovement(t *testing.T) {
	ctx := context.Background()

	t.Run("anula una entrada", func(t *testing.T) {
		f := newFixture(t, domaininv.Policy{})
		in := f.receive(t, product1, siteA, 10)

		res, err := f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: clerkA, MovementID: in.MovementID, Reason: "doble digitación"})
		require.NoError(t, err)
		assert.Equal(t, int64(10), res.StockBefore)
		assert.Equal(t, int64(0), res.StockAfter)
		assert.Equal(t, int64(0), f.stock(t, product1, siteA))

		mov, err := f.store.Movements().GetByID(ctx, in.MovementID)
		require.NoError(t, err)
		assert.True(t, mov.Voided)
		assert.Equal(t, "doble digitación", mov.VoidReason)
		assert.Equal(t, clerkA.UserID, mov.VoidedBy)
		assert.NotNil(t, mov.VoidedAt)
		// El snapshot original se conserva.
		assert.Equal(t, int64(10), mov.StockAfter)
		f.requireConsistent(t)

		_, err = f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: admin, MovementID: in.MovementID, Reason: "otra vez"})
		assert.ErrorIs(t, err, domain.ErrAlreadyVoided)
	})

	t.Run("anula una salida sobre el saldo actual", func(t *testing.T) {
		f := newFixture(t, domaininv.Policy{})
		f.receive(t, product1, siteA, 10)
		out, err := f.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
			Actor: clerkA, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeSalida, Quantity: 4,
		})
		require.NoError(t, err)
		f.receive(t, product1, siteA, 5)

		res, err := f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: clerkA, MovementID: out.MovementID, Reason: "venta anulada"})
		require.NoError(t, err)
		assert.Equal(t, int64(11), res.StockBefore)
		assert.Equal(t, int64(15), res.StockAfter)
		f.requireConsistent(t)
	})

	t.Run("stock insuficiente para revertir", func(t *testing.T) {
		f := newFixture(t, domaininv.Policy{})
		in := f.receive(t, product1, siteA, 5)
		_, err := f.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
			Actor: clerkA, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeSalida, Quantity: 4,
		})
		require.NoError(t, err)

		_, err = f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: admin, MovementID: in.MovementID, Reason: "error"})
		assert.ErrorIs(t, err, domain.ErrInsufficientStockForReversal)
		assert.Equal(t, int64(1), f.stock(t, product1, siteA))

		mov, err := f.store.Movements().GetByID(ctx, in.MovementID)
		require.NoError(t, err)
		assert.False(t, mov.Voided)
	})

	t.Run("forzado administrativo permite revertir a negativo", func(t *testing.T) {
		f := newFixture(t, domaininv.Policy{AllowNegativeOverride: true})
		in := f.receive(t, product1, siteA, 5)
		_, err := f.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
			Actor: clerkA, ProductID: product1, SiteID: siteA, Type: entity.MovementTypeSalida, Quantity: 4,
		})
		require.NoError(t, err)

		res, err := f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: admin, MovementID: in.MovementID, Reason: "error", Force: true})
		require.NoError(t, err)
		assert.Equal(t, int64(-4), res.StockAfter)
		f.requireConsistent(t)
	})

	t.Run("validaciones", func(t *testing.T) {
		f := newFixture(t, domaininv.Policy{})
		in := f.receive(t, product1, siteA, 5)

		_, err := f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: admin, MovementID: in.MovementID})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)

		_, err = f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: admin, MovementID: "nope", Reason: "x"})
		assert.ErrorIs(t, err, domain.ErrMovementNotFound)

		_, err = f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: clerkB, MovementID: in.MovementID, Reason: "x"})
		assert.ErrorIs(t, err, domain.ErrForbidden)

		_, err = f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: clerkA, MovementID: in.MovementID, Reason: "x", Force: true})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("piernas de traspaso no se anulan directamente", func(t *testing.T) {
		f := newFixture(t, domaininv.Policy{})
		f.receive(t, product1, siteA, 5)
		tr, err := f.transfers.CreateTransfer(ctx, inventory.CreateTransferInput{
			Actor: clerkA, OriginSiteID: siteA, DestinationSiteID: siteB,
			Lines: []inventory.TransferLineInput{{ProductID: product1, Quantity: 2}},
		})
		require.NoError(t, err)

		_, err = f.movements.VoidMovement(ctx, inventory.VoidMovementInput{Actor: admin, MovementID: tr.Legs[0].OutMovementID, Reason: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		assert.Equal(t, int64(3), f.stock(t, product1, siteA))
	})
}
