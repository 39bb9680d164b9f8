package inventory

import (
	"math"
	"testing"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDelta(t *testing.T) {
	after, err := ApplyDelta(10, -4, false, domain.ErrInsufficientStock)
	require.NoError(t, err)
	assert.Equal(t, int64(6), after)

	after, err = ApplyDelta(3, -3, false, domain.ErrInsufficientStock)
	require.NoError(t, err)
	assert.Equal(t, int64(0), after)

	after, err = ApplyDelta(3, -5, false, domain.ErrInsufficientStock)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), after, "un rechazo no cambia el saldo")

	after, err = ApplyDelta(3, -5, true, domain.ErrInsufficientStock)
	require.NoError(t, err)
	assert.Equal(t, int64(-2), after, "con forzado no se recorta a cero")

	// Una entrada sobre saldo negativo siempre procede.
	after, err = ApplyDelta(-2, 1, false, domain.ErrInsufficientStock)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), after)

	_, err = ApplyDelta(1, -2, false, domain.ErrInsufficientStockForReversal)
	assert.ErrorIs(t, err, domain.ErrInsufficientStockForReversal)
}

func TestApplyDelta_Overflow(t *testing.T) {
	tests := []struct {
		name          string
		before, delta int64
		allowNegative bool
		want          int64
		err           error
	}{
		{"entrada que desborda", 5, math.MaxInt64, false, 5, domain.ErrInvalidQuantity},
		{"entrada hasta el máximo", 5, math.MaxInt64 - 5, false, math.MaxInt64, nil},
		{"entrada sobre el máximo", math.MaxInt64, 1, false, math.MaxInt64, domain.ErrInvalidQuantity},
		{"salida forzada que desborda", math.MinInt64 + 1, -2, true, math.MinInt64 + 1, domain.ErrInvalidQuantity},
		{"salida forzada hasta el mínimo", -1, -math.MaxInt64, true, math.MinInt64, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			after, err := ApplyDelta(tt.before, tt.delta, tt.allowNegative, domain.ErrInsufficientStock)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, after)
		})
	}
}

func TestPolicy_Override(t *testing.T) {
	admin := entity.Actor{UserID: "a", Role: entity.RoleAdmin}
	clerk := entity.Actor{UserID: "b", SiteID: "s", Role: entity.RoleBodeguero}

	allow, err := Policy{}.Override(clerk, false)
	require.NoError(t, err)
	assert.False(t, allow)

	_, err = Policy{AllowNegativeOverride: true}.Override(clerk, true)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	allow, err = Policy{AllowNegativeOverride: false}.Override(admin, true)
	require.NoError(t, err)
	assert.False(t, allow, "la política deshabilitada ignora el forzado")

	allow, err = Policy{AllowNegativeOverride: true}.Override(admin, true)
	require.NoError(t, err)
	assert.True(t, allow)
}

func TestReplayAndVerify(t *testing.T) {
	movs := []*entity.Movement{
		{Type: entity.MovementTypeIngreso, Quantity: 10, Applied: true},
		{Type: entity.MovementTypeSalida, Quantity: 3, Applied: true},
		{Type: entity.MovementTypeMerma, Quantity: 2, Applied: true, Voided: true},
		{Type: entity.MovementTypeTraspasoEntrada, Quantity: 5},
		{Type: entity.MovementTypeTraspasoSalida, Quantity: 4, Applied: true},
	}
	assert.Equal(t, int64(3), Replay(movs))
	assert.NoError(t, Verify(3, movs))
	assert.ErrorIs(t, Verify(5, movs), domain.ErrLedgerInconsistency)
	assert.Equal(t, int64(0), Replay(nil))
}
