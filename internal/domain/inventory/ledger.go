package inventory

import (
	"math"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// Policy reglas configurables del motor de inventario.
type Policy struct {
	// AllowNegativeOverride permite que un administrador fuerce salidas o anulaciones
	// que dejan el stock en negativo. Por defecto se rechazan (nunca se recorta a cero).
	AllowNegativeOverride bool
}

// Override decide si un forzado solicitado puede aplicarse.
// Un forzado pedido por un actor no administrador es ErrForbidden.
func (p Policy) Override(actor entity.Actor, force bool) (bool, error) {
	if !force {
		return false, nil
	}
	if !actor.IsAdmin() {
		return false, domain.ErrForbidden
	}
	return p.AllowNegativeOverride, nil
}

// ApplyDelta calcula el stock resultante. Una resta que deja el stock negativo devuelve
// insufficient salvo que allowNegative. Un saldo fuera del rango de int64 es ErrInvalidQuantity.
func ApplyDelta(before, delta int64, allowNegative bool, insufficient error) (int64, error) {
	if (delta > 0 && before > math.MaxInt64-delta) || (delta < 0 && before < math.MinInt64-delta) {
		return before, domain.ErrInvalidQuantity
	}
	after := before + delta
	if delta < 0 && after < 0 && !allowNegative {
		return before, insufficient
	}
	return after, nil
}

// Replay reduce los movimientos vigentes (aplicados y no anulados) a un saldo.
func Replay(movements []*entity.Movement) int64 {
	var total int64
	for _, m := range movements {
		if m.Live() {
			total += m.SignedDelta()
		}
	}
	return total
}

// Verify compara el contador cacheado con el saldo reconstruido desde el kardex.
func Verify(counter int64, movements []*entity.Movement) error {
	if Replay(movements) != counter {
		return domain.ErrLedgerInconsistency
	}
	return nil
}
