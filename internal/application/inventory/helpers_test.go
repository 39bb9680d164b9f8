package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/pkg/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	siteA    = "bogota"
	siteB    = "medellin"
	product1 = "p-filtro"
	product2 = "p-pastillas"
)

var (
	admin  = entity.Actor{UserID: "admin-1", Role: entity.RoleAdmin}
	clerkA = entity.Actor{UserID: "clerk-a", SiteID: siteA, Role: entity.RoleBodeguero}
	clerkB = entity.Actor{UserID: "clerk-b", SiteID: siteB, Role: entity.RoleBodeguero}
)

type fixture struct {
	store     *memory.Store
	movements *inventory.MovementUseCase
	transfers *inventory.TransferUseCase
	queries   *inventory.LedgerQueryUseCase
}

func newFixture(t *testing.T, policy domaininv.Policy) *fixture {
	t.Helper()
	store := memory.NewStore()
	now := time.Now()
	store.AddSite(entity.Site{ID: siteA, Name: "Sede Bogotá", Active: true, CreatedAt: now, UpdatedAt: now})
	store.AddSite(entity.Site{ID: siteB, Name: "Sede Medellín", Active: true, CreatedAt: now, UpdatedAt: now})
	store.AddProduct(entity.Product{ID: product1, SKU: "FIL-001", Name: "Filtro", Price: decimal.NewFromInt(32000)})
	store.AddProduct(entity.Product{ID: product2, SKU: "PAS-010", Name: "Pastillas", Price: decimal.NewFromInt(118000)})
	return withPolicy(store, policy)
}

// withPolicy construye casos de uso sobre un store existente con otra política.
func withPolicy(store *memory.Store, policy domaininv.Policy) *fixture {
	log := logger.Nop()
	return &fixture{
		store:     store,
		movements: inventory.NewMovementUseCase(store, store.Products(), store.Sites(), policy, log),
		transfers: inventory.NewTransferUseCase(store, store.Products(), store.Sites(), policy, log),
		queries:   inventory.NewLedgerQueryUseCase(store.Movements(), store.Stock(), store.Transfers(), store.Products(), store.Sites()),
	}
}

func (f *fixture) stock(t *testing.T, productID, siteID string) int64 {
	t.Helper()
	qty, err := f.queries.GetStock(context.Background(), productID, siteID)
	require.NoError(t, err)
	return qty
}

func (f *fixture) receive(t *testing.T, productID, siteID string, qty int64) *inventory.MovementResult {
	t.Helper()
	res, err := f.movements.ApplyMovement(context.Background(), inventory.ApplyMovementInput{
		Actor:     admin,
		ProductID: productID,
		SiteID:    siteID,
		Type:      entity.MovementTypeIngreso,
		Quantity:  qty,
	})
	require.NoError(t, err)
	return res
}

// requireConsistent verifica que el contador coincida con el kardex para cada par.
func (f *fixture) requireConsistent(t *testing.T) {
	t.Helper()
	for _, p := range []string{product1, product2} {
		for _, s := range []string{siteA, siteB} {
			check, err := f.queries.VerifyStock(context.Background(), p, s)
			require.NoError(t, err)
			require.True(t, check.Consistent, "%s@%s contador=%d kardex=%d", p, s, check.Counter, check.Replayed)
		}
	}
}
