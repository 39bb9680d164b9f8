package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Las pruebas contra PostgreSQL real solo corren con STOCK_LEDGER_TEST_DATABASE_URL definido.
const testDatabaseEnv = "STOCK_LEDGER_TEST_DATABASE_URL"

type pgFixture struct {
	movements *inventory.MovementUseCase
	transfers *inventory.TransferUseCase
	queries   *inventory.LedgerQueryUseCase
	origin    string
	dest      string
	product   string
}

func newPGFixture(t *testing.T) *pgFixture {
	t.Helper()
	url := os.Getenv(testDatabaseEnv)
	if url == "" {
		t.Skipf("%s no definido", testDatabaseEnv)
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 30, MinConns: 1, AppName: "stock-ledger-test"})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.Migrate(ctx, pool))

	// Ids únicos por prueba para no chocar con datos previos.
	suffix := uuid.NewString()[:8]
	f := &pgFixture{origin: "bog-" + suffix, dest: "med-" + suffix, product: "p-" + suffix}
	seedDirectory(t, pool, f)

	log := logger.Nop()
	txRunner := postgres.NewTxRunner(pool, 5*time.Second)
	siteRepo := postgres.NewSiteRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	policy := domaininv.Policy{}
	f.movements = inventory.NewMovementUseCase(txRunner, productRepo, siteRepo, policy, log)
	f.transfers = inventory.NewTransferUseCase(txRunner, productRepo, siteRepo, policy, log)
	f.queries = inventory.NewLedgerQueryUseCase(
		postgres.NewMovementRepository(pool),
		postgres.NewStockRepository(pool),
		postgres.NewTransferRepository(pool),
		productRepo,
		siteRepo,
	)
	return f
}

func seedDirectory(t *testing.T, pool *pgxpool.Pool, f *pgFixture) {
	t.Helper()
	ctx := context.Background()
	now := time.Now()
	sites := postgres.NewSiteRepository(pool)
	for _, id := range []string{f.origin, f.dest} {
		require.NoError(t, sites.Upsert(ctx, &entity.Site{ID: id, Name: "Sede " + id, Active: true, CreatedAt: now, UpdatedAt: now}))
	}
	require.NoError(t, postgres.NewProductRepository(pool).Upsert(ctx, &entity.Product{
		ID: f.product, SKU: "SKU-" + f.product, Name: "Filtro", Price: decimal.NewFromInt(32000), CreatedAt: now, UpdatedAt: now,
	}))
}

func (f *pgFixture) clerk(siteID string) entity.Actor {
	return entity.Actor{UserID: "clerk-" + siteID, SiteID: siteID, Role: entity.RoleBodeguero}
}

// retry reintenta mientras el bloqueo se agote por contención.
func retry(fn func() error) error {
	for i := 0; ; i++ {
		err := fn()
		if !errors.Is(err, domain.ErrConcurrencyConflict) || i == 5 {
			return err
		}
	}
}

func (f *pgFixture) requireConsistent(t *testing.T, siteID string) {
	t.Helper()
	check, err := f.queries.VerifyStock(context.Background(), f.product, siteID)
	require.NoError(t, err)
	require.True(t, check.Consistent, "contador=%d kardex=%d", check.Counter, check.Replayed)
}

func TestPostgres_ConcurrentOutboundNeverOversells(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	_, err := f.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
		Actor: f.clerk(f.origin), ProductID: f.product, SiteID: f.origin, Type: entity.MovementTypeIngreso, Quantity: 10,
	})
	require.NoError(t, err)

	var ok, rejected atomic.Int64
	var g errgroup.Group
	for i := 0; i < 25; i++ {
		g.Go(func() error {
			err := retry(func() error {
				_, err := f.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
					Actor: f.clerk(f.origin), ProductID: f.product, SiteID: f.origin, Type: entity.MovementTypeSalida, Quantity: 1,
				})
				return err
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(10), ok.Load())
	assert.Equal(t, int64(15), rejected.Load())
	qty, err := f.queries.GetStock(ctx, f.product, f.origin)
	require.NoError(t, err)
	assert.Equal(t, int64(0), qty)
	f.requireConsistent(t, f.origin)
}

func TestPostgres_ConcurrentConfirmAndCancelOneWins(t *testing.T) {
	f := newPGFixture(t)
	ctx := context.Background()
	_, err := f.movements.ApplyMovement(ctx, inventory.ApplyMovementInput{
		Actor: f.clerk(f.origin), ProductID: f.product, SiteID: f.origin, Type: entity.MovementTypeIngreso, Quantity: 5,
	})
	require.NoError(t, err)
	tr, err := f.transfers.CreateTransfer(ctx, inventory.CreateTransferInput{
		Actor:             f.clerk(f.origin),
		OriginSiteID:      f.origin,
		DestinationSiteID: f.dest,
		Reason:            "reposición",
		Lines:             []inventory.TransferLineInput{{ProductID: f.product, Quantity: 5}},
	})
	require.NoError(t, err)

	var wins, losses atomic.Int64
	record := func(err error) error {
		switch {
		case err == nil:
			wins.Add(1)
		case errors.Is(err, domain.ErrInvalidTransition):
			losses.Add(1)
		default:
			return err
		}
		return nil
	}
	var g errgroup.Group
	g.Go(func() error {
		return record(retry(func() error {
			_, err := f.transfers.ConfirmReceipt(ctx, inventory.ConfirmReceiptInput{Actor: f.clerk(f.dest), TransferID: tr.TransferID})
			return err
		}))
	})
	g.Go(func() error {
		return record(retry(func() error {
			_, err := f.transfers.Cancel(ctx, inventory.TransferActionInput{Actor: f.clerk(f.origin), TransferID: tr.TransferID, Reason: "carrera"})
			return err
		}))
	})
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(1), wins.Load())
	assert.Equal(t, int64(1), losses.Load())

	origin, err := f.queries.GetStock(ctx, f.product, f.origin)
	require.NoError(t, err)
	dest, err := f.queries.GetStock(ctx, f.product, f.dest)
	require.NoError(t, err)
	assert.Equal(t, int64(5), origin+dest)
	f.requireConsistent(t, f.origin)
	f.requireConsistent(t, f.dest)
}
