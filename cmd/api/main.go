package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/catalog"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/stock-ledger/internal/interfaces/http"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// storage agrupa los puertos que consumen los casos de uso.
type storage struct {
	txRunner     inventory.TxRunner
	movRepo      repository.MovementRepository
	stockRepo    repository.StockRepository
	transferRepo repository.TransferRepository
	productRepo  repository.ProductRepository
	siteRepo     repository.SiteRepository
	close        func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.Storage.Driver).
		Bool("allow_negative_override", cfg.Ledger.AllowNegativeOverride).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar almacenamiento")
	}
	defer store.close()

	policy := domaininv.Policy{AllowNegativeOverride: cfg.Ledger.AllowNegativeOverride}
	movementUC := inventory.NewMovementUseCase(store.txRunner, store.productRepo, store.siteRepo, policy, log)
	transferUC := inventory.NewTransferUseCase(store.txRunner, store.productRepo, store.siteRepo, policy, log)
	queryUC := inventory.NewLedgerQueryUseCase(store.movRepo, store.stockRepo, store.transferRepo, store.productRepo, store.siteRepo)
	siteUC := usecase.NewSiteUseCase(store.siteRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log.Component("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Stock Ledger API",
		}))
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		MovementUC: movementUC,
		TransferUC: transferUC,
		QueryUC:    queryUC,
		SiteUC:     siteUC,
		JWTSecret:  cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	var seed *catalog.Catalog
	if cfg.Storage.SeedFile != "" {
		c, err := catalog.Load(cfg.Storage.SeedFile)
		if err != nil {
			return nil, err
		}
		seed = c
	}

	if cfg.Storage.Driver == config.StorageDriverMemory {
		mem := memory.NewStore()
		if seed != nil {
			now := time.Now().UTC()
			for _, s := range seed.SiteEntities(now) {
				mem.AddSite(s)
			}
			for _, p := range seed.ProductEntities(now) {
				mem.AddProduct(p)
			}
			log.Info().Int("sites", len(seed.Sites)).Int("products", len(seed.Products)).Msg("catálogo sembrado en memoria")
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		return &storage{
			txRunner:     mem,
			movRepo:      mem.Movements(),
			stockRepo:    mem.Stock(),
			transferRepo: mem.Transfers(),
			productRepo:  mem.Products(),
			siteRepo:     mem.Sites(),
			close:        func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
	}
	siteRepo := postgres.NewSiteRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	if seed != nil {
		if err := postgres.SeedCatalog(ctx, pool, seed); err != nil {
			pool.Close()
			return nil, err
		}
		log.Info().Int("sites", len(seed.Sites)).Int("products", len(seed.Products)).Msg("catálogo sembrado en PostgreSQL")
	}
	return &storage{
		txRunner:     postgres.NewTxRunner(pool, cfg.DB.LockTimeout()),
		movRepo:      postgres.NewMovementRepository(pool),
		stockRepo:    postgres.NewStockRepository(pool),
		transferRepo: postgres.NewTransferRepository(pool),
		productRepo:  productRepo,
		siteRepo:     siteRepo,
		close:        pool.Close,
	}, nil
}
