package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/usecase"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MovementUC *inventory.MovementUseCase
	TransferUC *inventory.TransferUseCase
	QueryUC    *inventory.LedgerQueryUseCase
	SiteUC     *usecase.SiteUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventario: movimientos y saldos
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.MovementUC, deps.QueryUC)
	invGroup.Post("/movements", inventoryHandler.ApplyMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Post("/movements/:id/void", inventoryHandler.VoidMovement)
	invGroup.Get("/stock", inventoryHandler.GetStock)
	invGroup.Get("/stock/verify", RequireRole(entity.RoleAdmin), inventoryHandler.VerifyStock)

	// Traspasos entre sedes
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.TransferUC, deps.QueryUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/dispatch", transferHandler.Dispatch)
	transfers.Post("/:id/confirm", transferHandler.Confirm)
	transfers.Post("/:id/cancel", transferHandler.Cancel)
	transfers.Post("/:id/reject", transferHandler.Reject)

	// Sedes (solo lectura)
	sites := protected.Group("/sites")
	siteHandler := NewSiteHandler(deps.SiteUC)
	sites.Get("/", siteHandler.List)
	sites.Get("/:id", siteHandler.GetByID)
}
