package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Kardex-api/internal/application/catalog"
	"github.com/jhoicas/Kardex-api/internal/application/ledger"
	"github.com/jhoicas/Kardex-api/internal/application/receipt"
	"github.com/jhoicas/Kardex-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC *catalog.UseCase
	SalesUC   *sales.UseCase
	ReceiptUC *receipt.UseCase
	Engine    *ledger.Engine
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido; escribir requiere admin o bodeguero)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Post("/", RequireRole("admin", "bodeguero"), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole("admin", "bodeguero"), productHandler.Update)
	products.Delete("/:id", RequireRole("admin"), productHandler.Delete)

	// Stock (protegido, solo lectura)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Engine)
	stock.Get("/:product_id", stockHandler.Query)
	stock.Get("/:product_id/availability", stockHandler.Availability)

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	registerDocumentRoutes(salesGroup, NewDocumentHandler(deps.SalesUC.Lifecycle))

	// Purchase receipts (protegido)
	receipts := protected.Group("/receipts")
	registerDocumentRoutes(receipts, NewDocumentHandler(deps.ReceiptUC.Lifecycle))
}

// registerDocumentRoutes monta la superficie común del ciclo de vida de un
// documento sobre el grupo dado.
func registerDocumentRoutes(g fiber.Router, h *DocumentHandler) {
	g.Post("/", h.Create)
	g.Get("/", h.List)
	g.Get("/:id", h.GetByID)
	g.Put("/:id", h.Update)
	g.Post("/:id/confirm", h.Confirm)
	g.Post("/:id/cancel", h.Cancel)
	g.Delete("/:id", h.Delete)
}
