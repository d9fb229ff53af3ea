package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Inventory   *inventory.Service
	Reports     *inventory.ReportUseCase
	WarehouseUC *usecase.WarehouseUseCase
	Log         *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Inventory, log)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/barcode/:barcode", productHandler.GetByBarcode)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/transactions", productHandler.Transactions)
	products.Get("/:id/stock", productHandler.StockByWarehouse)

	// Inventory movements y reportes
	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.Inventory, deps.Reports, log)
	invGroup.Post("/stock-in", inventoryHandler.StockIn)
	invGroup.Post("/stock-out", inventoryHandler.StockOut)
	invGroup.Get("/low-stock", inventoryHandler.LowStock)
	invGroup.Get("/low-stock.pdf", inventoryHandler.LowStockPDF)
	invGroup.Get("/transactions", inventoryHandler.RecentTransactions)

	// Warehouses
	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, log)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
}
