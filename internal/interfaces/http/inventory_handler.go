package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// InventoryHandler maneja entradas, salidas y reportes de inventario.
type InventoryHandler struct {
	svc     *inventory.Service
	reports *inventory.ReportUseCase
	log     *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *inventory.Service, reports *inventory.ReportUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, reports: reports, log: log}
}

// StockIn godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                    false  "Usuario que registra el movimiento"
// @Param        body     body    dto.StockMovementRequest  true   "product_id, warehouse_id, quantity"
// @Success      201  {object}  dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-in [post]
func (h *InventoryHandler) StockIn(c *fiber.Ctx) error {
	return h.movement(c, entity.TransactionTypeIN)
}

// StockOut godoc
// @Summary      Registrar salida de stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Actor  header  string                    false  "Usuario que registra el movimiento"
// @Param        body     body    dto.StockMovementRequest  true   "product_id, warehouse_id, quantity"
// @Success      201  {object}  dto.StockMovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/stock-out [post]
func (h *InventoryHandler) StockOut(c *fiber.Ctx) error {
	return h.movement(c, entity.TransactionTypeOUT)
}

func (h *InventoryHandler) movement(c *fiber.Ctx, txType string) error {
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	opts := inventory.MovementOptions{
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		CreatedBy:       in.CreatedBy,
	}
	if opts.CreatedBy == "" {
		opts.CreatedBy = GetActor(c)
	}

	var (
		rec *entity.InventoryTransaction
		err error
	)
	ctx := c.UserContext()
	if txType == entity.TransactionTypeOUT {
		rec, err = h.svc.TryStockOut(ctx, in.ProductID, in.WarehouseID, in.Quantity, opts)
	} else {
		rec, err = h.svc.RegisterMovement(ctx, inventory.MovementInput{
			ProductID: in.ProductID, WarehouseID: in.WarehouseID,
			Type: entity.TransactionTypeIN, Quantity: in.Quantity, MovementOptions: opts,
		})
	}
	if err != nil {
		return writeError(c, h.log, err)
	}
	tr := dto.ToTransactionResponse(rec)
	return c.Status(fiber.StatusCreated).JSON(dto.StockMovementResponse{Success: true, Transaction: &tr})
}

// LowStock godoc
// @Summary      Productos con bajo stock
// @Tags         inventory
// @Produce      json
// @Param        threshold  query  int  false  "Umbral (cantidad < threshold). Default 10"
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	threshold := queryInt(c, "threshold", h.svc.LowStockThreshold())
	items, err := h.svc.GetLowStockProducts(c.UserContext(), threshold)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToLowStockResponse(threshold, items))
}

// LowStockPDF godoc
// @Summary      Reporte de bajo stock en PDF
// @Tags         inventory
// @Produce      application/pdf
// @Param        threshold  query  int  false  "Umbral (cantidad < threshold). Default 10"
// @Success      200  {file}  binary
// @Router       /api/inventory/low-stock.pdf [get]
func (h *InventoryHandler) LowStockPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.reports.LowStockPDF(c.UserContext(), queryInt(c, "threshold", h.svc.LowStockThreshold()))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(pdfBytes)
}

// RecentTransactions godoc
// @Summary      Movimientos recientes
// @Tags         inventory
// @Produce      json
// @Param        limit  query  int  false  "Cantidad máxima (default 20)"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/inventory/transactions [get]
func (h *InventoryHandler) RecentTransactions(c *fiber.Ctx) error {
	list, err := h.svc.GetRecentTransactions(c.UserContext(), queryInt(c, "limit", 0))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToTransactionListResponse(list))
}
