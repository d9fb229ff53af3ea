package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	svc *inventory.Service
	log *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(svc *inventory.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{svc: svc, log: log}
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.AddProduct(c.UserContext(), &entity.Product{
		Name:        in.Name,
		Barcode:     in.Barcode,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		Category:    in.Category,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToProductResponse(out))
}

// List godoc
// @Summary      Listar o buscar productos activos
// @Tags         products
// @Produce      json
// @Param        q    query  string  false  "Texto a buscar en nombre, código de barras o categoría"
// @Success      200  {object}  dto.ProductListResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.svc.SearchProducts(c.UserContext(), c.Query("q"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductListResponse(list))
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	p, err := h.svc.GetProductByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// GetByBarcode godoc
// @Summary      Obtener producto por código de barras
// @Tags         products
// @Produce      json
// @Param        barcode  path  string  true  "Código de barras"
// @Success      200  {object}  dto.ProductResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/barcode/{barcode} [get]
func (h *ProductHandler) GetByBarcode(c *fiber.Ctx) error {
	p, err := h.svc.GetProductByBarcode(c.UserContext(), c.Params("barcode"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// Update godoc
// @Summary      Actualizar producto
// @Description  Aplica nombre, precio, cantidad, descripción y categoría. El código de barras no cambia.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.ProductResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	var in dto.UpdateProductRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	ctx := c.UserContext()
	updated, err := h.svc.UpdateProduct(ctx, &entity.Product{
		ID:          id,
		Name:        in.Name,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		Category:    in.Category,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	if !updated {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	p, err := h.svc.GetProductByID(ctx, id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToProductResponse(p))
}

// Delete godoc
// @Summary      Desactivar producto (borrado lógico)
// @Tags         products
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	deleted, err := h.svc.DeleteProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	if !deleted {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Transactions godoc
// @Summary      Historial de movimientos de un producto
// @Tags         products
// @Produce      json
// @Param        id     path   int  true   "ID del producto"
// @Param        limit  query  int  false  "Cantidad máxima (default 20)"
// @Success      200  {object}  dto.TransactionListResponse
// @Router       /api/products/{id}/transactions [get]
func (h *ProductHandler) Transactions(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	list, err := h.svc.GetProductTransactions(c.UserContext(), id, queryInt(c, "limit", 0))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToTransactionListResponse(list))
}

// StockByWarehouse godoc
// @Summary      Stock del producto por bodega (neto de movimientos)
// @Tags         products
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {array}  dto.WarehouseStockResponse
// @Router       /api/products/{id}/stock [get]
func (h *ProductHandler) StockByWarehouse(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badID(c)
	}
	list, err := h.svc.GetStockByWarehouse(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.ToWarehouseStockResponse(list))
}
