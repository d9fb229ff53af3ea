package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// StockMovementRequest body para POST /api/inventory/stock-in y /api/inventory/stock-out.
type StockMovementRequest struct {
	ProductID       int64  `json:"product_id"`
	WarehouseID     int64  `json:"warehouse_id"`
	Quantity        int    `json:"quantity"`
	ReferenceNumber string `json:"reference_number"`
	Notes           string `json:"notes"`
	CreatedBy       string `json:"created_by"`
}

// StockMovementResponse resultado de un movimiento aceptado.
type StockMovementResponse struct {
	Success     bool                 `json:"success"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// TransactionResponse movimiento del libro con su producto y bodega.
type TransactionResponse struct {
	ID              int64     `json:"id"`
	ProductID       int64     `json:"product_id"`
	ProductName     string    `json:"product_name,omitempty"`
	ProductBarcode  string    `json:"product_barcode,omitempty"`
	WarehouseID     int64     `json:"warehouse_id"`
	WarehouseName   string    `json:"warehouse_name,omitempty"`
	WarehouseCode   string    `json:"warehouse_code,omitempty"`
	Type            string    `json:"transaction_type"`
	Quantity        int       `json:"quantity"`
	ReferenceNumber string    `json:"reference_number,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
}

// TransactionListResponse lista de movimientos, más reciente primero.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Total int                   `json:"total"`
}

// LowStockItemResponse fila del reporte de bajo stock.
type LowStockItemResponse struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Barcode  string          `json:"barcode"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Status   string          `json:"status"`
}

// LowStockResponse reporte de bajo stock.
type LowStockResponse struct {
	Threshold int                    `json:"threshold"`
	Items     []LowStockItemResponse `json:"items"`
	Total     int                    `json:"total"`
}

// ToTransactionResponse proyecta un movimiento sin resolver.
func ToTransactionResponse(t *entity.InventoryTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		ProductID:       t.ProductID,
		WarehouseID:     t.WarehouseID,
		Type:            t.Type,
		Quantity:        t.Quantity,
		ReferenceNumber: t.ReferenceNumber,
		Notes:           t.Notes,
		CreatedBy:       t.CreatedBy,
		CreatedAt:       t.CreatedAt,
	}
}

// ToTransactionListResponse proyecta movimientos resueltos con producto y bodega.
func ToTransactionListResponse(list []entity.TransactionView) TransactionListResponse {
	items := make([]TransactionResponse, 0, len(list))
	for i := range list {
		v := &list[i]
		r := ToTransactionResponse(&v.InventoryTransaction)
		r.ProductName = v.Product.Name
		r.ProductBarcode = v.Product.Barcode
		r.WarehouseName = v.Warehouse.Name
		r.WarehouseCode = v.Warehouse.Code
		items = append(items, r)
	}
	return TransactionListResponse{Items: items, Total: len(items)}
}

// ToLowStockResponse proyecta el reporte de bajo stock.
func ToLowStockResponse(threshold int, list []entity.LowStockItem) LowStockResponse {
	items := make([]LowStockItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, LowStockItemResponse{
			ID:       it.ID,
			Name:     it.Name,
			Barcode:  it.Barcode,
			Quantity: it.Quantity,
			Price:    it.Price,
			Status:   it.Status,
		})
	}
	return LowStockResponse{Threshold: threshold, Items: items, Total: len(items)}
}

// WarehouseStockResponse movimiento neto del producto en una bodega.
type WarehouseStockResponse struct {
	WarehouseID   int64  `json:"warehouse_id"`
	WarehouseCode string `json:"warehouse_code"`
	WarehouseName string `json:"warehouse_name"`
	In            int    `json:"in"`
	Out           int    `json:"out"`
	Net           int    `json:"net"`
}

// ToWarehouseStockResponse proyecta el stock por bodega.
func ToWarehouseStockResponse(list []entity.WarehouseStock) []WarehouseStockResponse {
	items := make([]WarehouseStockResponse, 0, len(list))
	for _, ws := range list {
		items = append(items, WarehouseStockResponse{
			WarehouseID:   ws.WarehouseID,
			WarehouseCode: ws.WarehouseCode,
			WarehouseName: ws.WarehouseName,
			In:            ws.In,
			Out:           ws.Out,
			Net:           ws.Net(),
		})
	}
	return items
}
