package entity

import (
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxQuantity tope de Product.Quantity (columna INTEGER).
const MaxQuantity = math.MaxInt32

// Product representa un producto del inventario.
// Quantity es el stock actual autoritativo; solo cambia vía StockIn/StockOut o UpdateProduct.
// Nunca se borra físicamente: DeleteProduct lo marca como inactivo.
type Product struct {
	ID          int64
	Name        string
	Barcode     string          // único entre activos e inactivos, inmutable
	Price       decimal.Decimal // decimal(18,2), no negativo
	Quantity    int
	Description string
	Category    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate verifica los invariantes del producto antes de persistirlo.
func (p *Product) Validate() bool {
	if p == nil {
		return false
	}
	if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Barcode) == "" {
		return false
	}
	if p.Price.IsNegative() || p.Quantity < 0 || p.Quantity > MaxQuantity {
		return false
	}
	return true
}

// Estados del reporte de bajo stock.
const (
	StockStatusOut = "out of stock"
	StockStatusLow = "low stock"
)

// LowStockItem fila tipada del reporte de bajo stock.
type LowStockItem struct {
	ID       int64
	Name     string
	Barcode  string
	Quantity int
	Price    decimal.Decimal
	Status   string
}

// NewLowStockItem proyecta un producto a la fila del reporte con su estado derivado.
func NewLowStockItem(p *Product) LowStockItem {
	status := StockStatusLow
	if p.Quantity == 0 {
		status = StockStatusOut
	}
	return LowStockItem{
		ID:       p.ID,
		Name:     p.Name,
		Barcode:  p.Barcode,
		Quantity: p.Quantity,
		Price:    p.Price,
		Status:   status,
	}
}
