package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el motor de inventario: si fn devuelve error no queda nada escrito.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		txRepo repository.InventoryTransactionRepository,
		warehouseRepo repository.WarehouseRepository,
	) error) error
}

// LowStockReport datos del reporte de bajo stock listos para renderizar.
type LowStockReport struct {
	GeneratedAt time.Time
	Threshold   int
	Items       []entity.LowStockItem
}

// ReportPDFGenerator puerto para la representación en PDF del reporte de bajo stock.
type ReportPDFGenerator interface {
	GenerateLowStockPDF(ctx context.Context, report LowStockReport) ([]byte, error)
}
