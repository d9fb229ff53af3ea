package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// InventoryTransactionRepository puerto del libro de movimientos. Solo inserción y lectura:
// los movimientos son inmutables.
type InventoryTransactionRepository interface {
	Create(ctx context.Context, tx *entity.InventoryTransaction) error
	// ListRecent devuelve los últimos limit movimientos (más reciente primero) con producto y bodega.
	ListRecent(ctx context.Context, limit int) ([]entity.TransactionView, error)
	ListByProduct(ctx context.Context, productID int64, limit int) ([]entity.TransactionView, error)
	// StockByWarehouse agrega entradas y salidas del producto por bodega, ordenado por código de bodega.
	StockByWarehouse(ctx context.Context, productID int64) ([]entity.WarehouseStock, error)
}
