package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo libro de movimientos en memoria (solo append).
type InventoryTransactionRepo struct {
	acc accessor
}

// NewInventoryTransactionRepository construye el repositorio sobre el almacén.
func NewInventoryTransactionRepository(store *Store) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{acc: store}
}

// Create agrega el movimiento al libro. Producto y bodega deben existir (FK).
func (r *InventoryTransactionRepo) Create(_ context.Context, tx *entity.InventoryTransaction) error {
	if !tx.Validate() {
		return fmt.Errorf("create inventory transaction: %w", errCheckViolation)
	}
	return r.acc.write(func(st *state) error {
		if _, ok := st.products[tx.ProductID]; !ok {
			return fmt.Errorf("create inventory transaction: producto %d inexistente", tx.ProductID)
		}
		if _, ok := st.warehouses[tx.WarehouseID]; !ok {
			return fmt.Errorf("create inventory transaction: bodega %d inexistente", tx.WarehouseID)
		}
		st.nextTxID++
		tx.ID = st.nextTxID
		st.transactions = append(st.transactions, *tx)
		return nil
	})
}

// ListRecent últimos limit movimientos, más reciente primero.
func (r *InventoryTransactionRepo) ListRecent(_ context.Context, limit int) ([]entity.TransactionView, error) {
	return r.list(func(*entity.InventoryTransaction) bool { return true }, limit)
}

// ListByProduct últimos limit movimientos de un producto.
func (r *InventoryTransactionRepo) ListByProduct(_ context.Context, productID int64, limit int) ([]entity.TransactionView, error) {
	return r.list(func(t *entity.InventoryTransaction) bool { return t.ProductID == productID }, limit)
}

func (r *InventoryTransactionRepo) list(match func(*entity.InventoryTransaction) bool, limit int) ([]entity.TransactionView, error) {
	var views []entity.TransactionView
	err := r.acc.read(func(st *state) error {
		for _, t := range st.transactions {
			if !match(&t) {
				continue
			}
			p := st.products[t.ProductID]
			w := st.warehouses[t.WarehouseID]
			views = append(views, entity.TransactionView{
				InventoryTransaction: t,
				Product:              entity.ProductRef{ID: p.ID, Name: p.Name, Barcode: p.Barcode},
				Warehouse:            entity.WarehouseRef{ID: w.ID, Name: w.Name, Code: w.Code},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(views, func(i, j int) bool {
		a, b := views[i], views[j]
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID > b.ID
	})
	return page(views, limit, 0), nil
}

// StockByWarehouse agrega el libro del producto por bodega.
func (r *InventoryTransactionRepo) StockByWarehouse(_ context.Context, productID int64) ([]entity.WarehouseStock, error) {
	byWarehouse := make(map[int64]*entity.WarehouseStock)
	err := r.acc.read(func(st *state) error {
		for _, t := range st.transactions {
			if t.ProductID != productID {
				continue
			}
			ws, ok := byWarehouse[t.WarehouseID]
			if !ok {
				w := st.warehouses[t.WarehouseID]
				ws = &entity.WarehouseStock{ProductID: productID, WarehouseID: w.ID, WarehouseCode: w.Code, WarehouseName: w.Name}
				byWarehouse[t.WarehouseID] = ws
			}
			if t.Type == entity.TransactionTypeIN {
				ws.In += t.Quantity
			} else {
				ws.Out += t.Quantity
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	list := make([]entity.WarehouseStock, 0, len(byWarehouse))
	for _, ws := range byWarehouse {
		list = append(list, *ws)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].WarehouseCode < list[j].WarehouseCode })
	return list, nil
}
