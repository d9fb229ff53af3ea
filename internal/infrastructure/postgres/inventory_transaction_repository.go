package postgres

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.InventoryTransactionRepository = (*InventoryTransactionRepo)(nil)

// InventoryTransactionRepo libro de movimientos sobre PostgreSQL (solo INSERT y SELECT).
type InventoryTransactionRepo struct {
	q Querier
}

// NewInventoryTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryTransactionRepository(q Querier) *InventoryTransactionRepo {
	return &InventoryTransactionRepo{q: q}
}

// Create inserta el movimiento. created_by vacío -> usuario de la conexión (current_user).
func (r *InventoryTransactionRepo) Create(ctx context.Context, tx *entity.InventoryTransaction) error {
	query := `
		INSERT INTO inventory_transactions
			(product_id, warehouse_id, transaction_type, quantity, reference_number, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), COALESCE(NULLIF($7, ''), current_user), $8)
		RETURNING id, created_by`
	err := r.q.QueryRow(ctx, query,
		tx.ProductID, tx.WarehouseID, tx.Type, tx.Quantity, tx.ReferenceNumber,
		tx.Notes, tx.CreatedBy, tx.CreatedAt,
	).Scan(&tx.ID, &tx.CreatedBy)
	if err != nil {
		return wrapErr("insert inventory transaction", err)
	}
	return nil
}

const transactionViewSelect = `
	SELECT t.id, t.product_id, t.warehouse_id, t.transaction_type, t.quantity,
	       COALESCE(t.reference_number, ''), COALESCE(t.notes, ''), t.created_by, t.created_at,
	       p.name, p.barcode, w.name, w.code
	FROM inventory_transactions t
	JOIN products p ON p.id = t.product_id
	JOIN warehouses w ON w.id = t.warehouse_id`

// ListRecent últimos limit movimientos, más reciente primero.
func (r *InventoryTransactionRepo) ListRecent(ctx context.Context, limit int) ([]entity.TransactionView, error) {
	return r.list(ctx, "list recent transactions",
		transactionViewSelect+` ORDER BY t.created_at DESC, t.id DESC LIMIT $1`, limit)
}

// ListByProduct últimos limit movimientos de un producto.
func (r *InventoryTransactionRepo) ListByProduct(ctx context.Context, productID int64, limit int) ([]entity.TransactionView, error) {
	return r.list(ctx, "list product transactions",
		transactionViewSelect+` WHERE t.product_id = $1 ORDER BY t.created_at DESC, t.id DESC LIMIT $2`, productID, limit)
}

func (r *InventoryTransactionRepo) list(ctx context.Context, op, query string, args ...any) ([]entity.TransactionView, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, wrapErr(op, err)
	}
	defer rows.Close()
	var list []entity.TransactionView
	for rows.Next() {
		var v entity.TransactionView
		err := rows.Scan(&v.ID, &v.ProductID, &v.WarehouseID, &v.Type, &v.Quantity,
			&v.ReferenceNumber, &v.Notes, &v.CreatedBy, &v.CreatedAt,
			&v.Product.Name, &v.Product.Barcode, &v.Warehouse.Name, &v.Warehouse.Code)
		if err != nil {
			return nil, wrapErr("scan inventory transaction", err)
		}
		v.Product.ID = v.ProductID
		v.Warehouse.ID = v.WarehouseID
		list = append(list, v)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(op, err)
	}
	return list, nil
}

// StockByWarehouse agrega el libro del producto por bodega.
func (r *InventoryTransactionRepo) StockByWarehouse(ctx context.Context, productID int64) ([]entity.WarehouseStock, error) {
	query := `
		SELECT w.id, w.code, w.name,
		       COALESCE(SUM(t.quantity) FILTER (WHERE t.transaction_type = 'IN'), 0),
		       COALESCE(SUM(t.quantity) FILTER (WHERE t.transaction_type = 'OUT'), 0)
		FROM inventory_transactions t
		JOIN warehouses w ON w.id = t.warehouse_id
		WHERE t.product_id = $1
		GROUP BY w.id, w.code, w.name
		ORDER BY w.code`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, wrapErr("stock by warehouse", err)
	}
	defer rows.Close()
	var list []entity.WarehouseStock
	for rows.Next() {
		ws := entity.WarehouseStock{ProductID: productID}
		if err := rows.Scan(&ws.WarehouseID, &ws.WarehouseCode, &ws.WarehouseName, &ws.In, &ws.Out); err != nil {
			return nil, wrapErr("scan stock by warehouse", err)
		}
		list = append(list, ws)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr("stock by warehouse", err)
	}
	return list, nil
}
