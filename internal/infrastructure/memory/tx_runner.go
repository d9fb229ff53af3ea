package memory

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks como unidad de trabajo sobre el Store.
type TxRunner struct {
	store *Store
}

// NewTxRunner construye el runner con el almacén.
func NewTxRunner(store *Store) *TxRunner {
	return &TxRunner{store: store}
}

// Run toma el candado de escritura, ejecuta fn sobre una copia del estado y la publica solo si
// fn no devolvió error (Commit); en caso contrario la copia se descarta (Rollback).
func (r *TxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	txRepo repository.InventoryTransactionRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return r.store.write(func(st *state) error {
		acc := txAccess{st: st}
		return fn(&ProductRepo{acc: acc}, &InventoryTransactionRepo{acc: acc}, &WarehouseRepo{acc: acc})
	})
}
