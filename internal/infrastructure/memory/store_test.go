package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

func newProduct(name, barcode string, qty int) *entity.Product {
	now := time.Now()
	return &entity.Product{Name: name, Barcode: barcode, Price: decimal.NewFromInt(1), Quantity: qty, IsActive: true, CreatedAt: now, UpdatedAt: now}
}

func TestProductRepo_CreateAndCopies(t *testing.T) {
	store := NewStore()
	repo := NewProductRepository(store)
	ctx := context.Background()

	p := newProduct("Martillo", "7701", 3)
	require.NoError(t, repo.Create(ctx, p))
	assert.Equal(t, int64(1), p.ID)

	got, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	got.Quantity = 99
	again, err := repo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, again.Quantity, "las lecturas devuelven copias")

	assert.ErrorIs(t, repo.Create(ctx, newProduct("Otro", "7701", 0)), domain.ErrDuplicateBarcode)
	assert.ErrorIs(t, repo.Create(ctx, newProduct("Neg", "x", -1)), errCheckViolation)

	missing, err := repo.GetByID(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestProductRepo_SearchCaseFolding(t *testing.T) {
	store := NewStore()
	repo := NewProductRepository(store)
	ctx := context.Background()
	p := newProduct("Pequeño ÁRBOL", "A-1", 0)
	p.Category = "Jardín"
	require.NoError(t, repo.Create(ctx, p))

	for _, kw := range []string{"árbol", "ÁRBOL", "jardín", "a-1", "pequeño"} {
		list, err := repo.Search(ctx, kw)
		require.NoError(t, err)
		assert.Len(t, list, 1, kw)
	}
}

func TestTxRunner_RollbackOnError(t *testing.T) {
	store := NewStore()
	runner := NewTxRunner(store)
	ctx := context.Background()
	boom := errors.New("boom")

	err := runner.Run(ctx, func(products repository.ProductRepository, _ repository.InventoryTransactionRepository, warehouses repository.WarehouseRepository) error {
		require.NoError(t, products.Create(ctx, newProduct("A", "1", 0)))
		require.NoError(t, warehouses.Create(ctx, &entity.Warehouse{Name: "W", Code: "W"}))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	list, err := NewProductRepository(store).ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	whs, err := NewWarehouseRepository(store).List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, whs)

	// Los IDs de la tx descartada no se consumen.
	p := newProduct("B", "2", 0)
	require.NoError(t, NewProductRepository(store).Create(ctx, p))
	assert.Equal(t, int64(1), p.ID)
}

func TestTxRunner_CommitIsVisible(t *testing.T) {
	store := NewStore()
	runner := NewTxRunner(store)
	ctx := context.Background()

	err := runner.Run(ctx, func(products repository.ProductRepository, txs repository.InventoryTransactionRepository, warehouses repository.WarehouseRepository) error {
		p := newProduct("A", "1", 0)
		if err := products.Create(ctx, p); err != nil {
			return err
		}
		w := &entity.Warehouse{Name: "W", Code: "W"}
		if err := warehouses.Create(ctx, w); err != nil {
			return err
		}
		return txs.Create(ctx, &entity.InventoryTransaction{
			ProductID: p.ID, WarehouseID: w.ID, Type: entity.TransactionTypeIN, Quantity: 1, CreatedAt: time.Now(),
		})
	})
	require.NoError(t, err)

	recent, err := NewInventoryTransactionRepository(store).ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "A", recent[0].Product.Name)
	assert.Equal(t, "W", recent[0].Warehouse.Code)
}

func TestInventoryTransactionRepo_Constraints(t *testing.T) {
	store := NewStore()
	repo := NewInventoryTransactionRepository(store)
	ctx := context.Background()

	err := repo.Create(ctx, &entity.InventoryTransaction{ProductID: 1, WarehouseID: 1, Type: "MOVE", Quantity: 1})
	assert.ErrorIs(t, err, errCheckViolation)

	err = repo.Create(ctx, &entity.InventoryTransaction{ProductID: 1, WarehouseID: 1, Type: entity.TransactionTypeIN, Quantity: 1})
	assert.Error(t, err, "producto inexistente")
}

func TestWarehouseRepo_DuplicateAndPaging(t *testing.T) {
	store := NewStore()
	repo := NewWarehouseRepository(store)
	ctx := context.Background()

	for _, code := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, &entity.Warehouse{Name: code, Code: code}))
	}
	assert.ErrorIs(t, repo.Create(ctx, &entity.Warehouse{Name: "dup", Code: "B"}), domain.ErrDuplicate)

	w, err := repo.GetByCode(ctx, "C")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, entity.DefaultWarehouseCapacity, w.Capacity)

	list, err := repo.List(ctx, 2, 1)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "B", list[0].Code)
	assert.Equal(t, "C", list[1].Code)

	list, err = repo.List(ctx, 2, 5)
	require.NoError(t, err)
	assert.Empty(t, list)
}
