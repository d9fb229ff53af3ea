package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/pkg/config"
)

// setupPool conecta a TEST_DATABASE_URL y aplica las migraciones; sin variable el test se omite.
func setupPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL no definido; se omiten tests de integración con PostgreSQL")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 20})
	if err != nil {
		t.Skipf("PostgreSQL no disponible: %v", err)
	}
	t.Cleanup(pool.Close)
	require.NoError(t, Migrate(ctx, pool))
	return pool
}

func newIntegrationService(pool *pgxpool.Pool) *inventory.Service {
	return inventory.NewService(
		NewTxRunner(pool, 2*time.Second),
		NewProductRepository(pool),
		NewWarehouseRepository(pool),
		NewInventoryTransactionRepository(pool),
		nil,
		inventory.Config{MaxAttempts: 5, RetryBackoff: 10 * time.Millisecond},
	)
}

func uniqueSuffix() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}

func TestIntegration_StockInOut_LedgerAndBalance(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	svc := newIntegrationService(pool)
	sfx := uniqueSuffix()

	wh := &entity.Warehouse{Name: "Principal " + sfx, Code: "W" + sfx[len(sfx)-8:]}
	require.NoError(t, NewWarehouseRepository(pool).Create(ctx, wh))
	assert.Equal(t, entity.DefaultWarehouseCapacity, wh.Capacity)

	p, err := svc.AddProduct(ctx, &entity.Product{Name: "Tornillo " + sfx, Barcode: "BC-" + sfx, Price: decimal.RequireFromString("1.255")})
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("1.26")))

	ok, err := svc.StockIn(ctx, p.ID, wh.ID, 10, inventory.MovementOptions{ReferenceNumber: "PO-1"})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.StockOut(ctx, p.ID, wh.ID, 11, inventory.MovementOptions{})
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = svc.StockOut(ctx, p.ID, wh.ID, 4, inventory.MovementOptions{})
	require.NoError(t, err)
	require.True(t, ok)

	got, err := svc.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, got.Quantity)

	history, err := svc.GetProductTransactions(ctx, p.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, entity.TransactionTypeOUT, history[0].Type)
	assert.Equal(t, entity.TransactionTypeIN, history[1].Type)
	assert.Equal(t, "PO-1", history[1].ReferenceNumber)
	assert.NotEmpty(t, history[1].CreatedBy)
	assert.Equal(t, wh.Code, history[1].Warehouse.Code)
}

func TestIntegration_DuplicateBarcode(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	repo := NewProductRepository(pool)
	sfx := uniqueSuffix()

	now := time.Now()
	p1 := &entity.Product{Name: "A", Barcode: "DUP-" + sfx, IsActive: true, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repo.Create(ctx, p1))
	p2 := &entity.Product{Name: "B", Barcode: "DUP-" + sfx, IsActive: true, CreatedAt: now, UpdatedAt: now}
	assert.ErrorIs(t, repo.Create(ctx, p2), domain.ErrDuplicateBarcode)
}

func TestIntegration_ConcurrentStockOut(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	svc := newIntegrationService(pool)
	sfx := uniqueSuffix()

	wh := &entity.Warehouse{Name: "Concurrente", Code: "C" + sfx[len(sfx)-8:]}
	require.NoError(t, NewWarehouseRepository(pool).Create(ctx, wh))
	p, err := svc.AddProduct(ctx, &entity.Product{Name: "Tuerca", Barcode: "CC-" + sfx, Quantity: 10})
	require.NoError(t, err)

	var wg sync.WaitGroup
	var success atomic.Int32
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := svc.StockOut(ctx, p.ID, wh.ID, 6, inventory.MovementOptions{})
			if err == nil && ok {
				success.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), success.Load())
	got, err := svc.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Quantity)
}

func TestIntegration_ConcurrentStockInAllSucceed(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	svc := inventory.NewService(
		NewTxRunner(pool, 2*time.Second),
		NewProductRepository(pool),
		NewWarehouseRepository(pool),
		NewInventoryTransactionRepository(pool),
		nil,
		inventory.Config{},
	)
	sfx := uniqueSuffix()

	wh := &entity.Warehouse{Name: "Recepción", Code: "R" + sfx[len(sfx)-8:]}
	require.NoError(t, NewWarehouseRepository(pool).Create(ctx, wh))
	p, err := svc.AddProduct(ctx, &entity.Product{Name: "Arandela", Barcode: "CI-" + sfx, Quantity: 5})
	require.NoError(t, err)

	const workers = 10
	var wg sync.WaitGroup
	var success atomic.Int32
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := svc.StockIn(ctx, p.ID, wh.ID, 1, inventory.MovementOptions{})
			if err != nil {
				errs <- err
				return
			}
			if ok {
				success.Add(1)
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, int32(workers), success.Load())
	got, err := svc.GetProductByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5+workers, got.Quantity)

	history, err := svc.GetProductTransactions(ctx, p.ID, 0)
	require.NoError(t, err)
	assert.Len(t, history, workers)
}

func TestIntegration_DeleteKeepsHistory(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()
	svc := newIntegrationService(pool)
	sfx := uniqueSuffix()

	wh := &entity.Warehouse{Name: "Archivo", Code: "H" + sfx[len(sfx)-8:]}
	require.NoError(t, NewWarehouseRepository(pool).Create(ctx, wh))
	p, err := svc.AddProduct(ctx, &entity.Product{Name: "Clavo " + sfx, Barcode: "DH-" + sfx, Quantity: 2})
	require.NoError(t, err)

	ok, err := svc.StockIn(ctx, p.ID, wh.ID, 3, inventory.MovementOptions{ReferenceNumber: "PO-9"})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = svc.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	require.True(t, ok)

	row, err := NewProductRepository(pool).GetByID(ctx, p.ID)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.False(t, row.IsActive)
	assert.True(t, row.UpdatedAt.After(p.UpdatedAt))

	history, err := svc.GetProductTransactions(ctx, p.ID, 0)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Clavo "+sfx, history[0].Product.Name)
	assert.Equal(t, "DH-"+sfx, history[0].Product.Barcode)
	assert.Equal(t, "PO-9", history[0].ReferenceNumber)

	recent, err := svc.GetRecentTransactions(ctx, inventory.MaxRecentLimit)
	require.NoError(t, err)
	found := false
	for _, v := range recent {
		if v.Product.ID == p.ID {
			found = true
			assert.Equal(t, "DH-"+sfx, v.Product.Barcode)
		}
	}
	assert.True(t, found)
}
