package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/inventory"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type stubPDF struct{}

func (stubPDF) GenerateLowStockPDF(_ context.Context, r inventory.LowStockReport) ([]byte, error) {
	return []byte("%PDF-stub " + r.GeneratedAt.Format("2006")), nil
}

// buildTestApp arma la API completa sobre el backend en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.NewStore()
	warehouseRepo := memory.NewWarehouseRepository(store)
	svc := inventory.NewService(
		memory.NewTxRunner(store),
		memory.NewProductRepository(store),
		warehouseRepo,
		memory.NewInventoryTransactionRepository(store),
		logger.Nop(),
		inventory.Config{Clock: func() time.Time { return time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC) }},
	)
	app := fiber.New()
	app.Use(apphttp.RequestContext(logger.Nop()))
	apphttp.Router(app, apphttp.RouterDeps{
		Inventory:   svc,
		Reports:     inventory.NewReportUseCase(svc, stubPDF{}),
		WarehouseUC: usecase.NewWarehouseUseCase(warehouseRepo),
		Log:         logger.Nop(),
	})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, body string, headers ...string) *http.Response {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// seed crea una bodega y un producto y devuelve sus IDs.
func seed(t *testing.T, app *fiber.App, quantity int) (productID, warehouseID int64) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/warehouses", `{"name":"Principal","code":"WH-01"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	wh := decode[dto.WarehouseResponse](t, resp)

	body := `{"name":"Martillo","barcode":"7701","price":"12.50","quantity":` + itoa(quantity) + `,"category":"Herramientas"}`
	resp = doJSON(t, app, http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	p := decode[dto.ProductResponse](t, resp)
	return p.ID, wh.ID
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_CreateGetAndDuplicate(t *testing.T) {
	app := buildTestApp(t)
	id, _ := seed(t, app, 5)

	resp := doJSON(t, app, http.MethodGet, "/api/products/"+itoa(int(id)), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Martillo", p.Name)
	assert.Equal(t, "12.5", p.Price.String())
	assert.True(t, p.IsActive)

	resp = doJSON(t, app, http.MethodGet, "/api/products/barcode/7701", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/products", `{"name":"Otro","barcode":"7701","price":"1"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE_BARCODE", decode[dto.ErrorResponse](t, resp).Code)

	resp = doJSON(t, app, http.MethodPost, "/api/products", `{"name":"","barcode":"x","price":"1"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProducts_SearchUpdateDelete(t *testing.T) {
	app := buildTestApp(t)
	id, _ := seed(t, app, 5)
	path := "/api/products/" + itoa(int(id))

	resp := doJSON(t, app, http.MethodGet, "/api/products?q=herra", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, decode[dto.ProductListResponse](t, resp).Total)

	resp = doJSON(t, app, http.MethodPut, path, `{"name":"Martillo grande","price":"15","quantity":8}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[dto.ProductResponse](t, resp)
	assert.Equal(t, "Martillo grande", p.Name)
	assert.Equal(t, "7701", p.Barcode)
	assert.Equal(t, 8, p.Quantity)

	resp = doJSON(t, app, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPut, path, `{"name":"x","price":"1","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodDelete, "/api/products/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/products/abc", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInventory_StockInOutAndHistory(t *testing.T) {
	app := buildTestApp(t)
	pid, wid := seed(t, app, 0)
	move := func(kind string, qty int) *http.Response {
		body := `{"product_id":` + itoa(int(pid)) + `,"warehouse_id":` + itoa(int(wid)) + `,"quantity":` + itoa(qty) + `}`
		return doJSON(t, app, http.MethodPost, "/api/inventory/"+kind, body, apphttp.HeaderActor, "ana")
	}

	resp := move("stock-in", 10)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	out := decode[dto.StockMovementResponse](t, resp)
	require.NotNil(t, out.Transaction)
	assert.Equal(t, "IN", out.Transaction.Type)
	assert.Equal(t, "ana", out.Transaction.CreatedBy)

	resp = move("stock-out", 11)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", decode[dto.ErrorResponse](t, resp).Code)

	resp = move("stock-out", 4)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = move("stock-in", 0)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/inventory/stock-in",
		`{"product_id":`+itoa(int(pid))+`,"warehouse_id":999,"quantity":1}`)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/inventory/transactions?limit=1", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	recent := decode[dto.TransactionListResponse](t, resp)
	require.Len(t, recent.Items, 1)
	assert.Equal(t, "OUT", recent.Items[0].Type)
	assert.Equal(t, "Martillo", recent.Items[0].ProductName)
	assert.Equal(t, "WH-01", recent.Items[0].WarehouseCode)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+itoa(int(pid))+"/transactions", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 2, decode[dto.TransactionListResponse](t, resp).Total)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+itoa(int(pid)), "")
	assert.Equal(t, 6, decode[dto.ProductResponse](t, resp).Quantity)

	resp = doJSON(t, app, http.MethodGet, "/api/products/"+itoa(int(pid))+"/stock", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stock := decode[[]dto.WarehouseStockResponse](t, resp)
	require.Len(t, stock, 1)
	assert.Equal(t, 6, stock[0].Net)
}

func TestInventory_LowStockAndPDF(t *testing.T) {
	app := buildTestApp(t)
	seed(t, app, 0)

	resp := doJSON(t, app, http.MethodGet, "/api/inventory/low-stock", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	low := decode[dto.LowStockResponse](t, resp)
	assert.Equal(t, inventory.DefaultLowStockThreshold, low.Threshold)
	require.Len(t, low.Items, 1)
	assert.Equal(t, "out of stock", low.Items[0].Status)

	resp = doJSON(t, app, http.MethodGet, "/api/inventory/low-stock?threshold=0", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	low = decode[dto.LowStockResponse](t, resp)
	assert.Equal(t, 0, low.Threshold)
	assert.Empty(t, low.Items)

	resp = doJSON(t, app, http.MethodGet, "/api/inventory/low-stock.pdf?threshold=5", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "low-stock-20260504.pdf")
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(body), "%PDF"))
}

func TestWarehouses_CRUD(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodPost, "/api/warehouses", `{"name":"Norte","code":"N1","location":"Calle 1"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	wh := decode[dto.WarehouseResponse](t, resp)
	assert.Equal(t, 1000, wh.Capacity)

	resp = doJSON(t, app, http.MethodPost, "/api/warehouses", `{"name":"Otra","code":"N1"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/warehouses", `{"name":"Sin código"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/warehouses/"+itoa(int(wh.ID)), "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/warehouses/42", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/warehouses?limit=10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[dto.WarehouseListResponse](t, resp)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, 10, list.Page.Limit)
}

func TestRequestContext_SetsRequestID(t *testing.T) {
	app := buildTestApp(t)

	resp := doJSON(t, app, http.MethodGet, "/api/products", "")
	assert.NotEmpty(t, resp.Header.Get(apphttp.HeaderRequestID))

	resp = doJSON(t, app, http.MethodGet, "/api/products", "", apphttp.HeaderRequestID, "req-123")
	assert.Equal(t, "req-123", resp.Header.Get(apphttp.HeaderRequestID))
}
