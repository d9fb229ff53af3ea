package inventory

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Valores por defecto del servicio.
const (
	DefaultLowStockThreshold = 10
	DefaultRecentLimit       = 20
	MaxRecentLimit           = 500
	DefaultMaxAttempts       = 3
	DefaultRetryBackoff      = 50 * time.Millisecond
)

// Config parámetros del servicio de inventario. Los valores cero toman el default.
type Config struct {
	LowStockThreshold int
	RecentLimit       int
	MaxAttempts       int           // intentos de la unidad de trabajo ante domain.ErrConflict
	RetryBackoff      time.Duration // espera base entre intentos, lineal con jitter
	Actor             string        // CreatedBy por defecto de los movimientos
	Clock             func() time.Time
}

func (c Config) withDefaults() Config {
	if c.LowStockThreshold <= 0 {
		c.LowStockThreshold = DefaultLowStockThreshold
	}
	if c.RecentLimit <= 0 {
		c.RecentLimit = DefaultRecentLimit
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.RetryBackoff <= 0 {
		c.RetryBackoff = DefaultRetryBackoff
	}
	if c.Clock == nil {
		c.Clock = time.Now
	}
	return c
}

// Service orquesta productos y movimientos de inventario. Es dueño del protocolo que mantiene
// Product.Quantity consistente con el libro de movimientos: toda mutación pasa por TxRunner.
type Service struct {
	txRunner      TxRunner
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	txRepo        repository.InventoryTransactionRepository
	log           *logger.Logger
	cfg           Config
}

// NewService construye el servicio inyectando sus dependencias.
func NewService(
	txRunner TxRunner,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	txRepo repository.InventoryTransactionRepository,
	log *logger.Logger,
	cfg Config,
) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		txRunner:      txRunner,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		txRepo:        txRepo,
		log:           log.Named("inventory"),
		cfg:           cfg.withDefaults(),
	}
}

// MovementOptions datos opcionales de un movimiento.
type MovementOptions struct {
	ReferenceNumber string
	Notes           string
	CreatedBy       string
}

// MovementInput entrada para registrar una entrada o salida de stock.
type MovementInput struct {
	ProductID   int64
	WarehouseID int64
	Type        string // entity.TransactionTypeIN / entity.TransactionTypeOUT
	Quantity    int
	MovementOptions
}

// ── Productos ─────────────────────────────────────────────────────────────────

// AddProduct crea un producto. El código de barras no puede existir (activo o inactivo).
// Devuelve domain.ErrDuplicateBarcode, domain.ErrInvalidInput o el error de persistencia envuelto.
func (s *Service) AddProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	if !product.Validate() {
		return nil, domain.ErrInvalidInput
	}
	now := s.cfg.Clock()
	var created entity.Product

	err := s.runInTx(ctx, func(productRepo repository.ProductRepository, _ repository.InventoryTransactionRepository, _ repository.WarehouseRepository) error {
		existing, err := productRepo.GetByBarcode(ctx, product.Barcode)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrDuplicateBarcode
		}
		created = *product
		created.ID = 0
		created.Price = product.Price.Round(2)
		created.IsActive = true
		created.CreatedAt = now
		created.UpdatedAt = now
		return productRepo.Create(ctx, &created)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateBarcode) {
			return nil, err
		}
		s.log.Error().Err(err).Str("barcode", product.Barcode).Msg("agregar producto")
		return nil, fmt.Errorf("agregar producto: %w", err)
	}
	s.log.Info().Int64("product_id", created.ID).Str("barcode", created.Barcode).Msg("producto creado")
	return &created, nil
}

// GetAllProducts lista los productos activos ordenados por nombre.
func (s *Service) GetAllProducts(ctx context.Context) ([]*entity.Product, error) {
	list, err := s.productRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("listar productos: %w", err)
	}
	return nonNil(list), nil
}

// GetProductByID devuelve el producto activo o domain.ErrNotFound.
func (s *Service) GetProductByID(ctx context.Context, id int64) (*entity.Product, error) {
	p, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener producto: %w", err)
	}
	if p == nil || !p.IsActive {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// GetProductByBarcode devuelve el producto activo con ese código o domain.ErrNotFound.
func (s *Service) GetProductByBarcode(ctx context.Context, barcode string) (*entity.Product, error) {
	p, err := s.productRepo.GetByBarcode(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("obtener producto por código: %w", err)
	}
	if p == nil || !p.IsActive {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// SearchProducts busca productos activos por nombre, código de barras o categoría.
// Sin coincidencias devuelve una lista vacía; keyword vacío equivale a GetAllProducts.
func (s *Service) SearchProducts(ctx context.Context, keyword string) ([]*entity.Product, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return s.GetAllProducts(ctx)
	}
	list, err := s.productRepo.Search(ctx, keyword)
	if err != nil {
		return nil, fmt.Errorf("buscar productos: %w", err)
	}
	return nonNil(list), nil
}

// UpdateProduct aplica nombre, precio, cantidad, descripción y categoría sobre el producto guardado.
// Devuelve false si el id no existe o el producto está inactivo. No toca Barcode, CreatedAt ni IsActive.
func (s *Service) UpdateProduct(ctx context.Context, product *entity.Product) (bool, error) {
	if product == nil || strings.TrimSpace(product.Name) == "" || product.Price.IsNegative() || product.Quantity < 0 || product.Quantity > entity.MaxQuantity {
		return false, domain.ErrInvalidInput
	}
	now := s.cfg.Clock()
	found := false

	err := s.runInTx(ctx, func(productRepo repository.ProductRepository, _ repository.InventoryTransactionRepository, _ repository.WarehouseRepository) error {
		found = false
		current, err := productRepo.GetByIDForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		if current == nil || !current.IsActive {
			return nil
		}
		found = true
		current.Name = product.Name
		current.Price = product.Price.Round(2)
		current.Quantity = product.Quantity
		current.Description = product.Description
		current.Category = product.Category
		current.UpdatedAt = now
		return productRepo.Update(ctx, current)
	})
	if err != nil {
		s.log.Error().Err(err).Int64("product_id", product.ID).Msg("actualizar producto")
		return false, fmt.Errorf("actualizar producto: %w", err)
	}
	return found, nil
}

// DeleteProduct marca el producto como inactivo (borrado lógico).
// Devuelve false si el id no existe; sobre un producto ya inactivo devuelve true sin escribir.
func (s *Service) DeleteProduct(ctx context.Context, id int64) (bool, error) {
	now := s.cfg.Clock()
	found := false

	err := s.runInTx(ctx, func(productRepo repository.ProductRepository, _ repository.InventoryTransactionRepository, _ repository.WarehouseRepository) error {
		found = false
		current, err := productRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return nil
		}
		found = true
		if !current.IsActive {
			return nil
		}
		current.IsActive = false
		current.UpdatedAt = now
		return productRepo.Update(ctx, current)
	})
	if err != nil {
		s.log.Error().Err(err).Int64("product_id", id).Msg("eliminar producto")
		return false, fmt.Errorf("eliminar producto: %w", err)
	}
	if found {
		s.log.Info().Int64("product_id", id).Msg("producto desactivado")
	}
	return found, nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

// StockIn suma quantity al producto y registra un movimiento IN en la misma unidad de trabajo.
// Devuelve false si el producto (o la bodega) no existe.
func (s *Service) StockIn(ctx context.Context, productID, warehouseID int64, quantity int, opts MovementOptions) (bool, error) {
	_, err := s.RegisterMovement(ctx, MovementInput{
		ProductID: productID, WarehouseID: warehouseID,
		Type: entity.TransactionTypeIN, Quantity: quantity, MovementOptions: opts,
	})
	return movementResult(err)
}

// StockOut resta quantity del producto y registra un movimiento OUT en la misma unidad de trabajo.
// Stock insuficiente o producto inexistente son rechazos normales: (false, nil) sin cambios.
func (s *Service) StockOut(ctx context.Context, productID, warehouseID int64, quantity int, opts MovementOptions) (bool, error) {
	_, err := s.RegisterMovement(ctx, MovementInput{
		ProductID: productID, WarehouseID: warehouseID,
		Type: entity.TransactionTypeOUT, Quantity: quantity, MovementOptions: opts,
	})
	return movementResult(err)
}

// TryStockOut igual que StockOut pero devuelve el motivo del rechazo: domain.ErrInsufficientStock
// o domain.ErrNotFound. Con éxito devuelve el movimiento creado.
func (s *Service) TryStockOut(ctx context.Context, productID, warehouseID int64, quantity int, opts MovementOptions) (*entity.InventoryTransaction, error) {
	return s.RegisterMovement(ctx, MovementInput{
		ProductID: productID, WarehouseID: warehouseID,
		Type: entity.TransactionTypeOUT, Quantity: quantity, MovementOptions: opts,
	})
}

// RegisterMovement bloquea la fila del producto (SELECT FOR UPDATE), valida, ajusta la cantidad y
// agrega el asiento al libro; todo o nada. Devuelve el movimiento creado o uno de:
// domain.ErrInvalidInput, domain.ErrNotFound, domain.ErrInsufficientStock, error de persistencia.
func (s *Service) RegisterMovement(ctx context.Context, in MovementInput) (*entity.InventoryTransaction, error) {
	if in.Quantity <= 0 || in.Quantity > entity.MaxQuantity ||
		(in.Type != entity.TransactionTypeIN && in.Type != entity.TransactionTypeOUT) {
		return nil, domain.ErrInvalidInput
	}
	createdBy := in.CreatedBy
	if createdBy == "" {
		createdBy = s.cfg.Actor
	}
	var record *entity.InventoryTransaction
	var balance int

	err := s.runInTx(ctx, func(
		productRepo repository.ProductRepository,
		txRepo repository.InventoryTransactionRepository,
		warehouseRepo repository.WarehouseRepository,
	) error {
		now := s.cfg.Clock()
		product, err := productRepo.GetByIDForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil || !product.IsActive {
			return domain.ErrNotFound
		}
		wh, err := warehouseRepo.GetByID(ctx, in.WarehouseID)
		if err != nil {
			return err
		}
		if wh == nil {
			return domain.ErrNotFound
		}

		switch in.Type {
		case entity.TransactionTypeIN:
			if product.Quantity > entity.MaxQuantity-in.Quantity {
				return domain.ErrInvalidInput
			}
			product.Quantity += in.Quantity
		case entity.TransactionTypeOUT:
			if product.Quantity < in.Quantity {
				return domain.ErrInsufficientStock
			}
			product.Quantity -= in.Quantity
		}
		product.UpdatedAt = now
		if err := productRepo.Update(ctx, product); err != nil {
			return err
		}

		rec := &entity.InventoryTransaction{
			ProductID:       in.ProductID,
			WarehouseID:     in.WarehouseID,
			Type:            in.Type,
			Quantity:        in.Quantity,
			ReferenceNumber: in.ReferenceNumber,
			Notes:           in.Notes,
			CreatedBy:       createdBy,
			CreatedAt:       now,
		}
		if err := txRepo.Create(ctx, rec); err != nil {
			return err
		}
		record = rec
		balance = product.Quantity
		return nil
	})

	switch {
	case err == nil:
		s.log.Info().
			Str("type", in.Type).
			Int64("product_id", in.ProductID).
			Int64("warehouse_id", in.WarehouseID).
			Int("quantity", in.Quantity).
			Int("balance", balance).
			Msg("movimiento registrado")
		return record, nil
	case errors.Is(err, domain.ErrNotFound):
		s.log.Debug().Int64("product_id", in.ProductID).Int64("warehouse_id", in.WarehouseID).Msg("movimiento rechazado: producto o bodega no encontrado")
		return nil, err
	case errors.Is(err, domain.ErrInsufficientStock):
		s.log.Warn().Int64("product_id", in.ProductID).Int("quantity", in.Quantity).Msg("movimiento rechazado: stock insuficiente")
		return nil, err
	case errors.Is(err, domain.ErrInvalidInput):
		s.log.Warn().Int64("product_id", in.ProductID).Int("quantity", in.Quantity).Msg("movimiento rechazado: cantidad fuera de rango")
		return nil, err
	default:
		s.log.Error().Err(err).Str("type", in.Type).Int64("product_id", in.ProductID).Msg("registrar movimiento")
		return nil, fmt.Errorf("registrar movimiento: %w", err)
	}
}

// movementResult traduce el resultado tipado al contrato booleano de StockIn/StockOut.
func movementResult(err error) (bool, error) {
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrInsufficientStock):
		return false, nil
	default:
		return false, err
	}
}

// runInTx ejecuta fn en una unidad de trabajo, reintentando cuando la persistencia
// reporta domain.ErrConflict. fn debe poder ejecutarse más de una vez.
func (s *Service) runInTx(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	txRepo repository.InventoryTransactionRepository,
	warehouseRepo repository.WarehouseRepository,
) error) error {
	var err error
	for attempt := 1; attempt <= s.cfg.MaxAttempts; attempt++ {
		err = s.txRunner.Run(ctx, fn)
		if !errors.Is(err, domain.ErrConflict) {
			return err
		}
		if attempt == s.cfg.MaxAttempts {
			break
		}
		s.log.Warn().Err(err).Int("attempt", attempt).Msg("conflicto en unidad de trabajo, reintentando")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(s.backoff(attempt)):
		}
	}
	return err
}

// backoff espera lineal por intento más un jitter aleatorio de hasta RetryBackoff.
func (s *Service) backoff(attempt int) time.Duration {
	base := s.cfg.RetryBackoff * time.Duration(attempt)
	return base + time.Duration(rand.Int63n(int64(s.cfg.RetryBackoff)))
}

func nonNil[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}
