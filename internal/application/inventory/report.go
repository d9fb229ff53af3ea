package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// GetLowStockProducts devuelve los productos activos con quantity < threshold, anotados con
// "out of stock" (cantidad 0) o "low stock". El umbral se aplica tal cual: threshold <= 0 no
// devuelve filas.
func (s *Service) GetLowStockProducts(ctx context.Context, threshold int) ([]entity.LowStockItem, error) {
	products, err := s.productRepo.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("productos con bajo stock: %w", err)
	}
	items := make([]entity.LowStockItem, 0, len(products))
	for _, p := range products {
		items = append(items, entity.NewLowStockItem(p))
	}
	return items, nil
}

// GetRecentTransactions devuelve los últimos count movimientos, más reciente primero,
// resueltos con su producto y bodega.
func (s *Service) GetRecentTransactions(ctx context.Context, count int) ([]entity.TransactionView, error) {
	list, err := s.txRepo.ListRecent(ctx, s.limit(count))
	if err != nil {
		return nil, fmt.Errorf("movimientos recientes: %w", err)
	}
	return nonNil(list), nil
}

// GetProductTransactions historial de movimientos de un producto (incluye inactivos).
func (s *Service) GetProductTransactions(ctx context.Context, productID int64, count int) ([]entity.TransactionView, error) {
	list, err := s.txRepo.ListByProduct(ctx, productID, s.limit(count))
	if err != nil {
		return nil, fmt.Errorf("movimientos del producto: %w", err)
	}
	return nonNil(list), nil
}

// GetStockByWarehouse entradas, salidas y neto del producto en cada bodega donde tuvo movimientos.
func (s *Service) GetStockByWarehouse(ctx context.Context, productID int64) ([]entity.WarehouseStock, error) {
	list, err := s.txRepo.StockByWarehouse(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("stock por bodega: %w", err)
	}
	return nonNil(list), nil
}

// LowStockThreshold umbral configurado para cuando el llamador no indica uno.
func (s *Service) LowStockThreshold() int {
	return s.cfg.LowStockThreshold
}

func (s *Service) limit(count int) int {
	if count <= 0 {
		return s.cfg.RecentLimit
	}
	if count > MaxRecentLimit {
		return MaxRecentLimit
	}
	return count
}

// ReportUseCase genera la representación en PDF del reporte de bajo stock.
type ReportUseCase struct {
	service   *Service
	generator ReportPDFGenerator
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(service *Service, generator ReportPDFGenerator) *ReportUseCase {
	return &ReportUseCase{service: service, generator: generator}
}

// LowStockPDF devuelve los bytes del PDF y el nombre sugerido del archivo.
func (uc *ReportUseCase) LowStockPDF(ctx context.Context, threshold int) (pdfBytes []byte, filename string, err error) {
	items, err := uc.service.GetLowStockProducts(ctx, threshold)
	if err != nil {
		return nil, "", err
	}
	now := uc.service.cfg.Clock()
	pdfBytes, err = uc.generator.GenerateLowStockPDF(ctx, LowStockReport{
		GeneratedAt: now,
		Threshold:   threshold,
		Items:       items,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: reporte de bajo stock: %w", err)
	}
	return pdfBytes, fmt.Sprintf("low-stock-%s.pdf", now.Format("20060102")), nil
}
