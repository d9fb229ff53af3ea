package repository

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// Las lecturas puntuales devuelven (nil, nil) cuando no existe la fila.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id int64) (*entity.Product, error)
	// GetByIDForUpdate bloquea la fila hasta el fin de la unidad de trabajo (SELECT FOR UPDATE).
	GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error)
	// GetByBarcode busca entre activos e inactivos.
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	// ListActive lista los productos activos ordenados por nombre.
	ListActive(ctx context.Context) ([]*entity.Product, error)
	// Search busca keyword (sin distinguir mayúsculas) en nombre, código de barras o categoría.
	Search(ctx context.Context, keyword string) ([]*entity.Product, error)
	// ListLowStock productos activos con quantity < threshold, menor cantidad primero.
	ListLowStock(ctx context.Context, threshold int) ([]*entity.Product, error)
}
