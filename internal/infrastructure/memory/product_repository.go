package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// errCheckViolation emula los CHECK de la tabla products.
var errCheckViolation = errors.New("violación de restricción check")

// ProductRepo implementación en memoria de ProductRepository.
type ProductRepo struct {
	acc accessor
}

// NewProductRepository construye el repositorio sobre el almacén.
func NewProductRepository(store *Store) *ProductRepo {
	return &ProductRepo{acc: store}
}

// Create asigna ID y persiste el producto. Barcode repetido -> domain.ErrDuplicateBarcode.
func (r *ProductRepo) Create(_ context.Context, product *entity.Product) error {
	if product.Quantity < 0 || product.Price.IsNegative() {
		return fmt.Errorf("insert product: %w", errCheckViolation)
	}
	return r.acc.write(func(st *state) error {
		for _, p := range st.products {
			if p.Barcode == product.Barcode {
				return domain.ErrDuplicateBarcode
			}
		}
		st.nextProductID++
		product.ID = st.nextProductID
		st.products[product.ID] = *product
		return nil
	})
}

// GetByID obtiene un producto por ID (activo o no).
func (r *ProductRepo) GetByID(_ context.Context, id int64) (*entity.Product, error) {
	var out *entity.Product
	err := r.acc.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

// GetByIDForUpdate igual que GetByID: dentro de una tx el candado del Store ya serializa.
func (r *ProductRepo) GetByIDForUpdate(ctx context.Context, id int64) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

// GetByBarcode obtiene un producto por código de barras (activo o no).
func (r *ProductRepo) GetByBarcode(_ context.Context, barcode string) (*entity.Product, error) {
	var out *entity.Product
	err := r.acc.read(func(st *state) error {
		for _, p := range st.products {
			if p.Barcode == barcode {
				out = &p
				return nil
			}
		}
		return nil
	})
	return out, err
}

// Update reemplaza los campos mutables. Sin fila no hace nada (como UPDATE sin filas afectadas).
func (r *ProductRepo) Update(_ context.Context, product *entity.Product) error {
	if product.Quantity < 0 || product.Price.IsNegative() {
		return fmt.Errorf("update product: %w", errCheckViolation)
	}
	return r.acc.write(func(st *state) error {
		current, ok := st.products[product.ID]
		if !ok {
			return nil
		}
		current.Name = product.Name
		current.Price = product.Price
		current.Quantity = product.Quantity
		current.Description = product.Description
		current.Category = product.Category
		current.IsActive = product.IsActive
		current.UpdatedAt = product.UpdatedAt
		st.products[product.ID] = current
		return nil
	})
}

// ListActive productos activos ordenados por nombre.
func (r *ProductRepo) ListActive(_ context.Context) ([]*entity.Product, error) {
	return r.filter(func(p *entity.Product) bool { return true }, byName)
}

// Search coincidencia por subcadena, sin distinguir mayúsculas (case folding Unicode).
func (r *ProductRepo) Search(_ context.Context, keyword string) ([]*entity.Product, error) {
	needle := cases.Fold().String(keyword)
	return r.filter(func(p *entity.Product) bool {
		fold := cases.Fold()
		return strings.Contains(fold.String(p.Name), needle) ||
			strings.Contains(fold.String(p.Barcode), needle) ||
			strings.Contains(fold.String(p.Category), needle)
	}, byName)
}

// ListLowStock productos activos con quantity < threshold, menor cantidad primero.
func (r *ProductRepo) ListLowStock(_ context.Context, threshold int) ([]*entity.Product, error) {
	return r.filter(func(p *entity.Product) bool { return p.Quantity < threshold }, func(a, b *entity.Product) bool {
		if a.Quantity != b.Quantity {
			return a.Quantity < b.Quantity
		}
		return byName(a, b)
	})
}

func (r *ProductRepo) filter(match func(p *entity.Product) bool, less func(a, b *entity.Product) bool) ([]*entity.Product, error) {
	var list []*entity.Product
	err := r.acc.read(func(st *state) error {
		for _, p := range st.products {
			p := p
			if !p.IsActive || !match(&p) {
				continue
			}
			list = append(list, &p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return less(list[i], list[j]) })
	return list, nil
}

func byName(a, b *entity.Product) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}
