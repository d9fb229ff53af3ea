package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.WarehouseRepository = (*WarehouseRepo)(nil)

// WarehouseRepo implementación en memoria de WarehouseRepository.
type WarehouseRepo struct {
	acc accessor
}

// NewWarehouseRepository construye el repositorio sobre el almacén.
func NewWarehouseRepository(store *Store) *WarehouseRepo {
	return &WarehouseRepo{acc: store}
}

// Create asigna ID y persiste la bodega. Código repetido -> domain.ErrDuplicate.
func (r *WarehouseRepo) Create(_ context.Context, warehouse *entity.Warehouse) error {
	return r.acc.write(func(st *state) error {
		for _, w := range st.warehouses {
			if w.Code == warehouse.Code {
				return domain.ErrDuplicate
			}
		}
		if warehouse.Capacity == 0 {
			warehouse.Capacity = entity.DefaultWarehouseCapacity
		}
		st.nextWarehouseID++
		warehouse.ID = st.nextWarehouseID
		st.warehouses[warehouse.ID] = *warehouse
		return nil
	})
}

// GetByID obtiene una bodega por ID.
func (r *WarehouseRepo) GetByID(_ context.Context, id int64) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.acc.read(func(st *state) error {
		if w, ok := st.warehouses[id]; ok {
			out = &w
		}
		return nil
	})
	return out, err
}

// GetByCode obtiene una bodega por código.
func (r *WarehouseRepo) GetByCode(_ context.Context, code string) (*entity.Warehouse, error) {
	var out *entity.Warehouse
	err := r.acc.read(func(st *state) error {
		for _, w := range st.warehouses {
			if w.Code == code {
				out = &w
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List lista bodegas por ID ascendente con paginación.
func (r *WarehouseRepo) List(_ context.Context, limit, offset int) ([]*entity.Warehouse, error) {
	var list []*entity.Warehouse
	err := r.acc.read(func(st *state) error {
		for _, w := range st.warehouses {
			w := w
			list = append(list, &w)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return page(list, limit, offset), nil
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}
