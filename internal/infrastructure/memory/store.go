// Package memory implementa los puertos de persistencia en memoria del proceso.
// Las unidades de trabajo se serializan con un único candado de escritura y trabajan sobre
// una copia del estado que solo se publica si fn termina sin error.
package memory

import (
	"maps"
	"slices"
	"sync"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// state datos del almacén. No es seguro para uso concurrente: el acceso pasa por Store o por una tx.
type state struct {
	products        map[int64]entity.Product
	warehouses      map[int64]entity.Warehouse
	transactions    []entity.InventoryTransaction
	nextProductID   int64
	nextWarehouseID int64
	nextTxID        int64
}

func newState() *state {
	return &state{
		products:   make(map[int64]entity.Product),
		warehouses: make(map[int64]entity.Warehouse),
	}
}

func (st *state) clone() *state {
	return &state{
		products:        maps.Clone(st.products),
		warehouses:      maps.Clone(st.warehouses),
		transactions:    slices.Clip(st.transactions),
		nextProductID:   st.nextProductID,
		nextWarehouseID: st.nextWarehouseID,
		nextTxID:        st.nextTxID,
	}
}

// accessor abstrae si el repositorio opera con candados (Store) o dentro de una tx ya bloqueada.
type accessor interface {
	read(fn func(st *state) error) error
	write(fn func(st *state) error) error
}

// Store almacén en memoria compartido por los repositorios y el TxRunner.
type Store struct {
	mu sync.RWMutex
	st *state
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState()}
}

func (s *Store) read(fn func(st *state) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.st)
}

func (s *Store) write(fn func(st *state) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	staged := s.st.clone()
	if err := fn(staged); err != nil {
		return err
	}
	s.st = staged
	return nil
}

// txAccess acceso sin candados: el TxRunner ya tiene el candado de escritura.
type txAccess struct {
	st *state
}

func (a txAccess) read(fn func(st *state) error) error  { return fn(a.st) }
func (a txAccess) write(fn func(st *state) error) error { return fn(a.st) }
