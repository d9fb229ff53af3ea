package entity

import "time"

// DefaultWarehouseCapacity capacidad por defecto de una bodega (igual al DEFAULT de la tabla).
const DefaultWarehouseCapacity = 1000

// Warehouse representa una bodega donde se almacena inventario.
type Warehouse struct {
	ID           int64
	Name         string
	Code         string // único
	Location     string
	Capacity     int
	ContactPhone string
	CreatedAt    time.Time
}
