package dto

import "time"

// CreateWarehouseRequest entrada para crear una bodega.
type CreateWarehouseRequest struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Location     string `json:"location"`
	Capacity     int    `json:"capacity"` // 0 = capacidad por defecto
	ContactPhone string `json:"contact_phone"`
}

// WarehouseResponse salida de una bodega.
type WarehouseResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Location     string    `json:"location"`
	Capacity     int       `json:"capacity"`
	ContactPhone string    `json:"contact_phone"`
	CreatedAt    time.Time `json:"created_at"`
}

// WarehouseListResponse lista paginada de bodegas.
type WarehouseListResponse struct {
	Items []WarehouseResponse `json:"items"`
	Page  PageResponse        `json:"page"`
}
