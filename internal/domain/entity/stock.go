package entity

// WarehouseStock movimiento neto de un producto en una bodega, derivado del libro.
// No incluye la cantidad inicial del producto, que no pertenece a ninguna bodega.
type WarehouseStock struct {
	ProductID     int64
	WarehouseID   int64
	WarehouseCode string
	WarehouseName string
	In            int // suma de entradas
	Out           int // suma de salidas
}

// Net entradas menos salidas.
func (s WarehouseStock) Net() int {
	return s.In - s.Out
}
