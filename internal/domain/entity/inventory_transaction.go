package entity

import "time"

// Tipos de movimiento del libro de inventario.
const (
	TransactionTypeIN  = "IN"  // entrada
	TransactionTypeOUT = "OUT" // salida
)

// InventoryTransaction es un asiento del libro de inventario. Se crea una sola vez por movimiento
// y nunca se modifica ni se elimina. Quantity es la magnitud movida, siempre positiva.
type InventoryTransaction struct {
	ID              int64
	ProductID       int64
	WarehouseID     int64
	Type            string
	Quantity        int
	ReferenceNumber string
	Notes           string
	CreatedBy       string
	CreatedAt       time.Time
}

// Validate verifica tipo y magnitud del movimiento.
func (t *InventoryTransaction) Validate() bool {
	if t == nil || t.ProductID <= 0 || t.WarehouseID <= 0 || t.Quantity <= 0 {
		return false
	}
	return t.Type == TransactionTypeIN || t.Type == TransactionTypeOUT
}

// ProductRef identidad mínima del producto para mostrar junto a un movimiento.
type ProductRef struct {
	ID      int64
	Name    string
	Barcode string
}

// WarehouseRef identidad mínima de la bodega para mostrar junto a un movimiento.
type WarehouseRef struct {
	ID   int64
	Name string
	Code string
}

// TransactionView movimiento resuelto con su producto y bodega.
type TransactionView struct {
	InventoryTransaction
	Product   ProductRef
	Warehouse WarehouseRef
}
