package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrDuplicateBarcode  = errors.New("el código de barras ya existe")
	ErrInsufficientStock = errors.New("stock insuficiente")
	// ErrConflict lo devuelve la capa de persistencia cuando la unidad de trabajo
	// chocó con otra (bloqueo, deadlock o serialización) y puede reintentarse.
	ErrConflict = errors.New("conflicto con el estado actual")
)
