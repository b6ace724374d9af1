package entity

// Category categoría de ítems (propiedad del módulo de ítems, solo lectura aquí).
type Category struct {
	ID          int64
	Description string
}
