package entity

import "github.com/shopspring/decimal"

// UnitOfMeasure unidad de medida base del ítem (kg, un, l...).
type UnitOfMeasure struct {
	ID           int64
	Description  string
	Abbreviation string
}

// Item representa un ítem del inventario de una tienda.
// IsFractionable habilita el desglose de una línea de movimiento en embalajes.
type Item struct {
	ID             int64 // 0 = sin seleccionar
	Description    string
	IsFractionable bool
	Category       Category
	UnitOfMeasure  UnitOfMeasure
}

// ItemPackaging embalaje de un ítem: 1 unidad de embalaje = Quantity unidades base.
type ItemPackaging struct {
	ID          int64
	Description string
	Quantity    decimal.Decimal
}
