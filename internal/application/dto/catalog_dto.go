package dto

import "github.com/shopspring/decimal"

// CategoryResponse categoría de ítem.
type CategoryResponse struct {
	ID          int64  `json:"id"`
	Description string `json:"description"`
}

// UnitOfMeasureResponse unidad de medida.
type UnitOfMeasureResponse struct {
	ID           int64  `json:"id"`
	Description  string `json:"description"`
	Abbreviation string `json:"abbreviation,omitempty"`
}

// ItemResponse ítem del catálogo de la tienda.
type ItemResponse struct {
	ID             int64                 `json:"id"`
	Description    string                `json:"description"`
	IsFractionable bool                  `json:"is_fractionable"`
	Category       CategoryResponse      `json:"category"`
	UnitOfMeasure  UnitOfMeasureResponse `json:"unit_of_measure"`
}

// ItemPackagingResponse embalaje de un ítem.
type ItemPackagingResponse struct {
	ID          int64           `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
}
