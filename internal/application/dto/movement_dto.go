package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackagingRequest embalaje de una línea en la solicitud de creación/actualización.
type PackagingRequest struct {
	ID              int64           `json:"id,omitempty"`
	ItemPackagingID int64           `json:"item_packaging_id"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// MovementItemRequest línea de la solicitud. BuyPrice solo en entradas.
type MovementItemRequest struct {
	ID            int64              `json:"id,omitempty"`
	ItemID        int64              `json:"item_id"`
	TotalQuantity decimal.Decimal    `json:"total_quantity"`
	BuyPrice      *decimal.Decimal   `json:"buy_price,omitempty"`
	Packagings    []PackagingRequest `json:"packagings"`
}

// CreateMovementRequest body para POST /stores/{store}/stock-ins|stock-outs.
type CreateMovementRequest struct {
	Items []MovementItemRequest `json:"items"`
}

// UpdateMovementRequest body para PUT /stores/{store}/stock-ins|stock-outs/{id}.
type UpdateMovementRequest struct {
	ID    int64                 `json:"id"`
	Items []MovementItemRequest `json:"items"`
}

// MovementPackagingResponse embalaje de una línea tal como lo devuelve el servidor.
type MovementPackagingResponse struct {
	ID            int64                 `json:"id,omitempty"`
	ItemPackaging ItemPackagingResponse `json:"item_packaging"`
	Quantity      decimal.Decimal       `json:"quantity"`
}

// MovementItemResponse línea de un movimiento devuelto por el servidor.
type MovementItemResponse struct {
	ID            int64                       `json:"id,omitempty"`
	Item          ItemResponse                `json:"item"`
	TotalQuantity *decimal.Decimal            `json:"total_quantity"`
	BuyPrice      *decimal.Decimal            `json:"buy_price,omitempty"`
	Packagings    []MovementPackagingResponse `json:"packagings"`
}

// MovementResponse entrada o salida de stock devuelta por el servidor.
type MovementResponse struct {
	ID          int64                  `json:"id,omitempty"`
	Status      string                 `json:"status"`
	Items       []MovementItemResponse `json:"items"`
	CreatedAt   *time.Time             `json:"created_at,omitempty"`
	FinalizedAt *time.Time             `json:"finalized_at,omitempty"`
}
