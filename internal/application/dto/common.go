package dto

import "github.com/shopspring/decimal"

// La API de inventario espera números JSON, no strings, para cantidades y precios.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// UpstreamErrorEnvelope cuerpo de error devuelto por la API de inventario.
type UpstreamErrorEnvelope struct {
	Message      string `json:"message"`
	InternalCode string `json:"internal_code"`
}
