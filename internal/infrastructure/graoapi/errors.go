package graoapi

import (
	"fmt"
	"net/http"

	"github.com/jhoicas/graoagrao-estoque/internal/domain"
)

// InternalCode código de error de negocio que devuelve la API de inventario en
// el campo internal_code.
type InternalCode string

const (
	CodeStockInTotalQuantityWrong  InternalCode = "STOCK_IN_TOTAL_QUANTITY_WRONG"
	CodeStockOutTotalQuantityWrong InternalCode = "STOCK_OUT_TOTAL_QUANTITY_WRONG"
	CodeDeleteReferencedEntity     InternalCode = "DELETE_REFERENCED_ENTITY"
	CodeGenericDatabaseError       InternalCode = "GENERIC_DATABASE_ERROR"
	CodeUnknown                    InternalCode = "UNKNOWN"
)

// ParseInternalCode decodifica el código; cualquier valor fuera del conjunto es CodeUnknown.
func ParseInternalCode(s string) InternalCode {
	switch c := InternalCode(s); c {
	case CodeStockInTotalQuantityWrong,
		CodeStockOutTotalQuantityWrong,
		CodeDeleteReferencedEntity,
		CodeGenericDatabaseError:
		return c
	default:
		return CodeUnknown
	}
}

// ServerError respuesta de error (4xx/5xx) de la API de inventario.
type ServerError struct {
	Status  int
	Code    InternalCode
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api de inventario: status %d (%s)", e.Status, e.Code)
	}
	return fmt.Sprintf("api de inventario: status %d (%s): %s", e.Status, e.Code, e.Message)
}

// Unwrap relaciona el error con los sentinels de dominio: primero por
// internal_code y, si es desconocido, por status HTTP. nil si no hay equivalente.
func (e *ServerError) Unwrap() error {
	switch e.Code {
	case CodeStockInTotalQuantityWrong, CodeStockOutTotalQuantityWrong:
		return domain.ErrTotalQuantityMismatch
	case CodeDeleteReferencedEntity:
		return domain.ErrReferencedEntity
	case CodeGenericDatabaseError:
		return domain.ErrDatabase
	}
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return domain.ErrUpstreamUnavailable
	}
	return nil
}
