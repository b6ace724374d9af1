package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrUpstreamUnavailable = errors.New("servicio de inventario no disponible")
)

// Errores de validación del borrador (se detectan antes de enviar la solicitud).
var (
	ErrNoItems                  = errors.New("el movimiento no tiene ítems")
	ErrMissingMovementID        = errors.New("falta el id del movimiento")
	ErrMissingItemID            = errors.New("falta el id del ítem")
	ErrInvalidBuyPrice          = errors.New("precio de compra inválido")
	ErrInvalidTotalQuantity     = errors.New("cantidad total inválida")
	ErrNonFractionablePackaging = errors.New("ítem no fraccionable con embalajes")
	ErrMissingPackagings        = errors.New("ítem fraccionable sin embalajes")
	ErrMissingPackagingID       = errors.New("falta el id del embalaje")
	ErrInvalidPackagingQuantity = errors.New("cantidad de embalaje inválida")
)

// Errores del editor y de la sesión de edición.
var (
	ErrMovementFinalized  = errors.New("el movimiento ya fue finalizado")
	ErrIndexOutOfRange    = errors.New("índice fuera de rango")
	ErrInvalidField       = errors.New("campo o valor inválido")
	ErrUnsavedChanges     = errors.New("hay cambios sin guardar")
	ErrSubmissionInFlight = errors.New("hay un envío en curso")
)

// Rechazos del servidor identificados por internal_code.
var (
	ErrTotalQuantityMismatch = errors.New("la cantidad total no coincide con los embalajes")
	ErrReferencedEntity      = errors.New("el registro está referenciado por otros datos")
	ErrDatabase              = errors.New("error de base de datos en el servidor")
)

// ValidationError ubica una falla de validación dentro del borrador.
// Line y Packaging valen -1 cuando no aplican.
type ValidationError struct {
	Line      int
	Packaging int
	Err       error
}

// NewLineError crea un error a nivel de línea.
func NewLineError(line int, err error) *ValidationError {
	return &ValidationError{Line: line, Packaging: -1, Err: err}
}

// NewPackagingError crea un error a nivel de embalaje.
func NewPackagingError(line, packaging int, err error) *ValidationError {
	return &ValidationError{Line: line, Packaging: packaging, Err: err}
}

func (e *ValidationError) Error() string {
	switch {
	case e.Packaging >= 0:
		return fmt.Sprintf("línea %d, embalaje %d: %v", e.Line, e.Packaging, e.Err)
	case e.Line >= 0:
		return fmt.Sprintf("línea %d: %v", e.Line, e.Err)
	default:
		return e.Err.Error()
	}
}

func (e *ValidationError) Unwrap() error { return e.Err }
