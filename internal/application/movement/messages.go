package movement

import (
	"errors"

	"github.com/jhoicas/graoagrao-estoque/internal/domain"
)

const genericMessage = "No fue posible completar la operación. Intente nuevamente."

// messages mensaje para el usuario por cada error conocido, en orden de prioridad.
var messages = []struct {
	err error
	msg string
}{
	{domain.ErrNoItems, "Agregue al menos un ítem al movimiento."},
	{domain.ErrMissingMovementID, "El movimiento aún no fue guardado."},
	{domain.ErrMissingItemID, "Seleccione el ítem de cada línea."},
	{domain.ErrInvalidBuyPrice, "El precio de compra debe ser mayor que cero."},
	{domain.ErrInvalidTotalQuantity, "La cantidad total debe ser mayor que cero."},
	{domain.ErrNonFractionablePackaging, "Un ítem no fraccionable no admite embalajes."},
	{domain.ErrMissingPackagings, "Un ítem fraccionable necesita al menos un embalaje."},
	{domain.ErrMissingPackagingID, "Seleccione el embalaje de cada fila."},
	{domain.ErrInvalidPackagingQuantity, "La cantidad de cada embalaje debe ser mayor que cero."},
	{domain.ErrTotalQuantityMismatch, "La cantidad total no coincide con la suma de los embalajes."},
	{domain.ErrReferencedEntity, "El registro está en uso y no puede eliminarse."},
	{domain.ErrDatabase, "El servidor no pudo guardar los datos."},
	{domain.ErrMovementFinalized, "El movimiento ya fue finalizado y no admite cambios."},
	{domain.ErrUnsavedChanges, "Guarde los cambios antes de finalizar."},
	{domain.ErrSubmissionInFlight, "Espere a que termine el envío en curso."},
	{domain.ErrIndexOutOfRange, "La fila indicada no existe."},
	{domain.ErrInvalidField, "Valor inválido para el campo."},
	{domain.ErrNotFound, "Registro no encontrado."},
	{domain.ErrUnauthorized, "Su sesión expiró. Ingrese nuevamente."},
	{domain.ErrUpstreamUnavailable, "No fue posible comunicarse con el servidor."},
}

// UserMessage traduce un error a un mensaje para el usuario; genérico si no se reconoce.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	for _, m := range messages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return genericMessage
}
