package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/application/movement"
	"github.com/jhoicas/graoagrao-estoque/internal/domain"
)

// errorStatus status HTTP y código por error de dominio, en orden de prioridad.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrNoItems, fiber.StatusUnprocessableEntity, "NO_ITEMS"},
	{domain.ErrMissingMovementID, fiber.StatusUnprocessableEntity, "MISSING_MOVEMENT_ID"},
	{domain.ErrMissingItemID, fiber.StatusUnprocessableEntity, "MISSING_ITEM_ID"},
	{domain.ErrInvalidBuyPrice, fiber.StatusUnprocessableEntity, "INVALID_BUY_PRICE"},
	{domain.ErrInvalidTotalQuantity, fiber.StatusUnprocessableEntity, "INVALID_TOTAL_QUANTITY"},
	{domain.ErrNonFractionablePackaging, fiber.StatusUnprocessableEntity, "NON_FRACTIONABLE_PACKAGING"},
	{domain.ErrMissingPackagings, fiber.StatusUnprocessableEntity, "MISSING_PACKAGINGS"},
	{domain.ErrMissingPackagingID, fiber.StatusUnprocessableEntity, "MISSING_PACKAGING_ID"},
	{domain.ErrInvalidPackagingQuantity, fiber.StatusUnprocessableEntity, "INVALID_PACKAGING_QUANTITY"},
	{domain.ErrTotalQuantityMismatch, fiber.StatusUnprocessableEntity, "TOTAL_QUANTITY_MISMATCH"},
	{domain.ErrReferencedEntity, fiber.StatusConflict, "REFERENCED_ENTITY"},
	{domain.ErrDatabase, fiber.StatusBadGateway, "UPSTREAM_DATABASE"},
	{domain.ErrMovementFinalized, fiber.StatusConflict, "MOVEMENT_FINALIZED"},
	{domain.ErrUnsavedChanges, fiber.StatusConflict, "UNSAVED_CHANGES"},
	{domain.ErrSubmissionInFlight, fiber.StatusConflict, "SUBMISSION_IN_FLIGHT"},
	{domain.ErrIndexOutOfRange, fiber.StatusBadRequest, "INDEX_OUT_OF_RANGE"},
	{domain.ErrInvalidField, fiber.StatusBadRequest, "INVALID_FIELD"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrUpstreamUnavailable, fiber.StatusBadGateway, "UPSTREAM_UNAVAILABLE"},
}

// mapError traduce un error al status HTTP y al cuerpo {code, message}.
func mapError(err error) (int, dto.ErrorResponse) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			return e.status, dto.ErrorResponse{Code: e.code, Message: movement.UserMessage(err)}
		}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: movement.UserMessage(err)}
}

func writeError(c *fiber.Ctx, err error) error {
	status, body := mapError(err)
	return c.Status(status).JSON(body)
}
