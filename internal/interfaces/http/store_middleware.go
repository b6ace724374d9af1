package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/application/movement"
)

// Header y Locals key de la tienda seleccionada en la interfaz.
const (
	HeaderStoreID = "X-Store-ID"
	LocalStoreID  = "store_id"
)

// RequireStore exige el header X-Store-ID con un id de tienda válido y lo carga
// en c.Locals. Debe usarse DESPUÉS de AuthMiddleware.
func RequireStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Get(HeaderStoreID)
		if raw == "" {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "MISSING_STORE",
				Message: "header " + HeaderStoreID + " requerido",
			})
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Code:    "INVALID_STORE",
				Message: "id de tienda inválido",
			})
		}
		c.Locals(LocalStoreID, id)
		return c.Next()
	}
}

// GetStoreID devuelve la tienda del contexto (después de RequireStore).
func GetStoreID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalStoreID).(int64)
	return id
}

// credentials arma lo que se reenvía a la API de inventario.
func credentials(c *fiber.Ctx) movement.Credentials {
	return movement.Credentials{
		Token:   GetToken(c),
		StoreID: GetStoreID(c),
		Subject: GetSubject(c),
	}
}
