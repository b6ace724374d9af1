package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/graoagrao-estoque/internal/application/movement"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Drafts  *movement.Registry
	Catalog movement.Catalog
	Sheets  SheetRenderer
	Log     zerolog.Logger
	Now     func() time.Time // reloj para el vencimiento del token; nil = time.Now
}

// Router registra las rutas del BFF. Todas exigen Bearer Token y X-Store-ID.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.Now), RequireStore())

	drafts := api.Group("/drafts")
	h := NewDraftHandler(deps.Drafts, deps.Catalog, deps.Sheets, deps.Log)

	drafts.Post("/", h.Create)
	drafts.Get("/:id", h.Get)
	drafts.Delete("/:id", h.Discard)
	drafts.Post("/:id/reset", h.Reset)
	drafts.Post("/:id/submit", h.Submit)
	drafts.Post("/:id/finalize", h.Finalize)
	drafts.Get("/:id/sheet.pdf", h.Sheet)

	// Líneas y embalajes
	drafts.Post("/:id/lines", h.AddLine)
	drafts.Patch("/:id/lines/:line", h.SetLineField)
	drafts.Delete("/:id/lines/:line", h.RemoveLine)
	drafts.Post("/:id/lines/:line/packagings", h.AddPackaging)
	drafts.Patch("/:id/lines/:line/packagings/:pkg", h.SetPackagingField)
	drafts.Delete("/:id/lines/:line/packagings/:pkg", h.RemovePackaging)
}
