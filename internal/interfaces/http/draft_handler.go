package http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/application/movement"
	"github.com/jhoicas/graoagrao-estoque/internal/domain"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/inventory"
)

// SheetRenderer genera la hoja de conferencia en PDF.
type SheetRenderer interface {
	GenerateSheet(ctx context.Context, m *entity.StockMovement) ([]byte, error)
}

// DraftHandler expone a la interfaz las sesiones de edición de entradas y salidas.
type DraftHandler struct {
	drafts  *movement.Registry
	catalog movement.Catalog
	sheets  SheetRenderer
	log     zerolog.Logger
}

// NewDraftHandler construye el handler.
func NewDraftHandler(drafts *movement.Registry, catalog movement.Catalog, sheets SheetRenderer, log zerolog.Logger) *DraftHandler {
	return &DraftHandler{
		drafts:  drafts,
		catalog: catalog,
		sheets:  sheets,
		log:     log.With().Str("component", "http").Logger(),
	}
}

// Create godoc
// @Summary      Abrir borrador de entrada o salida
// @Description  Sin movement_id crea un borrador vacío; con movement_id abre un movimiento guardado.
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        X-Store-ID  header  int                     true  "Tienda"
// @Param        body        body    dto.CreateDraftRequest  true  "kind: stock_in | stock_out"
// @Success      201  {object}  dto.DraftResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts [post]
func (h *DraftHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDraftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	kind := entity.MovementKind(in.Kind)

	var (
		s   *movement.Session
		err error
	)
	if in.MovementID > 0 {
		s, err = h.drafts.Open(c.UserContext(), credentials(c), kind, in.MovementID)
	} else {
		s, err = h.drafts.Create(credentials(c), kind)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(draftResponse(s.Snapshot()))
}

// Get godoc
// @Summary      Estado del borrador
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Id de sesión"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(draftResponse(s.Snapshot()))
}

// Discard descarta la sesión sin enviar nada al servidor.
func (h *DraftHandler) Discard(c *fiber.Ctx) error {
	if err := h.drafts.Discard(credentials(c), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Reset vuelve a una línea vacía; un movimiento guardado conserva su id.
func (h *DraftHandler) Reset(c *fiber.Ctx) error {
	return h.edit(c, func(e *movement.Editor) error {
		e.Reset()
		return nil
	})
}

// AddLine agrega una línea vacía.
func (h *DraftHandler) AddLine(c *fiber.Ctx) error {
	return h.edit(c, func(e *movement.Editor) error { return e.AddLine() })
}

// RemoveLine quita la línea :line.
func (h *DraftHandler) RemoveLine(c *fiber.Ctx) error {
	line, err := indexParam(c, "line")
	if err != nil {
		return writeError(c, err)
	}
	return h.edit(c, func(e *movement.Editor) error { return e.RemoveLine(line) })
}

// SetLineField godoc
// @Summary      Editar un campo de la línea
// @Description  field: item (value = id de ítem), total_quantity o buy_price (value = número o null).
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "Id de sesión"
// @Param        line  path  int                  true  "Índice de la línea"
// @Param        body  body  dto.SetFieldRequest  true  "Campo y valor"
// @Success      200  {object}  dto.DraftResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/lines/{line} [patch]
func (h *DraftHandler) SetLineField(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	line, err := indexParam(c, "line")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SetFieldRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	field := movement.LineField(in.Field)
	var value any
	switch field {
	case movement.LineFieldItem:
		id, err := idValue(in.Value)
		if err != nil {
			return writeError(c, err)
		}
		item, err := h.catalog.GetItem(c.UserContext(), credentials(c), id)
		if err != nil {
			return writeError(c, err)
		}
		value = *item
	case movement.LineFieldTotalQuantity, movement.LineFieldBuyPrice:
		d, err := decimalValue(in.Value)
		if err != nil {
			return writeError(c, err)
		}
		value = d
	default:
		return writeError(c, fmt.Errorf("%w: %q", domain.ErrInvalidField, in.Field))
	}

	if err := s.Edit(func(e *movement.Editor) error { return e.SetLineField(line, field, value) }); err != nil {
		return writeError(c, err)
	}
	return c.JSON(draftResponse(s.Snapshot()))
}

// AddPackaging agrega un embalaje vacío (cantidad 1) a la línea.
func (h *DraftHandler) AddPackaging(c *fiber.Ctx) error {
	line, err := indexParam(c, "line")
	if err != nil {
		return writeError(c, err)
	}
	return h.edit(c, func(e *movement.Editor) error { return e.AddPackaging(line) })
}

// RemovePackaging quita el embalaje :pkg de la línea.
func (h *DraftHandler) RemovePackaging(c *fiber.Ctx) error {
	line, err := indexParam(c, "line")
	if err != nil {
		return writeError(c, err)
	}
	pkg, err := indexParam(c, "pkg")
	if err != nil {
		return writeError(c, err)
	}
	return h.edit(c, func(e *movement.Editor) error { return e.RemovePackaging(line, pkg) })
}

// SetPackagingField godoc
// @Summary      Editar un embalaje de la línea
// @Description  field: item_packaging (value = id de un embalaje del ítem de la línea) o quantity (value = número).
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true  "Id de sesión"
// @Param        line  path  int                  true  "Índice de la línea"
// @Param        pkg   path  int                  true  "Índice del embalaje"
// @Param        body  body  dto.SetFieldRequest  true  "Campo y valor"
// @Success      200  {object}  dto.DraftResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/lines/{line}/packagings/{pkg} [patch]
func (h *DraftHandler) SetPackagingField(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	line, err := indexParam(c, "line")
	if err != nil {
		return writeError(c, err)
	}
	pkg, err := indexParam(c, "pkg")
	if err != nil {
		return writeError(c, err)
	}
	var in dto.SetFieldRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	field := movement.PackagingField(in.Field)
	var value any
	switch field {
	case movement.PackagingFieldItemPackaging:
		id, err := idValue(in.Value)
		if err != nil {
			return writeError(c, err)
		}
		p, err := h.lookupPackaging(c, s, line, id)
		if err != nil {
			return writeError(c, err)
		}
		value = p
	case movement.PackagingFieldQuantity:
		d, err := decimalValue(in.Value)
		if err != nil {
			return writeError(c, err)
		}
		value = d
	default:
		return writeError(c, fmt.Errorf("%w: %q", domain.ErrInvalidField, in.Field))
	}

	if err := s.Edit(func(e *movement.Editor) error { return e.SetPackagingField(line, pkg, field, value) }); err != nil {
		return writeError(c, err)
	}
	return c.JSON(draftResponse(s.Snapshot()))
}

// Submit godoc
// @Summary      Guardar borrador
// @Description  Valida y crea (sin id) o actualiza (con id) el movimiento en la API de inventario.
// @Description  En caso de error responde el estado del borrador con el error en "error".
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Id de sesión"
// @Success      200  {object}  dto.DraftResponse
// @Failure      409  {object}  dto.DraftResponse
// @Failure      422  {object}  dto.DraftResponse
// @Failure      502  {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/submit [post]
func (h *DraftHandler) Submit(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	return h.respondAfter(c, s, s.Submit(c.UserContext(), credentials(c)))
}

// Finalize godoc
// @Summary      Finalizar movimiento guardado
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Id de sesión"
// @Success      200  {object}  dto.DraftResponse
// @Failure      409  {object}  dto.DraftResponse
// @Failure      422  {object}  dto.DraftResponse
// @Router       /api/drafts/{id}/finalize [post]
func (h *DraftHandler) Finalize(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	return h.respondAfter(c, s, s.Finalize(c.UserContext(), credentials(c)))
}

// Sheet godoc
// @Summary      Hoja de conferencia en PDF
// @Tags         drafts
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "Id de sesión"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/sheet.pdf [get]
func (h *DraftHandler) Sheet(c *fiber.Ctx) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	snap := s.Snapshot()
	pdfBytes, err := h.sheets.GenerateSheet(c.UserContext(), snap.Draft)
	if err != nil {
		h.log.Error().Err(err).Str("session_id", snap.ID).Msg("generar hoja de conferencia")
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "PDF_ERROR", Message: "no fue posible generar la hoja"})
	}

	name := "borrador"
	if snap.Draft.ID != 0 {
		name = fmt.Sprintf("%s-%d", snap.Kind, snap.Draft.ID)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", name+".pdf"))
	return c.Send(pdfBytes)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// session busca la sesión :id; solo la ve el mismo token en la misma tienda.
func (h *DraftHandler) session(c *fiber.Ctx) (*movement.Session, error) {
	return h.drafts.Get(credentials(c), c.Params("id"))
}

func (h *DraftHandler) edit(c *fiber.Ctx, fn func(e *movement.Editor) error) error {
	s, err := h.session(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := s.Edit(fn); err != nil {
		return writeError(c, err)
	}
	return c.JSON(draftResponse(s.Snapshot()))
}

// respondAfter responde tras un envío: el estado del borrador siempre viaja en
// el cuerpo; si hubo error, con el status mapeado y el error en "error".
func (h *DraftHandler) respondAfter(c *fiber.Ctx, s *movement.Session, err error) error {
	snap := s.Snapshot()
	resp := draftResponse(snap)
	if err == nil {
		return c.JSON(resp)
	}
	status, body := mapError(err)
	resp.Error = &body
	return c.Status(status).JSON(resp)
}

// lookupPackaging busca id entre los embalajes del ítem de la línea.
func (h *DraftHandler) lookupPackaging(c *fiber.Ctx, s *movement.Session, line int, id int64) (entity.ItemPackaging, error) {
	lines := s.Snapshot().Draft.Lines
	if line < 0 || line >= len(lines) {
		return entity.ItemPackaging{}, fmt.Errorf("%w: línea %d", domain.ErrIndexOutOfRange, line)
	}
	itemID := lines[line].Item.ID
	if itemID == 0 {
		return entity.ItemPackaging{}, fmt.Errorf("%w: la línea no tiene ítem", domain.ErrInvalidField)
	}
	list, err := h.catalog.ListItemPackagings(c.UserContext(), credentials(c), itemID)
	if err != nil {
		return entity.ItemPackaging{}, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, nil
		}
	}
	return entity.ItemPackaging{}, fmt.Errorf("%w: embalaje %d no pertenece al ítem %d", domain.ErrInvalidField, id, itemID)
}

func draftResponse(snap movement.Snapshot) dto.DraftResponse {
	unbalanced := inventory.UnbalancedLines(snap.Draft)
	if unbalanced == nil {
		unbalanced = []int{}
	}
	r := dto.DraftResponse{
		SessionID:       snap.ID,
		Kind:            string(snap.Kind),
		State:           string(snap.State),
		Draft:           movement.ToResponse(snap.Draft),
		UnbalancedLines: unbalanced,
	}
	if snap.LastErr != nil {
		_, body := mapError(snap.LastErr)
		r.Error = &body
	}
	return r
}

func indexParam(c *fiber.Ctx, name string) (int, error) {
	i, err := c.ParamsInt(name)
	if err != nil {
		return 0, fmt.Errorf("%w: %s no es un índice", domain.ErrIndexOutOfRange, name)
	}
	return i, nil
}

func idValue(raw json.RawMessage) (int64, error) {
	var id int64
	if err := json.Unmarshal(raw, &id); err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: se esperaba un id", domain.ErrInvalidField)
	}
	return id, nil
}

// decimalValue acepta número, string numérico o null (campo vacío).
func decimalValue(raw json.RawMessage) (decimal.NullDecimal, error) {
	var d decimal.NullDecimal
	if len(raw) == 0 {
		return d, nil
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		return d, fmt.Errorf("%w: se esperaba un número", domain.ErrInvalidField)
	}
	return d, nil
}
