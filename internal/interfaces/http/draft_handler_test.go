package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/application/movement"
	"github.com/jhoicas/graoagrao-estoque/internal/domain"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
	apphttp "github.com/jhoicas/graoagrao-estoque/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

var (
	rice = entity.Item{ID: 10, Description: "Arroz", IsFractionable: true}
	soap = entity.Item{ID: 11, Description: "Jabón"}

	bag5kg = entity.ItemPackaging{ID: 100, Description: "Bolsa 5 kg", Quantity: decimal.NewFromInt(5)}
)

type fakeCatalog struct{}

func (fakeCatalog) GetItem(_ context.Context, _ movement.Credentials, id int64) (*entity.Item, error) {
	switch id {
	case rice.ID:
		it := rice
		return &it, nil
	case soap.ID:
		it := soap
		return &it, nil
	}
	return nil, domain.ErrNotFound
}

func (fakeCatalog) ListItemPackagings(_ context.Context, _ movement.Credentials, itemID int64) ([]entity.ItemPackaging, error) {
	if itemID == rice.ID {
		return []entity.ItemPackaging{bag5kg}, nil
	}
	return []entity.ItemPackaging{}, nil
}

// fakeGateway guarda el último movimiento y lo devuelve con ids asignados.
type fakeGateway struct {
	err       error
	stored    *entity.StockMovement
	lastCreds movement.Credentials
	lastOp    string
}

func (g *fakeGateway) save(creds movement.Credentials, kind entity.MovementKind, id int64, items []dto.MovementItemRequest) (*entity.StockMovement, error) {
	g.lastCreds = creds
	if g.err != nil {
		return nil, g.err
	}
	m := &entity.StockMovement{ID: id, Kind: kind, Status: entity.MovementStatusDraft}
	for i, it := range items {
		l := entity.MovementLine{
			ID:            int64(i + 1),
			Item:          entity.Item{ID: it.ItemID, IsFractionable: len(it.Packagings) > 0},
			TotalQuantity: decimal.NewNullDecimal(it.TotalQuantity),
			Packagings:    []entity.PackagingEntry{},
		}
		for j, p := range it.Packagings {
			l.Packagings = append(l.Packagings, entity.PackagingEntry{
				ID:            int64(j + 1),
				ItemPackaging: entity.ItemPackaging{ID: p.ItemPackagingID, Quantity: decimal.NewFromInt(5)},
				Quantity:      p.Quantity,
			})
		}
		m.Lines = append(m.Lines, l)
	}
	g.stored = m
	return m.Clone(), nil
}

func (g *fakeGateway) Create(_ context.Context, creds movement.Credentials, kind entity.MovementKind, req *dto.CreateMovementRequest) (*entity.StockMovement, error) {
	g.lastOp = "create"
	return g.save(creds, kind, 77, req.Items)
}

func (g *fakeGateway) Update(_ context.Context, creds movement.Credentials, kind entity.MovementKind, req *dto.UpdateMovementRequest) (*entity.StockMovement, error) {
	g.lastOp = "update"
	return g.save(creds, kind, req.ID, req.Items)
}

func (g *fakeGateway) Finalize(_ context.Context, _ movement.Credentials, _ entity.MovementKind, _ int64) (*entity.StockMovement, error) {
	if g.err != nil {
		return nil, g.err
	}
	m := g.stored.Clone()
	m.Status = entity.MovementStatusFinalized
	return m, nil
}

func (g *fakeGateway) Get(_ context.Context, _ movement.Credentials, _ entity.MovementKind, _ int64) (*entity.StockMovement, error) {
	if g.stored == nil {
		return nil, domain.ErrNotFound
	}
	return g.stored.Clone(), nil
}

type fakeSheets struct{}

func (fakeSheets) GenerateSheet(_ context.Context, m *entity.StockMovement) ([]byte, error) {
	return []byte("%PDF-fake " + string(m.Kind)), nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func buildDraftApp(gw *fakeGateway) *fiber.App {
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Drafts:  movement.NewRegistry(gw, zerolog.Nop()),
		Catalog: fakeCatalog{},
		Sheets:  fakeSheets{},
		Log:     zerolog.Nop(),
		Now:     func() time.Time { return testNow },
	})
	return app
}

// call ejecuta la petición como subject en la tienda 7 y devuelve status y cuerpo crudo.
func call(t *testing.T, app *fiber.App, subject, method, path string, body any) (int, []byte) {
	t.Helper()
	return callWith(t, app, tokenFor(t, subject, testNow.Add(time.Hour)), "7", method, path, body)
}

func callWith(t *testing.T, app *fiber.App, authHeader, store, method, path string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader)
	req.Header.Set(apphttp.HeaderStoreID, store)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decodeDraft(t *testing.T, raw []byte) dto.DraftResponse {
	t.Helper()
	var r dto.DraftResponse
	require.NoError(t, json.Unmarshal(raw, &r), string(raw))
	return r
}

func field(name string, value any) fiber.Map {
	return fiber.Map{"field": name, "value": value}
}

// newDraft crea un borrador y devuelve su ruta base.
func newDraft(t *testing.T, app *fiber.App, kind string) string {
	t.Helper()
	status, raw := call(t, app, testSubject, http.MethodPost, "/api/drafts", fiber.Map{"kind": kind})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return "/api/drafts/" + decodeDraft(t, raw).SessionID
}

// fillBalancedRice deja la línea 0 como 10 kg de arroz = 2 bolsas de 5 kg.
func fillBalancedRice(t *testing.T, app *fiber.App, base string) dto.DraftResponse {
	t.Helper()
	steps := []struct {
		path string
		body fiber.Map
	}{
		{base + "/lines/0", field("item", 10)},
		{base + "/lines/0", field("total_quantity", 10)},
		{base + "/lines/0", field("buy_price", "4.5")},
		{base + "/lines/0/packagings/0", field("item_packaging", 100)},
		{base + "/lines/0/packagings/0", field("quantity", 2)},
	}
	var raw []byte
	for _, s := range steps {
		var status int
		status, raw = call(t, app, testSubject, http.MethodPatch, s.path, s.body)
		require.Equal(t, http.StatusOK, status, string(raw))
	}
	return decodeDraft(t, raw)
}

// ──────────────────────────────────────────────────────────────────────────────
// Flujo completo
// ──────────────────────────────────────────────────────────────────────────────

func TestDrafts_CrearEditarGuardarFinalizar(t *testing.T) {
	gw := &fakeGateway{}
	app := buildDraftApp(gw)
	base := newDraft(t, app, "stock_in")

	d := fillBalancedRice(t, app, base)
	assert.Equal(t, "editing", d.State)
	require.Len(t, d.Draft.Items, 1)
	assert.Equal(t, int64(10), d.Draft.Items[0].Item.ID)
	assert.Equal(t, "4.5", d.Draft.Items[0].BuyPrice.String())
	assert.Empty(t, d.UnbalancedLines)

	status, raw := call(t, app, testSubject, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	d = decodeDraft(t, raw)
	assert.Equal(t, "saved", d.State)
	assert.Equal(t, int64(77), d.Draft.ID)
	assert.Nil(t, d.Error)
	assert.Equal(t, int64(7), gw.lastCreds.StoreID, "la tienda del header llega al servidor")
	assert.Equal(t, testSubject, gw.lastCreds.Subject)

	status, raw = call(t, app, testSubject, http.MethodPost, base+"/finalize", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	d = decodeDraft(t, raw)
	assert.Equal(t, "finalized", d.State)
	assert.Equal(t, "finalized", d.Draft.Status)

	status, raw = call(t, app, testSubject, http.MethodPost, base+"/lines", nil)
	assert.Equal(t, http.StatusConflict, status)
	assert.Contains(t, string(raw), "MOVEMENT_FINALIZED")
}

func TestDrafts_AbrirMovimientoGuardado(t *testing.T) {
	gw := &fakeGateway{stored: &entity.StockMovement{
		ID:     55,
		Kind:   entity.MovementKindOut,
		Status: entity.MovementStatusDraft,
		Lines: []entity.MovementLine{{
			ID:            1,
			Item:          soap,
			TotalQuantity: decimal.NewNullDecimal(decimal.NewFromInt(3)),
			Packagings:    []entity.PackagingEntry{},
		}},
	}}
	app := buildDraftApp(gw)

	status, raw := call(t, app, testSubject, http.MethodPost, "/api/drafts", fiber.Map{"kind": "stock_out", "movement_id": 55})
	require.Equal(t, http.StatusCreated, status, string(raw))
	d := decodeDraft(t, raw)
	assert.Equal(t, int64(55), d.Draft.ID)
	assert.Equal(t, "stock_out", d.Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Edición
// ──────────────────────────────────────────────────────────────────────────────

func TestDrafts_ItemNoFraccionableVaciaEmbalajes(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_out")

	status, raw := call(t, app, testSubject, http.MethodPatch, base+"/lines/0", field("item", 11))
	require.Equal(t, http.StatusOK, status, string(raw))
	d := decodeDraft(t, raw)
	assert.Empty(t, d.Draft.Items[0].Packagings)
}

func TestDrafts_LineasDesbalanceadas(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_in")
	fillBalancedRice(t, app, base)

	status, raw := call(t, app, testSubject, http.MethodPatch, base+"/lines/0", field("total_quantity", 11))
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []int{0}, decodeDraft(t, raw).UnbalancedLines)
}

func TestDrafts_AgregarYQuitarLineasYEmbalajes(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_in")

	_, raw := call(t, app, testSubject, http.MethodPost, base+"/lines", nil)
	assert.Len(t, decodeDraft(t, raw).Draft.Items, 2)

	_, raw = call(t, app, testSubject, http.MethodPost, base+"/lines/1/packagings", nil)
	assert.Len(t, decodeDraft(t, raw).Draft.Items[1].Packagings, 2)

	_, raw = call(t, app, testSubject, http.MethodDelete, base+"/lines/1/packagings/0", nil)
	assert.Len(t, decodeDraft(t, raw).Draft.Items[1].Packagings, 1)

	_, raw = call(t, app, testSubject, http.MethodDelete, base+"/lines/0", nil)
	assert.Len(t, decodeDraft(t, raw).Draft.Items, 1)

	status, raw := call(t, app, testSubject, http.MethodDelete, base+"/lines/4", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "INDEX_OUT_OF_RANGE")
}

func TestDrafts_Reset(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_in")
	fillBalancedRice(t, app, base)

	status, raw := call(t, app, testSubject, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, status)
	d := decodeDraft(t, raw)
	require.Len(t, d.Draft.Items, 1)
	assert.Zero(t, d.Draft.Items[0].Item.ID)
}

func TestDrafts_ErroresDeEdicion(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_out")

	cases := []struct {
		name       string
		path       string
		body       fiber.Map
		wantStatus int
		wantCode   string
	}{
		{"campo desconocido", base + "/lines/0", field("color", 1), http.StatusBadRequest, "INVALID_FIELD"},
		{"precio en salida", base + "/lines/0", field("buy_price", 3), http.StatusBadRequest, "INVALID_FIELD"},
		{"ítem inexistente", base + "/lines/0", field("item", 999), http.StatusNotFound, "NOT_FOUND"},
		{"id de ítem no numérico", base + "/lines/0", field("item", "arroz"), http.StatusBadRequest, "INVALID_FIELD"},
		{"embalaje sin ítem en la línea", base + "/lines/0/packagings/0", field("item_packaging", 100), http.StatusBadRequest, "INVALID_FIELD"},
		{"cantidad nula", base + "/lines/0/packagings/0", field("quantity", nil), http.StatusBadRequest, "INVALID_FIELD"},
		{"índice no numérico", base + "/lines/x", field("total_quantity", 1), http.StatusBadRequest, "INDEX_OUT_OF_RANGE"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, raw := call(t, app, testSubject, http.MethodPatch, tc.path, tc.body)
			assert.Equal(t, tc.wantStatus, status, string(raw))
			assert.Contains(t, string(raw), tc.wantCode)
		})
	}
}

func TestDrafts_EmbalajeDeOtroItem(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_in")
	status, _ := call(t, app, testSubject, http.MethodPatch, base+"/lines/0", field("item", 10))
	require.Equal(t, http.StatusOK, status)

	status, raw := call(t, app, testSubject, http.MethodPatch, base+"/lines/0/packagings/0", field("item_packaging", 555))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "INVALID_FIELD")
}

// ──────────────────────────────────────────────────────────────────────────────
// Envío con error
// ──────────────────────────────────────────────────────────────────────────────

func TestDrafts_SubmitValidacionFallida(t *testing.T) {
	gw := &fakeGateway{}
	app := buildDraftApp(gw)
	base := newDraft(t, app, "stock_in")

	status, raw := call(t, app, testSubject, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	d := decodeDraft(t, raw)
	assert.Equal(t, "validation_failed", d.State)
	require.NotNil(t, d.Error)
	assert.Equal(t, "MISSING_ITEM_ID", d.Error.Code)
	assert.Equal(t, "Seleccione el ítem de cada línea.", d.Error.Message)
	assert.Nil(t, gw.stored, "no se llama al servidor")

	// El error persiste al consultar el borrador.
	_, raw = call(t, app, testSubject, http.MethodGet, base, nil)
	d = decodeDraft(t, raw)
	require.NotNil(t, d.Error)
	assert.Equal(t, "MISSING_ITEM_ID", d.Error.Code)
}

func TestDrafts_SubmitRechazadoPorServidor(t *testing.T) {
	gw := &fakeGateway{err: domain.ErrTotalQuantityMismatch}
	app := buildDraftApp(gw)
	base := newDraft(t, app, "stock_in")
	fillBalancedRice(t, app, base)

	status, raw := call(t, app, testSubject, http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	d := decodeDraft(t, raw)
	assert.Equal(t, "server_rejected", d.State)
	require.NotNil(t, d.Error)
	assert.Equal(t, "TOTAL_QUANTITY_MISMATCH", d.Error.Code)
	assert.Equal(t, int64(10), d.Draft.Items[0].Item.ID, "el borrador queda intacto")
}

func TestDrafts_FinalizarSinGuardar(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_in")

	status, raw := call(t, app, testSubject, http.MethodPost, base+"/finalize", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "MISSING_MOVEMENT_ID", decodeDraft(t, raw).Error.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesiones y PDF
// ──────────────────────────────────────────────────────────────────────────────

func TestDrafts_TipoInvalido(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	status, raw := call(t, app, testSubject, http.MethodPost, "/api/drafts", fiber.Map{"kind": "transfer"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "VALIDATION")
}

func TestDrafts_SesionDeOtroUsuario(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_in")

	status, _ := call(t, app, "bruno", http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = call(t, app, "bruno", http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

// Un borrador armado en la tienda 7 no se puede enviar desde otra tienda.
func TestDrafts_CambioDeTiendaNoAlcanzaLaSesion(t *testing.T) {
	gw := &fakeGateway{}
	app := buildDraftApp(gw)
	base := newDraft(t, app, "stock_in")
	fillBalancedRice(t, app, base)
	auth := tokenFor(t, testSubject, testNow.Add(time.Hour))

	status, raw := callWith(t, app, auth, "8", http.MethodPost, base+"/submit", nil)
	assert.Equal(t, http.StatusNotFound, status, string(raw))
	assert.Nil(t, gw.stored, "no se llama al servidor")
	status, _ = callWith(t, app, auth, "8", http.MethodPatch, base+"/lines/0", field("total_quantity", 20))
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = callWith(t, app, auth, "8", http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, raw = callWith(t, app, auth, "7", http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, int64(7), gw.lastCreds.StoreID)
	assert.Equal(t, "10", decodeDraft(t, raw).Draft.Items[0].TotalQuantity.String())
}

// Un token con el mismo sujeto pero otra firma no ve los borradores ajenos.
func TestDrafts_TokenFabricadoNoAlcanzaLaSesion(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_in")
	forged := tokenSignedWith(t, "clave-adivinada", testSubject, testNow.Add(time.Hour))

	status, _ := callWith(t, app, forged, "7", http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = callWith(t, app, forged, "7", http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = call(t, app, testSubject, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusOK, status)
}

// Reset de un movimiento guardado: el próximo envío actualiza el mismo id.
func TestDrafts_ResetDeGuardadoActualiza(t *testing.T) {
	gw := &fakeGateway{}
	app := buildDraftApp(gw)
	base := newDraft(t, app, "stock_in")
	fillBalancedRice(t, app, base)
	status, _ := call(t, app, testSubject, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, status)

	status, raw := call(t, app, testSubject, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(77), decodeDraft(t, raw).Draft.ID)

	fillBalancedRice(t, app, base)
	status, raw = call(t, app, testSubject, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "update", gw.lastOp)
	assert.Equal(t, int64(77), decodeDraft(t, raw).Draft.ID)
}

func TestDrafts_Descartar(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_out")

	status, _ := call(t, app, testSubject, http.MethodDelete, base, nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = call(t, app, testSubject, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDrafts_HojaPDF(t *testing.T) {
	app := buildDraftApp(&fakeGateway{})
	base := newDraft(t, app, "stock_out")

	req := httptest.NewRequest(http.MethodGet, base+"/sheet.pdf", nil)
	req.Header.Set("Authorization", tokenFor(t, testSubject, testNow.Add(time.Hour)))
	req.Header.Set(apphttp.HeaderStoreID, "7")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "borrador.pdf")
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, "%PDF-fake stock_out", string(body))
}
