// Package pdf genera la hoja de conferencia de un movimiento de stock: el
// documento impreso con el que se cuentan físicamente los embalajes.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de movimiento + N°  │  Estado + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ítem | Cantidad | Embalajes | Balance | (Precio/Costo)│
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: líneas, descuadres, costo total (entradas)         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: firmas de conferencia                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 46, Green: 94, Blue: 52}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 178, Green: 34, Blue: 34}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// SheetGenerator arma la hoja de conferencia con Maroto v2. Los números se
// imprimen en formato pt-BR (1.234,5).
type SheetGenerator struct {
	printer *message.Printer
	now     func() time.Time
}

// NewSheetGenerator construye el generador.
func NewSheetGenerator() *SheetGenerator {
	return &SheetGenerator{
		printer: message.NewPrinter(language.BrazilianPortuguese),
		now:     time.Now,
	}
}

// GenerateSheet genera el PDF del movimiento y devuelve sus bytes.
func (g *SheetGenerator) GenerateSheet(_ context.Context, m *entity.StockMovement) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(kindTitle(m.Kind), true).
		Build()

	doc := maroto.New(cfg)

	doc.AddRows(g.headerRow(m))
	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	cols := columnsFor(m.Kind)
	doc.AddRows(tableHeaderRow(cols))
	doc.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	for i, l := range m.Lines {
		doc.AddRows(g.lineRow(cols, i, l))
	}

	doc.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	doc.AddRows(g.summaryRow(m))
	doc.AddRows(row.New(12))
	doc.AddRows(signatureRow())

	out, err := doc.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar hoja de conferencia: %w", err)
	}
	return out.GetBytes(), nil
}

// ── Columnas ──────────────────────────────────────────────────────────────────

type column struct {
	label string
	size  int
	align align.Type
}

// columnsFor: las entradas agregan precio de compra y costo; las salidas no.
func columnsFor(kind entity.MovementKind) []column {
	if kind == entity.MovementKindIn {
		return []column{
			{"Ítem", 3, align.Left},
			{"Cantidad", 2, align.Right},
			{"Embalajes", 3, align.Left},
			{"Balance", 1, align.Center},
			{"P. compra", 1, align.Right},
			{"Costo", 2, align.Right},
		}
	}
	return []column{
		{"Ítem", 4, align.Left},
		{"Cantidad", 2, align.Right},
		{"Embalajes", 4, align.Left},
		{"Balance", 2, align.Center},
	}
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: tipo y número (izq), estado y fecha (der).
func (g *SheetGenerator) headerRow(m *entity.StockMovement) core.Row {
	ref := "Borrador sin guardar"
	if m.ID != 0 {
		ref = fmt.Sprintf("N° %d", m.ID)
	}
	status := "BORRADOR"
	if m.IsFinalized() {
		status = "FINALIZADO"
	}

	return row.New(16).Add(
		col.New(7).Add(
			text.New(strings.ToUpper(kindTitle(m.Kind)), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(ref, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New(status, props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Fecha: "+g.sheetDate(m).Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow(cols []column) core.Row {
	r := row.New(7)
	for _, c := range cols {
		r.Add(col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align,
			Color: colorPrimary, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	return r
}

// lineRow: una fila por línea del movimiento.
func (g *SheetGenerator) lineRow(cols []column, i int, l entity.MovementLine) core.Row {
	values := []string{
		fmt.Sprintf("%d. %s", i+1, nonEmpty(l.Item.Description, "(sin ítem)")),
		g.quantity(l.TotalQuantity, l.Item.UnitOfMeasure.Abbreviation),
		g.packagings(l),
	}

	balance, balanceColor := "—", colorGray
	if l.Item.IsFractionable {
		if inventory.IsBalanced(l) {
			balance, balanceColor = "OK", colorPrimary
		} else {
			balance, balanceColor = "Descuadre", colorAlert
		}
	}
	values = append(values, balance)

	if len(cols) > 4 {
		values = append(values, g.moneyNull(l.BuyPrice), g.money(inventory.LineCost(l)))
	}

	r := row.New(rowHeight(len(l.Packagings)))
	for j, c := range cols {
		p := props.Text{Size: 8, Align: c.align, Top: 1, Left: 1, Right: 1}
		if j == 3 {
			p.Style = fontstyle.Bold
			p.Color = balanceColor
		}
		r.Add(col.New(c.size).Add(text.New(values[j], p)))
	}
	return r
}

// summaryRow: totales del movimiento alineados a la derecha.
func (g *SheetGenerator) summaryRow(m *entity.StockMovement) core.Row {
	unbalanced := len(inventory.UnbalancedLines(m))

	labels := []string{"Líneas:", "Descuadres:"}
	values := []string{fmt.Sprint(len(m.Lines)), fmt.Sprint(unbalanced)}
	if m.Kind == entity.MovementKindIn {
		labels = append(labels, "COSTO TOTAL:")
		values = append(values, g.money(inventory.MovementCost(m)))
	}

	left := col.New(3)
	right := col.New(3)
	for i := range labels {
		top := float64(i) * 6
		left.Add(text.New(labels[i], props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top,
		}))
		right.Add(text.New(values[i], props.Text{
			Size: 9, Align: align.Right, Right: 1, Top: top,
		}))
	}
	return row.New(float64(len(labels))*6+2).Add(col.New(6), left, right)
}

func signatureRow() core.Row {
	sign := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{Size: 9, Align: align.Center}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 5, Color: colorGray}),
		)
	}
	return row.New(14).Add(sign("Conferido por"), sign("Responsable del depósito"))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func kindTitle(kind entity.MovementKind) string {
	if kind == entity.MovementKindIn {
		return "Entrada de stock"
	}
	return "Salida de stock"
}

func (g *SheetGenerator) sheetDate(m *entity.StockMovement) time.Time {
	switch {
	case m.FinalizedAt != nil:
		return *m.FinalizedAt
	case m.CreatedAt != nil:
		return *m.CreatedAt
	default:
		return g.now()
	}
}

// packagings: "2 × Bolsa 5 kg" por embalaje, uno por renglón.
func (g *SheetGenerator) packagings(l entity.MovementLine) string {
	if !l.Item.IsFractionable || len(l.Packagings) == 0 {
		return "—"
	}
	parts := make([]string, 0, len(l.Packagings))
	for _, p := range l.Packagings {
		parts = append(parts, fmt.Sprintf("%s × %s", g.decimal(p.Quantity),
			nonEmpty(p.ItemPackaging.Description, "(sin embalaje)")))
	}
	return strings.Join(parts, "\n")
}

func (g *SheetGenerator) quantity(d decimal.NullDecimal, unit string) string {
	if !d.Valid {
		return "—"
	}
	if unit == "" {
		return g.decimal(d.Decimal)
	}
	return g.decimal(d.Decimal) + " " + unit
}

func (g *SheetGenerator) decimal(d decimal.Decimal) string {
	return g.printer.Sprint(number.Decimal(d.InexactFloat64(), number.MaxFractionDigits(3)))
}

func (g *SheetGenerator) money(d decimal.Decimal) string {
	return "R$ " + g.printer.Sprint(number.Decimal(d.Round(2).InexactFloat64(),
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func (g *SheetGenerator) moneyNull(d decimal.NullDecimal) string {
	if !d.Valid {
		return "—"
	}
	return g.money(d.Decimal)
}

func rowHeight(packagings int) float64 {
	if packagings <= 1 {
		return 7
	}
	return float64(3 + 4*packagings)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
