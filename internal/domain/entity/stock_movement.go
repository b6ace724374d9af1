package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento de stock.
type MovementKind string

const (
	MovementKindIn  MovementKind = "stock_in"  // entrada
	MovementKindOut MovementKind = "stock_out" // salida
)

// Valid indica si el tipo es conocido.
func (k MovementKind) Valid() bool {
	return k == MovementKindIn || k == MovementKindOut
}

// MovementStatus estado del movimiento.
type MovementStatus string

const (
	MovementStatusDraft     MovementStatus = "draft"
	MovementStatusFinalized MovementStatus = "finalized"
)

// PackagingEntry cantidad de un embalaje dentro de una línea.
type PackagingEntry struct {
	ID            int64
	ItemPackaging ItemPackaging
	Quantity      decimal.Decimal
}

// MovementLine línea (ítem) de un movimiento de entrada o salida.
// BuyPrice solo aplica a entradas.
type MovementLine struct {
	ID            int64
	Item          Item
	TotalQuantity decimal.NullDecimal
	BuyPrice      decimal.NullDecimal
	Packagings    []PackagingEntry
}

// StockMovement borrador o movimiento finalizado de entrada/salida de stock.
type StockMovement struct {
	ID          int64 // 0 hasta que el servidor lo crea
	Kind        MovementKind
	Status      MovementStatus
	Lines       []MovementLine
	CreatedAt   *time.Time
	FinalizedAt *time.Time
}

// NewPackagingEntry embalaje vacío con cantidad 1.
func NewPackagingEntry() PackagingEntry {
	return PackagingEntry{Quantity: decimal.NewFromInt(1)}
}

// NewMovementLine línea vacía: cantidad total 0 y un embalaje vacío.
func NewMovementLine() MovementLine {
	return MovementLine{
		TotalQuantity: decimal.NewNullDecimal(decimal.Zero),
		Packagings:    []PackagingEntry{NewPackagingEntry()},
	}
}

// NewStockMovement borrador de una sola línea vacía.
func NewStockMovement(kind MovementKind) *StockMovement {
	return &StockMovement{
		Kind:   kind,
		Status: MovementStatusDraft,
		Lines:  []MovementLine{NewMovementLine()},
	}
}

// IsFinalized indica si el movimiento ya no admite cambios.
func (m *StockMovement) IsFinalized() bool {
	return m.Status == MovementStatusFinalized
}

// Clone copia profunda: el resultado no comparte slices ni punteros con m.
func (m *StockMovement) Clone() *StockMovement {
	if m == nil {
		return nil
	}
	out := *m
	out.CreatedAt = cloneTime(m.CreatedAt)
	out.FinalizedAt = cloneTime(m.FinalizedAt)
	if m.Lines != nil {
		out.Lines = make([]MovementLine, len(m.Lines))
		for i, l := range m.Lines {
			out.Lines[i] = l.Clone()
		}
	}
	return &out
}

// Clone copia la línea con su propio slice de embalajes.
func (l MovementLine) Clone() MovementLine {
	if l.Packagings != nil {
		l.Packagings = append([]PackagingEntry(nil), l.Packagings...)
	}
	return l
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
