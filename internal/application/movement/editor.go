package movement

import (
	"fmt"

	"github.com/jhoicas/graoagrao-estoque/internal/domain"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LineField campo editable de una línea.
type LineField string

const (
	LineFieldItem          LineField = "item"           // valor: entity.Item
	LineFieldTotalQuantity LineField = "total_quantity" // valor: decimal.Decimal o decimal.NullDecimal
	LineFieldBuyPrice      LineField = "buy_price"      // valor: decimal.Decimal o decimal.NullDecimal (solo entradas)
)

// PackagingField campo editable de un embalaje.
type PackagingField string

const (
	PackagingFieldItemPackaging PackagingField = "item_packaging" // valor: entity.ItemPackaging
	PackagingFieldQuantity      PackagingField = "quantity"       // valor: decimal.Decimal
)

// Editor mantiene el borrador de un movimiento durante una sesión de edición.
// Cada operación trabaja sobre una copia y la reemplaza completa: quien guardó un
// snapshot anterior nunca lo ve cambiar.
type Editor struct {
	kind  entity.MovementKind
	draft *entity.StockMovement
}

// NewEditor crea un editor con un borrador vacío del tipo indicado.
func NewEditor(kind entity.MovementKind) *Editor {
	return &Editor{kind: kind, draft: entity.NewStockMovement(kind)}
}

// NewEditorFrom crea un editor sobre un movimiento existente.
func NewEditorFrom(m *entity.StockMovement) *Editor {
	return &Editor{kind: m.Kind, draft: m.Clone()}
}

// Kind tipo de movimiento que edita.
func (e *Editor) Kind() entity.MovementKind { return e.kind }

// Draft devuelve una copia del borrador actual.
func (e *Editor) Draft() *entity.StockMovement { return e.draft.Clone() }

// AddLine agrega una línea vacía al final.
func (e *Editor) AddLine() error {
	return e.update(func(m *entity.StockMovement) error {
		m.Lines = append(m.Lines, entity.NewMovementLine())
		return nil
	})
}

// RemoveLine quita la línea i. Quitar la última línea es válido; la interfaz lo impide.
func (e *Editor) RemoveLine(i int) error {
	return e.update(func(m *entity.StockMovement) error {
		if err := checkIndex(i, len(m.Lines)); err != nil {
			return err
		}
		m.Lines = append(m.Lines[:i], m.Lines[i+1:]...)
		return nil
	})
}

// AddPackaging agrega un embalaje vacío a la línea.
func (e *Editor) AddPackaging(line int) error {
	return e.update(func(m *entity.StockMovement) error {
		if err := checkIndex(line, len(m.Lines)); err != nil {
			return err
		}
		m.Lines[line].Packagings = append(m.Lines[line].Packagings, entity.NewPackagingEntry())
		return nil
	})
}

// RemovePackaging quita el embalaje pkg de la línea.
func (e *Editor) RemovePackaging(line, pkg int) error {
	return e.update(func(m *entity.StockMovement) error {
		if err := checkIndex(line, len(m.Lines)); err != nil {
			return err
		}
		l := &m.Lines[line]
		if err := checkIndex(pkg, len(l.Packagings)); err != nil {
			return err
		}
		l.Packagings = append(l.Packagings[:pkg], l.Packagings[pkg+1:]...)
		return nil
	})
}

// SetLineField actualiza un campo de la línea. Asignar un ítem no fraccionable
// vacía los embalajes de la línea en el acto; cambiar a otro ítem fraccionable
// los reinicia a un único embalaje vacío.
func (e *Editor) SetLineField(line int, field LineField, value any) error {
	return e.update(func(m *entity.StockMovement) error {
		if err := checkIndex(line, len(m.Lines)); err != nil {
			return err
		}
		l := &m.Lines[line]
		switch field {
		case LineFieldItem:
			item, ok := value.(entity.Item)
			if !ok {
				return invalidValue(string(field), value)
			}
			prev := l.Item.ID
			l.Item = item
			switch {
			case !item.IsFractionable:
				l.Packagings = []entity.PackagingEntry{}
			case item.ID != prev:
				// Los embalajes del ítem anterior no valen para el nuevo.
				l.Packagings = []entity.PackagingEntry{entity.NewPackagingEntry()}
			}
		case LineFieldTotalQuantity:
			d, ok := toNullDecimal(value)
			if !ok {
				return invalidValue(string(field), value)
			}
			l.TotalQuantity = d
		case LineFieldBuyPrice:
			if m.Kind != entity.MovementKindIn {
				return fmt.Errorf("%w: buy_price solo aplica a entradas", domain.ErrInvalidField)
			}
			d, ok := toNullDecimal(value)
			if !ok {
				return invalidValue(string(field), value)
			}
			l.BuyPrice = d
		default:
			return fmt.Errorf("%w: %q", domain.ErrInvalidField, field)
		}
		return nil
	})
}

// SetPackagingField actualiza un campo del embalaje pkg de la línea.
func (e *Editor) SetPackagingField(line, pkg int, field PackagingField, value any) error {
	return e.update(func(m *entity.StockMovement) error {
		if err := checkIndex(line, len(m.Lines)); err != nil {
			return err
		}
		l := &m.Lines[line]
		if err := checkIndex(pkg, len(l.Packagings)); err != nil {
			return err
		}
		p := &l.Packagings[pkg]
		switch field {
		case PackagingFieldItemPackaging:
			ip, ok := value.(entity.ItemPackaging)
			if !ok {
				return invalidValue(string(field), value)
			}
			p.ItemPackaging = ip
		case PackagingFieldQuantity:
			d, ok := toNullDecimal(value)
			if !ok || !d.Valid {
				return invalidValue(string(field), value)
			}
			p.Quantity = d.Decimal
		default:
			return fmt.Errorf("%w: %q", domain.ErrInvalidField, field)
		}
		return nil
	})
}

// ReplaceDraft reemplaza el borrador (por ejemplo con la copia guardada por el servidor).
func (e *Editor) ReplaceDraft(m *entity.StockMovement) {
	e.kind = m.Kind
	e.draft = m.Clone()
}

// Reset vuelve a una única línea vacía. Conserva la cabecera (id, estado y
// fechas) para que un movimiento ya guardado se siga actualizando y no se
// duplique en el servidor.
func (e *Editor) Reset() {
	next := e.draft.Clone()
	next.Lines = []entity.MovementLine{entity.NewMovementLine()}
	e.draft = next
}

// update aplica fn sobre una copia; si fn falla el borrador queda intacto.
func (e *Editor) update(fn func(m *entity.StockMovement) error) error {
	if e.draft.IsFinalized() {
		return domain.ErrMovementFinalized
	}
	next := e.draft.Clone()
	if err := fn(next); err != nil {
		return err
	}
	e.draft = next
	return nil
}

func checkIndex(i, n int) error {
	if i < 0 || i >= n {
		return fmt.Errorf("%w: %d (tamaño %d)", domain.ErrIndexOutOfRange, i, n)
	}
	return nil
}

func invalidValue(field string, value any) error {
	return fmt.Errorf("%w: %s no acepta %T", domain.ErrInvalidField, field, value)
}

func toNullDecimal(value any) (decimal.NullDecimal, bool) {
	switch v := value.(type) {
	case decimal.Decimal:
		return decimal.NewNullDecimal(v), true
	case decimal.NullDecimal:
		return v, true
	default:
		return decimal.NullDecimal{}, false
	}
}
