package inventory

import (
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LineCost costo de una línea de entrada: cantidad total × precio de compra.
// Cero si falta alguno de los dos (salidas no llevan precio).
func LineCost(line entity.MovementLine) decimal.Decimal {
	if !line.TotalQuantity.Valid || !line.BuyPrice.Valid {
		return decimal.Zero
	}
	return line.TotalQuantity.Decimal.Mul(line.BuyPrice.Decimal)
}

// MovementCost suma el costo de todas las líneas del movimiento.
func MovementCost(m *entity.StockMovement) decimal.Decimal {
	total := decimal.Zero
	for _, l := range m.Lines {
		total = total.Add(LineCost(l))
	}
	return total
}
