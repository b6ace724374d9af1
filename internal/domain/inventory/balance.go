package inventory

import (
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// PackagedQuantity suma las unidades base declaradas en los embalajes de la línea:
// Σ (cantidad de embalajes × unidades por embalaje).
func PackagedQuantity(line entity.MovementLine) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range line.Packagings {
		sum = sum.Add(p.Quantity.Mul(p.ItemPackaging.Quantity))
	}
	return sum
}

// IsBalanced compara la cantidad total de la línea con la suma de sus embalajes.
// Igualdad exacta, sin tolerancia. Falso si la cantidad total no está definida.
// Solo es una indicación para la interfaz: el servidor rechaza el finalizado si no cuadra.
func IsBalanced(line entity.MovementLine) bool {
	if !line.TotalQuantity.Valid {
		return false
	}
	return PackagedQuantity(line).Equal(line.TotalQuantity.Decimal)
}

// UnbalancedLines devuelve los índices de las líneas fraccionables que no cuadran.
// Las líneas de ítems no fraccionables no tienen embalajes y se omiten.
func UnbalancedLines(m *entity.StockMovement) []int {
	var out []int
	for i, l := range m.Lines {
		if l.Item.IsFractionable && !IsBalanced(l) {
			out = append(out, i)
		}
	}
	return out
}
