package movement

import (
	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/domain"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BuildCreateRequest valida el borrador y lo convierte en la solicitud de creación.
// Falla con el primer error encontrado; nunca devuelve una solicitud parcial.
func BuildCreateRequest(m *entity.StockMovement) (*dto.CreateMovementRequest, error) {
	if err := validateMovement(m, false); err != nil {
		return nil, err
	}
	return &dto.CreateMovementRequest{Items: buildItems(m, false)}, nil
}

// BuildUpdateRequest igual que BuildCreateRequest pero exige el id del movimiento
// y conserva los ids de líneas y embalajes ya guardados.
func BuildUpdateRequest(m *entity.StockMovement) (*dto.UpdateMovementRequest, error) {
	if err := validateMovement(m, true); err != nil {
		return nil, err
	}
	return &dto.UpdateMovementRequest{ID: m.ID, Items: buildItems(m, true)}, nil
}

// validateMovement: primero las reglas del movimiento, luego línea por línea en orden.
func validateMovement(m *entity.StockMovement, update bool) error {
	if m == nil || len(m.Lines) == 0 {
		return domain.ErrNoItems
	}
	if update && m.ID == 0 {
		return domain.ErrMissingMovementID
	}
	for i, l := range m.Lines {
		if err := validateLine(m.Kind, i, l); err != nil {
			return err
		}
	}
	return nil
}

// validateLine: item, precio (entradas), cantidad total, fraccionable/embalajes,
// y cada embalaje (id y luego cantidad).
func validateLine(kind entity.MovementKind, i int, l entity.MovementLine) error {
	if l.Item.ID == 0 {
		return domain.NewLineError(i, domain.ErrMissingItemID)
	}
	if kind == entity.MovementKindIn && !positive(l.BuyPrice) {
		return domain.NewLineError(i, domain.ErrInvalidBuyPrice)
	}
	if !positive(l.TotalQuantity) {
		return domain.NewLineError(i, domain.ErrInvalidTotalQuantity)
	}
	if !l.Item.IsFractionable && len(l.Packagings) > 0 {
		return domain.NewLineError(i, domain.ErrNonFractionablePackaging)
	}
	if l.Item.IsFractionable && len(l.Packagings) == 0 {
		return domain.NewLineError(i, domain.ErrMissingPackagings)
	}
	for j, p := range l.Packagings {
		if p.ItemPackaging.ID == 0 {
			return domain.NewPackagingError(i, j, domain.ErrMissingPackagingID)
		}
		if !p.Quantity.IsPositive() {
			return domain.NewPackagingError(i, j, domain.ErrInvalidPackagingQuantity)
		}
	}
	return nil
}

func positive(d decimal.NullDecimal) bool {
	return d.Valid && d.Decimal.IsPositive()
}

// buildItems mapea 1:1 las líneas ya validadas.
func buildItems(m *entity.StockMovement, withIDs bool) []dto.MovementItemRequest {
	items := make([]dto.MovementItemRequest, 0, len(m.Lines))
	for _, l := range m.Lines {
		item := dto.MovementItemRequest{
			ItemID:        l.Item.ID,
			TotalQuantity: l.TotalQuantity.Decimal,
			Packagings:    make([]dto.PackagingRequest, 0, len(l.Packagings)),
		}
		if withIDs {
			item.ID = l.ID
		}
		if m.Kind == entity.MovementKindIn {
			price := l.BuyPrice.Decimal
			item.BuyPrice = &price
		}
		for _, p := range l.Packagings {
			pr := dto.PackagingRequest{
				ItemPackagingID: p.ItemPackaging.ID,
				Quantity:        p.Quantity,
			}
			if withIDs {
				pr.ID = p.ID
			}
			item.Packagings = append(item.Packagings, pr)
		}
		items = append(items, item)
	}
	return items
}
