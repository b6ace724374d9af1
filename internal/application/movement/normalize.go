package movement

import (
	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// FromResponse normaliza un movimiento devuelto por el servidor al modelo de dominio,
// conservando el orden de líneas y embalajes.
func FromResponse(kind entity.MovementKind, r *dto.MovementResponse) *entity.StockMovement {
	m := &entity.StockMovement{
		ID:          r.ID,
		Kind:        kind,
		Status:      entity.MovementStatus(r.Status),
		Lines:       make([]entity.MovementLine, 0, len(r.Items)),
		CreatedAt:   r.CreatedAt,
		FinalizedAt: r.FinalizedAt,
	}
	if m.Status == "" {
		m.Status = entity.MovementStatusDraft
	}
	for _, it := range r.Items {
		l := entity.MovementLine{
			ID:            it.ID,
			Item:          ItemFromResponse(it.Item),
			TotalQuantity: nullable(it.TotalQuantity),
			BuyPrice:      nullable(it.BuyPrice),
			Packagings:    make([]entity.PackagingEntry, 0, len(it.Packagings)),
		}
		for _, p := range it.Packagings {
			l.Packagings = append(l.Packagings, entity.PackagingEntry{
				ID:            p.ID,
				ItemPackaging: PackagingFromResponse(p.ItemPackaging),
				Quantity:      p.Quantity,
			})
		}
		m.Lines = append(m.Lines, l)
	}
	return m
}

// ToResponse representa el borrador con la misma forma que usa el servidor.
func ToResponse(m *entity.StockMovement) dto.MovementResponse {
	r := dto.MovementResponse{
		ID:          m.ID,
		Status:      string(m.Status),
		Items:       make([]dto.MovementItemResponse, 0, len(m.Lines)),
		CreatedAt:   m.CreatedAt,
		FinalizedAt: m.FinalizedAt,
	}
	for _, l := range m.Lines {
		it := dto.MovementItemResponse{
			ID:            l.ID,
			Item:          itemToResponse(l.Item),
			TotalQuantity: pointer(l.TotalQuantity),
			BuyPrice:      pointer(l.BuyPrice),
			Packagings:    make([]dto.MovementPackagingResponse, 0, len(l.Packagings)),
		}
		for _, p := range l.Packagings {
			it.Packagings = append(it.Packagings, dto.MovementPackagingResponse{
				ID: p.ID,
				ItemPackaging: dto.ItemPackagingResponse{
					ID:          p.ItemPackaging.ID,
					Description: p.ItemPackaging.Description,
					Quantity:    p.ItemPackaging.Quantity,
				},
				Quantity: p.Quantity,
			})
		}
		r.Items = append(r.Items, it)
	}
	return r
}

// ItemFromResponse normaliza un ítem del catálogo.
func ItemFromResponse(r dto.ItemResponse) entity.Item {
	return entity.Item{
		ID:             r.ID,
		Description:    r.Description,
		IsFractionable: r.IsFractionable,
		Category:       entity.Category{ID: r.Category.ID, Description: r.Category.Description},
		UnitOfMeasure: entity.UnitOfMeasure{
			ID:           r.UnitOfMeasure.ID,
			Description:  r.UnitOfMeasure.Description,
			Abbreviation: r.UnitOfMeasure.Abbreviation,
		},
	}
}

// PackagingFromResponse normaliza un embalaje del catálogo.
func PackagingFromResponse(r dto.ItemPackagingResponse) entity.ItemPackaging {
	return entity.ItemPackaging{ID: r.ID, Description: r.Description, Quantity: r.Quantity}
}

func itemToResponse(i entity.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:             i.ID,
		Description:    i.Description,
		IsFractionable: i.IsFractionable,
		Category:       dto.CategoryResponse{ID: i.Category.ID, Description: i.Category.Description},
		UnitOfMeasure: dto.UnitOfMeasureResponse{
			ID:           i.UnitOfMeasure.ID,
			Description:  i.UnitOfMeasure.Description,
			Abbreviation: i.UnitOfMeasure.Abbreviation,
		},
	}
}

func nullable(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}

func pointer(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}
