package movement_test

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/application/movement"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixtures compartidos
// ──────────────────────────────────────────────────────────────────────────────

var (
	rice = entity.Item{
		ID:             10,
		Description:    "Arroz a granel",
		IsFractionable: true,
		Category:       entity.Category{ID: 1, Description: "Granos"},
		UnitOfMeasure:  entity.UnitOfMeasure{ID: 2, Description: "Kilogramo", Abbreviation: "kg"},
	}
	soap = entity.Item{ID: 11, Description: "Jabón", IsFractionable: false}

	bag5kg = entity.ItemPackaging{ID: 100, Description: "Bolsa 5 kg", Quantity: decimal.NewFromInt(5)}
	bag1kg = entity.ItemPackaging{ID: 101, Description: "Bolsa 1 kg", Quantity: decimal.NewFromInt(1)}
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func nd(v int64) decimal.NullDecimal { return decimal.NewNullDecimal(d(v)) }

// balancedRiceLine: 10 kg = 2 bolsas de 5 kg.
func balancedRiceLine() entity.MovementLine {
	return entity.MovementLine{
		Item:          rice,
		TotalQuantity: nd(10),
		BuyPrice:      nd(4),
		Packagings:    []entity.PackagingEntry{{ItemPackaging: bag5kg, Quantity: d(2)}},
	}
}

func soapLine() entity.MovementLine {
	return entity.MovementLine{
		Item:          soap,
		TotalQuantity: nd(3),
		BuyPrice:      nd(2),
		Packagings:    []entity.PackagingEntry{},
	}
}

func draftWith(kind entity.MovementKind, lines ...entity.MovementLine) *entity.StockMovement {
	return &entity.StockMovement{Kind: kind, Status: entity.MovementStatusDraft, Lines: lines}
}

// fakeGateway simula la API de inventario y registra las llamadas.
type fakeGateway struct {
	created   []*dto.CreateMovementRequest
	updated   []*dto.UpdateMovementRequest
	finalized []int64
	nextID    int64
	err       error
	stored    *entity.StockMovement
	block     chan struct{}
	lastCreds movement.Credentials
}

func (g *fakeGateway) Create(_ context.Context, creds movement.Credentials, kind entity.MovementKind, req *dto.CreateMovementRequest) (*entity.StockMovement, error) {
	if g.block != nil {
		<-g.block
	}
	g.lastCreds = creds
	g.created = append(g.created, req)
	if g.err != nil {
		return nil, g.err
	}
	g.nextID++
	return g.echo(kind, g.nextID, req.Items), nil
}

func (g *fakeGateway) Update(_ context.Context, creds movement.Credentials, kind entity.MovementKind, req *dto.UpdateMovementRequest) (*entity.StockMovement, error) {
	g.lastCreds = creds
	g.updated = append(g.updated, req)
	if g.err != nil {
		return nil, g.err
	}
	return g.echo(kind, req.ID, req.Items), nil
}

func (g *fakeGateway) Finalize(_ context.Context, creds movement.Credentials, kind entity.MovementKind, id int64) (*entity.StockMovement, error) {
	g.lastCreds = creds
	g.finalized = append(g.finalized, id)
	if g.err != nil {
		return nil, g.err
	}
	m := g.stored.Clone()
	m.Status = entity.MovementStatusFinalized
	return m, nil
}

func (g *fakeGateway) Get(_ context.Context, _ movement.Credentials, _ entity.MovementKind, _ int64) (*entity.StockMovement, error) {
	if g.err != nil {
		return nil, g.err
	}
	return g.stored.Clone(), nil
}

// echo arma la respuesta del servidor: mismos datos con ids asignados.
func (g *fakeGateway) echo(kind entity.MovementKind, id int64, items []dto.MovementItemRequest) *entity.StockMovement {
	m := &entity.StockMovement{ID: id, Kind: kind, Status: entity.MovementStatusDraft}
	for i, it := range items {
		l := entity.MovementLine{
			ID:            int64(i + 1),
			Item:          entity.Item{ID: it.ItemID, IsFractionable: len(it.Packagings) > 0},
			TotalQuantity: decimal.NewNullDecimal(it.TotalQuantity),
			Packagings:    []entity.PackagingEntry{},
		}
		if it.BuyPrice != nil {
			l.BuyPrice = decimal.NewNullDecimal(*it.BuyPrice)
		}
		for j, p := range it.Packagings {
			l.Packagings = append(l.Packagings, entity.PackagingEntry{
				ID:            int64(j + 1),
				ItemPackaging: entity.ItemPackaging{ID: p.ItemPackagingID, Quantity: d(5)},
				Quantity:      p.Quantity,
			})
		}
		m.Lines = append(m.Lines, l)
	}
	g.stored = m
	return m.Clone()
}
