package movement

import (
	"context"

	"github.com/jhoicas/graoagrao-estoque/internal/application/dto"
	"github.com/jhoicas/graoagrao-estoque/internal/domain/entity"
)

// Credentials contexto de la sesión del usuario que se reenvía a la API de inventario:
// token de acceso y tienda seleccionada.
type Credentials struct {
	Token   string
	StoreID int64
	Subject string // usuario dueño del token
}

// Gateway puerto hacia la API de inventario para entradas y salidas de stock.
type Gateway interface {
	Create(ctx context.Context, creds Credentials, kind entity.MovementKind, req *dto.CreateMovementRequest) (*entity.StockMovement, error)
	Update(ctx context.Context, creds Credentials, kind entity.MovementKind, req *dto.UpdateMovementRequest) (*entity.StockMovement, error)
	Finalize(ctx context.Context, creds Credentials, kind entity.MovementKind, id int64) (*entity.StockMovement, error)
	Get(ctx context.Context, creds Credentials, kind entity.MovementKind, id int64) (*entity.StockMovement, error)
}

// Catalog puerto de solo lectura para ítems y embalajes de la tienda.
type Catalog interface {
	GetItem(ctx context.Context, creds Credentials, id int64) (*entity.Item, error)
	ListItemPackagings(ctx context.Context, creds Credentials, itemID int64) ([]entity.ItemPackaging, error)
}
