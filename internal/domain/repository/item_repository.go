package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para ítems.
// UpdateQuantity existe solo para el registrador de movimientos: la cantidad en mano
// es derivada del libro y ningún otro componente debe escribirla.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	// GetForUpdate bloquea la fila del ítem (SELECT FOR UPDATE) dentro de la tx actual.
	GetForUpdate(ctx context.Context, id string) (*entity.Item, error)
	List(ctx context.Context, onlyActive bool, limit, offset int) ([]*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	// UpdateQuantity escribe la cantidad cacheada. Solo el ledger la invoca.
	UpdateQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	// ListAtOrBelowReorder devuelve ítems activos con cantidad en mano <= nivel de reorden.
	ListAtOrBelowReorder(ctx context.Context) ([]*entity.Item, error)
}
