package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// StockRequirementRepository define el puerto de persistencia para requerimientos de stock.
type StockRequirementRepository interface {
	Create(ctx context.Context, req *entity.StockRequirement) error
	GetByID(ctx context.Context, id string) (*entity.StockRequirement, error)
	ListByOrder(ctx context.Context, orderID string) ([]*entity.StockRequirement, error)
	// ListOpenByItem devuelve los requerimientos no FULFILLED del ítem cuyos pedidos
	// siguen PENDING, bloqueados para update (los toca la cascada de reconciliación).
	ListOpenByItem(ctx context.Context, itemID string) ([]*entity.StockRequirement, error)
	Update(ctx context.Context, req *entity.StockRequirement) error
	UpdateStatus(ctx context.Context, id, status string) error
	Delete(ctx context.Context, id string) error
	// DeleteByOrder elimina los requerimientos del pedido (cancelación).
	DeleteByOrder(ctx context.Context, orderID string) error
}
