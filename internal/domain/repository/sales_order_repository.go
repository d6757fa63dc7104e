package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// SalesOrderRepository define el puerto de persistencia para pedidos de venta y sus líneas.
type SalesOrderRepository interface {
	Create(ctx context.Context, order *entity.SalesOrder) error
	// GetByID devuelve el pedido con sus líneas.
	GetByID(ctx context.Context, id string) (*entity.SalesOrder, error)
	// GetForUpdate bloquea la fila del pedido dentro de la tx actual.
	GetForUpdate(ctx context.Context, id string) (*entity.SalesOrder, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.SalesOrder, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
