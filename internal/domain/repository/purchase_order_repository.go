package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la fila de la orden dentro de la tx actual (la recepción
	// debe serializar el chequeo de estado DELIVERED contra escritores concurrentes).
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, status string, limit, offset int) ([]*entity.PurchaseOrder, error)
	Update(ctx context.Context, po *entity.PurchaseOrder) error
}
