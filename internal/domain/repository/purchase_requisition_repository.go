package repository

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// PurchaseRequisitionRepository define el puerto de persistencia para requisiciones de compra.
type PurchaseRequisitionRepository interface {
	Create(ctx context.Context, pr *entity.PurchaseRequisition) error
	GetByID(ctx context.Context, id string) (*entity.PurchaseRequisition, error)
	// GetForUpdate bloquea la fila de la requisición dentro de la tx actual (transiciones).
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseRequisition, error)
	// FindActiveForUpdate busca la requisición PENDING/APPROVED del par (ítem, pedido),
	// con salesOrderID nil para el par genérico, bloqueando las filas coincidentes.
	// Es el chequeo de duplicados: debe correr en la misma tx que el insert.
	FindActiveForUpdate(ctx context.Context, itemID string, salesOrderID *string) (*entity.PurchaseRequisition, error)
	List(ctx context.Context, status, urgency string, limit, offset int) ([]*entity.PurchaseRequisition, error)
	Update(ctx context.Context, pr *entity.PurchaseRequisition) error
}
