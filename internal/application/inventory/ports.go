package inventory

import (
	"context"

	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// TxRepos agrupa los repositorios atados a una misma transacción de BD.
type TxRepos struct {
	Items          repository.ItemRepository
	Movements      repository.StockMovementRepository
	Requirements   repository.StockRequirementRepository
	Orders         repository.SalesOrderRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Requisitions   repository.PurchaseRequisitionRepository
	Suppliers      repository.SupplierRepository
	Sequences      repository.SequenceRepository
	Audit          repository.AuditRepository
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad: si fn devuelve error se hace Rollback completo
// y ninguna escritura parcial queda visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(r TxRepos) error) error
}
