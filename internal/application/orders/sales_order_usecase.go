package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	dominv "github.com/jhoicas/Almacen-api/internal/domain/inventory"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
	"github.com/jhoicas/Almacen-api/pkg/logger"
)

// SalesOrderUseCase administra pedidos de venta y su rastreador de requerimientos:
// cada línea genera un snapshot requerido-vs-disponible que clasifica el faltante.
type SalesOrderUseCase struct {
	txRunner  inventory.TxRunner
	orderRepo repository.SalesOrderRepository
	reqRepo   repository.StockRequirementRepository
	auditRepo repository.AuditRepository
	log       *logger.Logger
}

// NewSalesOrderUseCase construye el caso de uso de pedidos.
func NewSalesOrderUseCase(
	txRunner inventory.TxRunner,
	orderRepo repository.SalesOrderRepository,
	reqRepo repository.StockRequirementRepository,
	auditRepo repository.AuditRepository,
	log *logger.Logger,
) *SalesOrderUseCase {
	return &SalesOrderUseCase{
		txRunner:  txRunner,
		orderRepo: orderRepo,
		reqRepo:   reqRepo,
		auditRepo: auditRepo,
		log:       log,
	}
}

// OrderLineInputDTO línea de pedido: ítem y cantidad requerida.
type OrderLineInputDTO struct {
	ItemID   string
	Quantity decimal.Decimal
}

// CreateOrderInputDTO entrada para crear un pedido de venta.
type CreateOrderInputDTO struct {
	CustomerName string
	PromisedDate *time.Time
	Notes        string
	Lines        []OrderLineInputDTO
}

// Create registra el pedido en estado PENDING y calcula sus requerimientos de stock
// en la misma transacción.
func (uc *SalesOrderUseCase) Create(ctx context.Context, actor entity.Actor, input CreateOrderInputDTO) (*entity.SalesOrder, error) {
	if input.CustomerName == "" || len(input.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, l := range input.Lines {
		if l.ItemID == "" || !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}

	now := time.Now()
	order := &entity.SalesOrder{
		ID:           uuid.New().String(),
		CustomerName: input.CustomerName,
		Status:       entity.SalesOrderPending,
		PromisedDate: input.PromisedDate,
		Notes:        input.Notes,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedBy:    actor.ID,
	}
	for _, l := range input.Lines {
		order.Lines = append(order.Lines, entity.SalesOrderLine{
			ID:       uuid.New().String(),
			OrderID:  order.ID,
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
		})
	}

	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		seq, err := r.Sequences.Next(ctx, repository.DocTypeSalesOrder, now.Year())
		if err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("%s-%d-%05d", repository.DocTypeSalesOrder, now.Year(), seq)
		if err := r.Orders.Create(ctx, order); err != nil {
			return err
		}
		return rebuildRequirements(ctx, r, order, now)
	})
	if err != nil {
		return nil, err
	}

	uc.audit(ctx, actor, "CREATE", "pedido de venta "+order.OrderNumber+" creado")
	return order, nil
}

// Recalculate reemplaza los requerimientos del pedido con snapshots frescos de la
// cantidad en mano actual de cada ítem. Es idempotente: con entradas sin cambios
// produce exactamente el mismo snapshot.
func (uc *SalesOrderUseCase) Recalculate(ctx context.Context, orderID string) ([]*entity.StockRequirement, error) {
	if orderID == "" {
		return nil, domain.ErrInvalidInput
	}
	var reqs []*entity.StockRequirement
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.SalesOrderPending {
			return &domain.InvalidTransitionError{Entity: "pedido de venta", Current: order.Status, Attempt: "RECALCULATE"}
		}
		if err := rebuildRequirements(ctx, r, order, time.Now()); err != nil {
			return err
		}
		reqs, err = r.Requirements.ListByOrder(ctx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// Cancel cancela un pedido PENDING y elimina sus requerimientos: los pedidos
// cancelados quedan fuera del alcance de la cascada de reconciliación.
func (uc *SalesOrderUseCase) Cancel(ctx context.Context, actor entity.Actor, orderID string) error {
	if orderID == "" {
		return domain.ErrInvalidInput
	}
	var orderNumber string
	err := uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		order, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if order.Status != entity.SalesOrderPending {
			return &domain.InvalidTransitionError{Entity: "pedido de venta", Current: order.Status, Attempt: "CANCEL"}
		}
		orderNumber = order.OrderNumber
		if err := r.Requirements.DeleteByOrder(ctx, orderID); err != nil {
			return err
		}
		return r.Orders.UpdateStatus(ctx, orderID, entity.SalesOrderCancelled)
	})
	if err != nil {
		return err
	}
	uc.audit(ctx, actor, "CANCEL", "pedido de venta "+orderNumber+" cancelado")
	return nil
}

// GetByID devuelve el pedido con sus líneas.
func (uc *SalesOrderUseCase) GetByID(ctx context.Context, id string) (*entity.SalesOrder, error) {
	order, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	return order, nil
}

// List lista pedidos, opcionalmente por estado.
func (uc *SalesOrderUseCase) List(ctx context.Context, status string, limit, offset int) ([]*entity.SalesOrder, error) {
	return uc.orderRepo.List(ctx, status, limit, offset)
}

// Requirements devuelve los requerimientos actuales del pedido.
func (uc *SalesOrderUseCase) Requirements(ctx context.Context, orderID string) ([]*entity.StockRequirement, error) {
	return uc.reqRepo.ListByOrder(ctx, orderID)
}

// rebuildRequirements reconstruye los requerimientos del pedido a partir de sus líneas
// y la cantidad en mano actual de cada ítem. Actualiza en el lugar para ser idempotente:
// con entradas sin cambios no escribe nada y las filas quedan idénticas.
func rebuildRequirements(ctx context.Context, r inventory.TxRepos, order *entity.SalesOrder, now time.Time) error {
	existing, err := r.Requirements.ListByOrder(ctx, order.ID)
	if err != nil {
		return err
	}
	byLine := make(map[string]*entity.StockRequirement, len(existing))
	for _, req := range existing {
		byLine[req.LineID] = req
	}

	seen := make(map[string]bool, len(order.Lines))
	for _, line := range order.Lines {
		item, err := r.Items.GetByID(ctx, line.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		seen[line.ID] = true

		required := line.Quantity
		available := item.Quantity
		shortage := dominv.Shortage(required, available)
		status := dominv.ClassifyRequirement(required, available, item.ReorderLevel)

		if prev, ok := byLine[line.ID]; ok {
			unchanged := prev.Required.Equal(required) && prev.Available.Equal(available) &&
				prev.Shortage.Equal(shortage) && prev.Status == status
			if unchanged {
				continue
			}
			prev.Required = required
			prev.Available = available
			prev.Shortage = shortage
			prev.Status = status
			prev.UpdatedAt = now
			if err := r.Requirements.Update(ctx, prev); err != nil {
				return err
			}
			continue
		}

		req := &entity.StockRequirement{
			ID:        uuid.New().String(),
			OrderID:   order.ID,
			LineID:    line.ID,
			ItemID:    line.ItemID,
			Required:  required,
			Available: available,
			Shortage:  shortage,
			Status:    status,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Requirements.Create(ctx, req); err != nil {
			return err
		}
	}

	// Filas de líneas que ya no existen en el pedido
	for _, req := range existing {
		if !seen[req.LineID] {
			if err := r.Requirements.Delete(ctx, req.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

func (uc *SalesOrderUseCase) audit(ctx context.Context, actor entity.Actor, action, description string) {
	err := uc.auditRepo.Create(ctx, &entity.AuditLog{
		ID:          uuid.New().String(),
		ActorID:     actor.ID,
		Module:      "orders",
		Action:      action,
		Description: description,
		CreatedAt:   time.Now(),
	})
	if err != nil && uc.log != nil {
		uc.log.Warn().Err(err).Str("action", action).Msg("auditoría no registrada")
	}
}
